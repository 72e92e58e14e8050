package contentgen

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/store"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported word list format (want .xlsx or .csv)")

// ImportReport summarizes one import.
type ImportReport struct {
	Rows     int
	Imported int
	Dropped  int
}

// Importer loads word lists into the word repo.
type Importer struct {
	repo   store.WordRepo
	logger *zap.Logger
}

func NewImporter(repo store.WordRepo, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{repo: repo, logger: logger}
}

// ImportFile reads path and stores its words. Rows are word, definition and
// an optional example sentence; a header row is skipped.
func (im *Importer) ImportFile(ctx context.Context, path string) (ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return im.Import(ctx, filepath.Base(path), f)
}

// Import parses r according to the extension of name.
func (im *Importer) Import(ctx context.Context, name string, r io.Reader) (ImportReport, error) {
	rows, err := readRows(name, r)
	if err != nil {
		return ImportReport{}, err
	}
	items, total := ParseRows(rows)
	clean, dropped := catalog.FilterItems(items)
	dropped += total - len(items)

	records := make([]store.WordRecord, 0, len(clean))
	for _, it := range clean {
		records = append(records, store.WordRecord{
			Key:    it.Key,
			Prompt: it.Prompt,
			Answer: it.Answer,
			Aux:    it.Aux,
			Source: name,
		})
	}
	n, err := im.repo.Upsert(ctx, records)
	if err != nil {
		return ImportReport{}, fmt.Errorf("store imported words: %w", err)
	}

	rep := ImportReport{Rows: total, Imported: n, Dropped: dropped}
	im.logger.Info("imported words", zap.String("source", name),
		zap.Int("rows", rep.Rows), zap.Int("imported", rep.Imported), zap.Int("dropped", rep.Dropped))
	return rep, nil
}

func readRows(name string, r io.Reader) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(r)
	case ".csv":
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
}

// readSpreadsheet returns the rows of the first sheet.
func readSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// ParseRows converts word rows to items. Blank rows are skipped and not
// counted; the returned total counts every non-blank data row.
func ParseRows(rows [][]string) ([]catalog.Item, int) {
	var items []catalog.Item
	total := 0
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		if i == 0 && isHeader(row) {
			continue
		}
		total++
		if len(row) < 2 {
			continue
		}
		example := ""
		if len(row) > 2 {
			example = row[2]
		}
		items = append(items, catalog.WordItem(row[0], row[1], example))
	}
	return items, total
}

func isHeader(row []string) bool {
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "word" || first == "term"
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// LoadPool returns the built-in words merged with every imported word.
// Imported entries win on key collisions.
func LoadPool(ctx context.Context, repo store.WordRepo) ([]catalog.Item, error) {
	base, err := catalog.BuiltinWords()
	if err != nil {
		return nil, err
	}
	if repo == nil {
		return base, nil
	}
	records, err := repo.All(ctx)
	if err != nil {
		return base, fmt.Errorf("load imported words: %w", err)
	}
	extra := make([]catalog.Item, 0, len(records))
	for _, r := range records {
		extra = append(extra, catalog.Item{Key: r.Key, Prompt: r.Prompt, Answer: r.Answer, Aux: r.Aux})
	}
	return catalog.MergeItems(extra, base), nil
}
