package contentgen

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/store"
)

func openWordRepo(t *testing.T) store.WordRepo {
	t.Helper()
	s, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.WordRepo()
}

func TestParseRows(t *testing.T) {
	items, total := ParseRows([][]string{
		{"Word", "Definition", "Example"},
		{"Bevy", "group of something", "A bevy of quail."},
		{},
		{"Lonely"},
		{"Nuance", "slight difference"},
	})
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "Bevy", items[0].Key)
	assert.Equal(t, "A bevy of quail.", items[0].Aux)
	assert.Equal(t, "slight difference", items[1].Prompt)
}

func TestImporter_CSV(t *testing.T) {
	ctx := context.Background()
	repo := openWordRepo(t)
	im := NewImporter(repo, nil)

	csvData := "word,definition\nPlaudit,praise\nHapless,unlucky\n,orphan definition\nPlaudit,duplicate\n"
	rep, err := im.Import(ctx, "list.csv", strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Rows: 4, Imported: 2, Dropped: 2}, rep)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "list.csv", all[0].Source)
}

func TestImporter_XLSX(t *testing.T) {
	ctx := context.Background()
	repo := openWordRepo(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]string{{"Word", "Definition"}, {"Zenith", "top or peak"}, {"Wane", "decrease, fail"}}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rep, err := NewImporter(repo, nil).Import(ctx, "words.xlsx", buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Imported)

	pool, err := LoadPool(ctx, repo)
	require.NoError(t, err)
	found := catalog.SearchItems(pool, "zenith")
	require.Len(t, found, 1)
	assert.Equal(t, "top or peak", found[0].Prompt)
}

func TestImporter_UnsupportedFormat(t *testing.T) {
	_, err := NewImporter(openWordRepo(t), nil).Import(context.Background(), "words.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadPool_ImportedOverridesBuiltin(t *testing.T) {
	ctx := context.Background()
	repo := openWordRepo(t)
	base, err := catalog.BuiltinWords()
	require.NoError(t, err)
	require.NotEmpty(t, base)

	_, err = repo.Upsert(ctx, []store.WordRecord{{Key: base[0].Key, Prompt: "my own definition", Answer: base[0].Answer}})
	require.NoError(t, err)

	pool, err := LoadPool(ctx, repo)
	require.NoError(t, err)
	assert.Len(t, pool, len(base))
	for _, it := range pool {
		if it.Key == base[0].Key {
			assert.Equal(t, "my own definition", it.Prompt)
		}
	}
}
