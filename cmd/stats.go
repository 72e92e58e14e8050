package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		rec := progress.Open(cmd.Context(), e.store.ProgressRepo(), progress.WithLogger(e.logger)).Snapshot()
		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		fmt.Fprintf(out, "XP:                 %d\n", rec.XP)
		fmt.Fprintf(out, "Sessions completed: %d\n", rec.CompletedSessions)
		fmt.Fprintf(out, "Average score:      %d%%\n", rec.AverageScore)
		fmt.Fprintf(out, "Accuracy:           %d%% (%d of %d)\n", rec.Accuracy(), rec.TotalCorrect, rec.QuestionsAnswered)
		fmt.Fprintf(out, "Words mastered:     %d of %d tracked\n", len(rec.Ledger().MasteredKeys()), rec.Ledger().Len())
		fmt.Fprintf(out, "Mistakes logged:    %d\n", len(rec.Mistakes))
		fmt.Fprintf(out, "Active batch:       %d items\n", len(rec.ActiveSession))

		fmt.Fprintln(out)
		fmt.Fprintln(out, "Category scores")
		fmt.Fprintln(out, strings.Repeat("─", 32))
		for _, c := range catalog.AllCategories() {
			score := rec.CategoryScores[c]
			fmt.Fprintf(out, "%-12s  %3d%%  %s\n", c.DisplayName(), score, scoreBar(score, 10))
		}
		return nil
	},
}

func scoreBar(pct, width int) string {
	filled := pct * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the raw progress record as JSON")
}
