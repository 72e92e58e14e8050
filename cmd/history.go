package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently finished practice tests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		entries, err := e.store.HistoryRepo().Recent(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query history: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "No finished tests yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-12s  %-7s  %-8s  %-6s  %s\n",
			"Finished", "Category", "Score", "Accuracy", "XP", "Took")
		fmt.Fprintln(out, strings.Repeat("─", 64))
		for _, h := range entries {
			name := h.Category
			if c, ok := catalog.ParseCategory(h.Category); ok {
				name = c.DisplayName()
			}
			fmt.Fprintf(out, "%-16s  %-12s  %3d/%-3d  %7d%%  %-6d  %d:%02d\n",
				h.FinishedAt.Local().Format("2006-01-02 15:04"),
				name, h.Score, h.Total, h.Accuracy, h.XPAwarded,
				h.DurationSecs/60, h.DurationSecs%60)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of tests to show")
}
