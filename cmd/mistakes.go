package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

var mistakesCmd = &cobra.Command{
	Use:   "mistakes",
	Short: "List the mistake log",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("category")
		var filter catalog.Category
		if name != "" {
			c, ok := catalog.ParseCategory(name)
			if !ok {
				return fmt.Errorf("unknown category %q", name)
			}
			filter = c
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		reg := progress.Open(cmd.Context(), e.store.ProgressRepo(), progress.WithLogger(e.logger)).Snapshot().Registry()
		items := reg.Items()
		if filter != "" {
			items = reg.ByCategory(filter)
		}

		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, "The mistake log is empty.")
			return nil
		}
		for i, it := range items {
			fmt.Fprintf(out, "%2d. [%s] %s\n", i+1, it.Category.DisplayName(), it.Prompt)
			fmt.Fprintf(out, "    answer: %s\n", it.Options[it.CorrectIndex])
			if it.Explanation != "" {
				fmt.Fprintf(out, "    %s\n", truncate(strings.TrimSpace(it.Explanation), 96))
			}
		}
		return nil
	},
}

func init() {
	mistakesCmd.Flags().StringP("category", "c", "", "Only show one category (reading, vocabulary, grammar, math, mock, spelling)")
}
