package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/acedrill/internal/contentgen"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a word list from .xlsx or .csv",
	Long:  "Import reads rows of word, definition and an optional example sentence. Imported words replace built-in ones with the same spelling.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		report, err := contentgen.NewImporter(e.store.WordRepo(), e.logger).ImportFile(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("import %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d rows: %d imported, %d dropped.\n",
			report.Rows, report.Imported, report.Dropped)
		return nil
	},
}
