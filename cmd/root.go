package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/acedrill/internal/config"
	"github.com/abhisek/acedrill/internal/logging"
	"github.com/abhisek/acedrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "acedrill",
	Short: "Terminal drills for vocabulary, spelling and grammar",
	Long:  "AceDrill is a terminal study arcade: flashcards, matching, a speed race and practice tests with XP and a mistake log.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides ACEDRILL_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: config.yaml in the data dir)")

	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(mistakesCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// env is what every subcommand needs: settings, a logger and the database.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	_ = e.logger.Sync()
}

// openEnv loads config, applies the --db flag and opens the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB = p
	}

	logger, err := logging.New(cfg.LogOptions())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("store opened", zap.String("path", dbPath))
	return &env{cfg: cfg, logger: logger, store: st}, nil
}
