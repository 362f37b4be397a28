package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
	"github.com/arvindh/rollscan/internal/config"
	"github.com/arvindh/rollscan/internal/home"
	"github.com/arvindh/rollscan/internal/store"
	"github.com/arvindh/rollscan/version"
)

var (
	cfgFile      string
	homePath     string
	outputFormat string
	dbURL        string
)

var rootCmd = &cobra.Command{
	Use:   "rollscan",
	Short: "Electoral roll extraction pipeline with OCR and LLM-powered parsing",
	Long: `Rollscan turns scanned electoral roll documents into a structured voter
database. Pages are rasterized, classified as station headers or voter
listings, segmented into row blocks, OCRed, and parsed into records.

Progress is checkpointed per page, so an interrupted run resumes where
it left off without duplicating stations or voters.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.rollscan/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homePath, "home", "", "rollscan home directory (default: ~/.rollscan)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&dbURL, "db", "", "database URL override (SQLite path or postgres:// DSN)",
	)

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// A .env in the working directory supplies API keys and DSNs in
		// dev setups. Absence is not an error.
		_ = godotenv.Load()
		cli.SetOutputFormat(outputFormat)
	}

	rootCmd.AddCommand(
		extractCmd,
		initDBCmd,
		statusCmd,
		analyzeCmd,
		configCmd,
		versionCmd,
	)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfigManager() (*config.Manager, error) {
	cm, err := config.NewManager(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cm, nil
}

func loadConfig() (*config.Config, error) {
	cm, err := loadConfigManager()
	if err != nil {
		return nil, err
	}
	return cm.Get(), nil
}

func openHome() (*home.Dir, error) {
	d, err := home.New(homePath)
	if err != nil {
		return nil, err
	}
	if err := d.EnsureExists(); err != nil {
		return nil, err
	}
	return d, nil
}

// openStore connects to the database named by the --db flag or, when the
// flag is absent, the configured URL.
func openStore(cfg *config.Config, logger *slog.Logger) (*store.Store, error) {
	dsn := dbURL
	if dsn == "" {
		dsn = cfg.ResolveDatabaseURL()
	}
	return store.Open(dsn, logger)
}
