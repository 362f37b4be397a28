package main

import (
	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize the extracted voter data",
	Long: `Analyze reports totals, gender distribution, age statistics, the 18-29
cohort, and per-booth voter counts over everything extracted so far.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := newLogger()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Init(ctx); err != nil {
			return err
		}

		analysis, err := st.Analyze(ctx)
		if err != nil {
			return err
		}
		return cli.Output(analysis)
	},
}
