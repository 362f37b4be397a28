package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
)

type failedPage struct {
	Page  int    `json:"page" yaml:"page"`
	Error string `json:"error" yaml:"error"`
}

type statusReport struct {
	Database      string         `json:"database" yaml:"database"`
	PageStatus    map[string]int `json:"page_status" yaml:"page_status"`
	Voters        int            `json:"voters" yaml:"voters"`
	LastProcessed string         `json:"last_processed,omitempty" yaml:"last_processed,omitempty"`
	FailedPages   []failedPage   `json:"failed_pages,omitempty" yaml:"failed_pages,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show extraction progress and failed pages",
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

		report := statusReport{Database: st.Driver()}

		report.PageStatus, err = st.PageStatusCounts(ctx)
		if err != nil {
			return err
		}
		report.Voters, err = st.CountVoters(ctx)
		if err != nil {
			return err
		}

		last, err := st.LastProcessedAt(ctx)
		if err != nil {
			return err
		}
		if !last.IsZero() {
			report.LastProcessed = humanize.Time(last)
		}

		failed, err := st.FailedPages(ctx)
		if err != nil {
			return err
		}
		for _, l := range failed {
			report.FailedPages = append(report.FailedPages, failedPage{
				Page:  l.PageNumber,
				Error: l.ErrorMessage,
			})
		}

		return cli.Output(report)
	},
}
