package main

import (
	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
)

var initDBReset bool

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the database schema",
	Long: `Creates the polling_stations, voters, and extraction_logs tables.
Safe to run against an existing database; --reset drops and recreates
everything, discarding all extracted data.`,
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

		if initDBReset {
			if err := st.Reset(ctx); err != nil {
				return err
			}
			return cli.Output(map[string]string{"status": "schema reset"})
		}
		if err := st.Init(ctx); err != nil {
			return err
		}
		return cli.Output(map[string]string{"status": "schema created"})
	},
}

func init() {
	initDBCmd.Flags().BoolVar(&initDBReset, "reset", false, "drop and recreate all tables")
}
