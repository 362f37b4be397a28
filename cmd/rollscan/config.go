package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arvindh/rollscan/internal/cli"
	"github.com/arvindh/rollscan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage rollscan configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file to the home directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		homeDir, err := openHome()
		if err != nil {
			return err
		}
		if homeDir.ConfigExists() {
			return fmt.Errorf("config already exists at %s", homeDir.ConfigPath())
		}
		if err := config.WriteDefault(homeDir.ConfigPath()); err != nil {
			return err
		}
		return cli.Output(map[string]string{"config": homeDir.ConfigPath()})
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return cli.Output(cfg)
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
}
