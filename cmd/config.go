// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/config"
	"signin/cli/internal/dsn"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		p, _ := config.Path()
		rows := [][]string{{"Key", "Value"}}
		for _, k := range config.Keys() {
			rows = append(rows, []string{k, displayValue(cfg, k)})
		}
		pterm.Println(pterm.Gray("file: " + p))
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Persist one setting",
	Example: `  signin config set api.base_url https://staging.example.com/
  signin config set store.backend redis`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFile()
		if err != nil {
			return err
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		pterm.Success.Printfln("%s = %s", args[0], displayValue(cfg, args[0]))
		return nil
	},
}

// displayValue renders a config key with secrets masked.
func displayValue(cfg config.Config, key string) string {
	switch key {
	case "log_level":
		return cfg.LogLevel
	case "api.base_url":
		return cfg.API.BaseURL
	case "api.login_path":
		return cfg.API.LoginPath
	case "api.timeout_seconds":
		return cfg.API.Timeout().String()
	case "store.backend":
		return cfg.Store.Backend
	case "store.namespace":
		return cfg.Store.Namespace
	case "store.redis_addr":
		return cfg.Store.RedisAddr
	case "store.redis_db":
		return pterm.Sprint(cfg.Store.RedisDB)
	case "store.postgres_dsn":
		if cfg.Store.PostgresDSN == "" {
			return ""
		}
		return dsn.Mask(cfg.Store.PostgresDSN)
	case "probe.grpc_addr":
		return cfg.Probe.GRPCAddr
	case "probe.grpc_plaintext":
		return pterm.Sprint(cfg.Probe.GRPCPlaintext)
	}
	return ""
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
