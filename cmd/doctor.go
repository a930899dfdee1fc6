// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/config"
	"signin/cli/internal/dsn"
	"signin/cli/internal/httperrors"
	"signin/cli/internal/kv"
	"signin/cli/internal/logging"
	"signin/cli/internal/probe"
)

// doctorCmd checks that the API host is reachable, that the token store
// answers and, when configured, that the gRPC health endpoint reports SERVING.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check network access and token storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log := logging.NewLogger(os.Stderr, cfg.LogLevel)

		var checks []probe.Check

		api := probe.TCP(ctx, cfg.API.BaseURL)
		checks = append(checks, api)

		store, err := kv.Open(ctx, cfg.Store, log)
		if err != nil {
			checks = append(checks, probe.Check{Name: "token store", Target: cfg.Store.Backend, Err: err})
		} else {
			checks = append(checks, probe.Store(ctx, storeLabel(cfg.Store.Backend, cfg.Store.PostgresDSN), store))
			_ = store.Close()
		}

		if cfg.Probe.GRPCAddr != "" {
			checks = append(checks, probe.GRPCHealth(ctx, cfg.Probe.GRPCAddr, cfg.Probe.GRPCPlaintext))
		}

		failed := 0
		for _, c := range checks {
			if c.OK() {
				pterm.Printfln("✅ %-14s %s (%s)", c.Name, c.Target, c.Latency.Round(time.Millisecond))
				continue
			}
			failed++
			pterm.Printfln("❌ %-14s %s", c.Name, c.Target)
			pterm.Printfln("   %s", logging.Mask(c.Err.Error()))
		}

		if !api.OK() {
			pterm.Println()
			_ = httperrors.FormatNetworkError(api.Err, fmt.Sprintf("connecting to %s", httperrors.ExtractHostFromURL(cfg.API.BaseURL)))
		}
		if failed > 0 {
			return reported(errors.New("doctor found problems"))
		}
		pterm.Println()
		pterm.Success.Println("Everything looks good")
		return nil
	},
}

// storeLabel names the backend for display; Postgres shows its masked DSN.
func storeLabel(backend, postgresDSN string) string {
	if backend == config.BackendPostgres && postgresDSN != "" {
		return backend + " " + dsn.Mask(postgresDSN)
	}
	return backend
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
