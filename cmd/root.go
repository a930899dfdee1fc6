// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the signin CLI application.
// It implements subcommands for logging in, inspecting and using the stored session,
// and configuring where tokens are kept, using the Cobra CLI framework.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
	flagVerbose bool
	flagBaseURL string
	flagStore   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in to the learning API and manage the saved session",
	Long: `signin authenticates with a phone number and password, keeps the issued
session tokens in a durable store, and answers session questions for scripts:
is the session valid, how long is left, which Authorization header to send.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			fmt.Printf("signin %s\napi %s\n", Version, cfg.API.BaseURL)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// reportedError marks an error whose message was already shown to the user.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// reported wraps err so Execute exits non-zero without printing it again.
func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err: err}
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var re reportedError
		if !errors.As(err, &re) {
			pterm.Error.WithWriter(os.Stderr).Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and configured API")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Write diagnostic logs to stderr")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Override api.base_url for this run")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "Override store.backend for this run (keychain, file, redis, postgres, memory)")
}
