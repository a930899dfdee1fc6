// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/backend"
	"signin/cli/internal/result"
)

// refreshCmd asks the session service to refresh the access token. The API
// has no refresh endpoint yet, so this reports why no refresh happened.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		return result.Match(a.svc.RefreshToken(ctx),
			func() error { return nil },
			func(backend.LoginResponse) error {
				pterm.Success.Println("Token refreshed")
				return nil
			},
			func(msg string) error {
				pterm.Warning.Println(msg)
				return reported(errors.New(msg))
			},
		)
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
