// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	Long: `The logout command removes every saved token field from the configured token
store. There is no server-side session to revoke, so it always succeeds and can
be run repeatedly.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if a.svc.Logout(ctx).IsSuccess() {
			pterm.Success.Println("All saved tokens have been removed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
