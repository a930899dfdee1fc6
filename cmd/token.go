// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tokenHeader bool

// tokenCmd prints the access token, or the Authorization header value, for
// use in scripts. It fails when the session is missing or expired.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the access token of a valid session",
	Example: `  curl -H "Authorization: $(signin token --header)" https://learn-api.cambofreelance.com/api/...`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var (
			out string
			ok  bool
		)
		if tokenHeader {
			out, ok = a.svc.AuthorizationHeader(ctx)
		} else {
			out, ok = a.svc.AccessToken(ctx)
		}
		if !ok {
			pterm.Error.Println("No valid session. Run 'signin login' first.")
			return reported(errors.New("not logged in"))
		}
		fmt.Println(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().BoolVar(&tokenHeader, "header", false, `Print "<type> <token>" for an Authorization header`)
}
