// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/auth"
	"signin/cli/internal/httperrors"
)

var requestData string

// requestCmd sends one authenticated call to the API using the stored session.
var requestCmd = &cobra.Command{
	Use:   "request METHOD PATH",
	Short: "Send an authenticated request to the API",
	Long: `The request command sends METHOD PATH to the configured API with the session's
Authorization header and prints the response body to stdout. PATH is relative to
api.base_url. Use --data to send a JSON body.`,
	Example: `  signin request GET /api/profile
  signin request POST /api/notes --data '{"text":"hi"}'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.svc.IsLoggedIn(ctx) {
			pterm.Error.Println("No valid session. Run 'signin login' first.")
			return reported(auth.ErrNotLoggedIn)
		}

		method := strings.ToUpper(args[0])
		target := a.api.BaseURL() + "/" + strings.TrimLeft(args[1], "/")
		var body io.Reader
		if requestData != "" {
			body = strings.NewReader(requestData)
		}
		req, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := a.svc.HTTPClient(ctx, a.api.Client()).Do(req)
		if err != nil {
			if errors.Is(err, auth.ErrNotLoggedIn) {
				pterm.Error.Println("No valid session. Run 'signin login' first.")
				return reported(err)
			}
			pterm.Error.Println(httperrors.ClassifyTransport(err).Message)
			a.log.Debug().Err(err).Msg("request failed")
			return reported(err)
		}
		defer resp.Body.Close()

		if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
			return err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			fmt.Fprintln(os.Stdout)
			pterm.Error.WithWriter(os.Stderr).Println(httperrors.Message(resp.StatusCode))
			return reported(fmt.Errorf("%s %s: status %d", method, args[1], resp.StatusCode))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requestCmd)
	requestCmd.Flags().StringVarP(&requestData, "data", "d", "", "JSON request body")
}
