// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/auth"
)

var statusJSON bool

// statusCmd shows the stored session: logged in or out, token status, login
// time, remaining minutes, token type and any readable JWT claims.
var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		st := a.svc.Status(ctx)
		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		}
		renderStatus(st)
		return nil
	},
}

func renderStatus(st auth.Status) {
	if st.TokenStatus == auth.TokenNone {
		pterm.Println("🔒 You're not logged in yet!")
		pterm.Println("   Run 'signin login' to get started.")
		return
	}

	state := pterm.Green("Logged in")
	if !st.LoggedIn {
		state = pterm.Yellow("Logged out (session expired)")
	}
	tokenStatus := pterm.Green(st.TokenStatus)
	if st.TokenStatus == auth.TokenExpired {
		tokenStatus = pterm.Red(st.TokenStatus)
	}
	rows := [][]string{
		{"Session", state},
		{"Token status", tokenStatus},
		{"Token type", st.TokenType},
	}
	if st.LoginTime != nil {
		rows = append(rows, []string{"Login time", st.LoginTime.Local().Format("2006-01-02 15:04")})
	}
	if st.ExpiresAt != nil {
		rows = append(rows, []string{"Expires at", st.ExpiresAt.Local().Format("2006-01-02 15:04")})
	}
	rows = append(rows,
		[]string{"Remaining", fmt.Sprintf("%d min", st.RemainingMinutes)},
		[]string{"Refresh token", yesNo(st.HasRefreshToken)},
	)
	_ = pterm.DefaultTable.WithData(rows).Render()

	if len(st.Claims) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Token claims (unverified)")
		keys := make([]string, 0, len(st.Claims))
		for k := range st.Claims {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		claimRows := make([][]string, 0, len(keys))
		for _, k := range keys {
			claimRows = append(claimRows, []string{k, fmt.Sprint(st.Claims[k])})
		}
		_ = pterm.DefaultTable.WithData(claimRows).Render()
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the session summary as JSON")
}
