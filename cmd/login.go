// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"errors"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"signin/cli/internal/backend"
	"signin/cli/internal/result"
	"signin/cli/internal/validate"
)

var (
	loginPhone         string
	loginPasswordStdin bool
	loginForce         bool
)

// loginCmd represents the login command.
// It collects a phone number and password, validates them locally, and
// exchanges them for a session that is stored in the configured token store.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with phone number and password",
	Long: `The login command asks for your phone number and password, sends them to the
token endpoint, and saves the issued session in the configured token store.

The password is read without echo on a terminal. For scripts, pipe it in and pass
--password-stdin. If a valid session already exists the command does nothing
unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if !loginForce && a.svc.IsLoggedIn(ctx) {
			pterm.Info.Printfln("Already logged in (%d min left). Use --force to sign in again.", a.tokens.RemainingMinutes(ctx))
			return nil
		}

		phone, password, err := readCredentials(bufio.NewReader(os.Stdin), loginPhone, loginPasswordStdin)
		if err != nil {
			return err
		}

		if err := validate.Credentials(phone, password); err != nil {
			showValidationError(err)
			return reported(err)
		}

		final := awaitResult(a.svc.Login(ctx, phone, password), "Signing in")
		return result.Match(final,
			func() error { return errors.New("login ended without a result") },
			func(resp backend.LoginResponse) error {
				pterm.Success.Println("Login successful!")
				pterm.Printfln("   Session valid for %d min.", a.tokens.RemainingMinutes(ctx))
				return nil
			},
			func(msg string) error {
				pterm.Error.Println(msg)
				return reported(errors.New(msg))
			},
		)
	},
}

// readCredentials collects the phone number and password, prompting for
// whatever was not supplied, and trims surrounding whitespace from both.
func readCredentials(in *bufio.Reader, phone string, passwordStdin bool) (string, string, error) {
	var err error
	if phone == "" {
		if passwordStdin {
			return "", "", errors.New("--phone is required with --password-stdin")
		}
		if phone, err = promptLine(in, "Phone number: "); err != nil {
			return "", "", err
		}
	}
	var password string
	if passwordStdin {
		password, err = readSecretLine(in)
	} else {
		password, err = promptSecret(in, "Password: ")
	}
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(phone), strings.TrimSpace(password), nil
}

// showValidationError prints the summary and one line per invalid field.
func showValidationError(err error) {
	pterm.Error.Println(validate.Summary)
	var ve *validate.Error
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			pterm.Printfln("   • %s", f.Message)
		}
	}
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "Phone number (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in even when a valid session exists")
}
