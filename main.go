// Package main is the entry point for the signin CLI application.
// It signs a user in with phone number and password and manages the saved session.
package main

import (
	"signin/cli/cmd"
)

// main is the entry point for the signin CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
