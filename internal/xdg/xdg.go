// Package xdg provides helpers to resolve XDG Base Directory paths for signin.
// Configuration lives under the config directory; the plain-file token store
// lives under the state directory so that deleting configuration never logs a
// user out and vice versa.
//
// The package handles fallback to traditional locations when XDG environment
// variables are not set and ensures private permissions on created directories.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used below every XDG base directory.
const AppName = "signin"

// ConfigDir returns the XDG config directory for signin.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/signin when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return resolve("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for signin.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.local/state/signin when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return resolve("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func resolve(envVar, homeRelative string) (string, error) {
	base := os.Getenv(envVar)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRelative)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
