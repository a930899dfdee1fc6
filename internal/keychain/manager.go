// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe OS keychain storage for signin.
// This module manages all interactions with the OS keychain/credential store
// and exposes them as a durable string map, so the token store can keep its
// six session keys in macOS Keychain, Windows Credential Manager, or the
// Secret Service / KWallet / pass on Linux.
//
// On macOS the `security` command is preferred because it works on systems
// where the keyring library cannot open the login keychain.
package keychain

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// DefaultServiceName identifies our keychain/credential store namespace.
const DefaultServiceName = "signin"

// errNotFound is returned by native backends for missing keys.
var errNotFound = errors.New("key not found")

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu      sync.RWMutex
	ring    keyring.Keyring
	backend keychainBackend
	log     zerolog.Logger
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Delete(key string) error
}

// NewManager creates a keychain manager for service with the OS keyring initialized.
func NewManager(service string, log zerolog.Logger) (*Manager, error) {
	if service == "" {
		service = DefaultServiceName
	}
	// Try native security backend first on macOS
	if runtime.GOOS == "darwin" {
		backend, err := newSecurityBackend(service, log)
		if err == nil {
			return &Manager{backend: backend, log: log}, nil
		}
		log.Debug().Err(err).Msg("security command unavailable, falling back to keyring")
	}

	ring, err := openRing(service)
	if err != nil {
		return nil, err
	}

	return &Manager{ring: ring, log: log}, nil
}

// NewManagerWithRing wraps an already opened keyring, e.g. keyring.NewArrayKeyring.
func NewManagerWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{ring: ring, log: log}
}

// openRing opens the OS keyring using native platform backends only.
// No encrypted-file fallback: `store.backend file` covers hosts without one.
func openRing(service string) (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// Try macOS Keychain first, then pass (password store) as fallback
		allowedBackends = []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.PassBackend,
		}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	case "linux", "freebsd", "openbsd":
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	default:
		return nil, fmt.Errorf("secure storage not supported on %s; use `signin config set store.backend file`", runtime.GOOS)
	}

	cfg := keyring.Config{
		ServiceName:     service,
		AllowedBackends: allowedBackends,
		PassPrefix:      service,
	}

	// Hint prefixes where supported to minimize namespace collisions
	if runtime.GOOS == "windows" {
		cfg.WinCredPrefix = service
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		if runtime.GOOS == "darwin" {
			return nil, errors.New("macOS Keychain unavailable. On macOS 26.0+, install 'pass': brew install pass gnupg && gpg --generate-key && pass init <gpg-key-id>")
		}
		return nil, err
	}

	return ring, nil
}

// Get returns the keys present in the keychain.
// This method is thread-safe.
func (m *Manager) Get(_ context.Context, keys []string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		v, ok, err := m.get(k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

// Set stores every value. The keychain has no transactions, so when one write
// fails the keys already written are restored to their previous state.
// This method is thread-safe.
func (m *Manager) Set(_ context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	written := make(map[string]previousValue, len(values))
	for k, v := range values {
		old, existed, err := m.get(k)
		if err != nil {
			m.rollback(written)
			return err
		}
		if err := m.set(k, v); err != nil {
			m.rollback(written)
			return fmt.Errorf("store %q in keychain: %w", k, err)
		}
		written[k] = previousValue{value: old, existed: existed}
	}
	return nil
}

// previousValue remembers what a key held before Set overwrote it.
type previousValue struct {
	value   string
	existed bool
}

func (m *Manager) rollback(written map[string]previousValue) {
	for k, p := range written {
		var err error
		if p.existed {
			err = m.set(k, p.value)
		} else {
			err = m.remove(k)
		}
		if err != nil {
			m.log.Warn().Err(err).Str("key", k).Msg("keychain rollback failed")
		}
	}
}

// Delete removes keys; missing keys are ignored.
// This method is thread-safe.
func (m *Manager) Delete(_ context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for _, k := range keys {
		if err := m.remove(k); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Ping performs a read to confirm the keychain can be opened and queried.
func (m *Manager) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, _, err := m.get("__ping__")
	return err
}

func (m *Manager) Close() error { return nil }

func (m *Manager) get(key string) (string, bool, error) {
	// Use native backend if available
	if m.backend != nil {
		v, err := m.backend.Get(key)
		if errors.Is(err, errNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return v, true, nil
	}

	// Fallback to keyring library
	it, err := m.ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(it.Data), true, nil
}

func (m *Manager) set(key, value string) error {
	if m.backend != nil {
		return m.backend.Set(key, value)
	}
	return m.ring.Set(keyring.Item{Key: key, Data: []byte(value)})
}

func (m *Manager) remove(key string) error {
	if m.backend != nil {
		return m.backend.Delete(key)
	}
	if err := m.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
