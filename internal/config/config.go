// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; tokens go to the configured token store.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"signin/cli/internal/xdg"
)

// Store backends understood by kv.Open.
const (
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const (
	DefaultBaseURL        = "https://learn-api.cambofreelance.com/"
	DefaultLoginPath      = "api/oauth/token"
	DefaultTimeoutSeconds = 30
	DefaultNamespace      = "signin"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string      `json:"log_level"`
	API      APIConfig   `json:"api"`
	Store    StoreConfig `json:"store"`
	Probe    ProbeConfig `json:"probe"`
}

// APIConfig describes the remote credential endpoint.
type APIConfig struct {
	BaseURL        string `json:"base_url"`
	LoginPath      string `json:"login_path"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (a APIConfig) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// StoreConfig selects and configures the durable token store.
type StoreConfig struct {
	Backend     string `json:"backend"`
	Namespace   string `json:"namespace"`
	RedisAddr   string `json:"redis_addr,omitempty"`
	RedisDB     int    `json:"redis_db,omitempty"`
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// ProbeConfig holds optional connectivity checks used by `signin doctor`.
type ProbeConfig struct {
	// GRPCAddr is a host:port exposing grpc.health.v1.Health. Empty disables the check.
	GRPCAddr      string `json:"grpc_addr,omitempty"`
	// GRPCPlaintext disables TLS for the health check.
	GRPCPlaintext bool   `json:"grpc_plaintext,omitempty"`
}

// Path returns the path to the config file.
func Path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Default returns the built-in configuration for the current platform.
func Default() Config {
	return Config{
		LogLevel: "disabled",
		API: APIConfig{
			BaseURL:        DefaultBaseURL,
			LoginPath:      DefaultLoginPath,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Store: StoreConfig{
			Backend:   defaultBackend(runtime.GOOS),
			Namespace: DefaultNamespace,
			RedisAddr: "localhost:6379",
		},
	}
}

// defaultBackend prefers the OS credential store where the keyring supports it natively.
func defaultBackend(goos string) string {
	if goos == "darwin" || goos == "windows" {
		return BackendKeychain
	}
	return BackendFile
}

// Load reads configuration; missing file returns defaults. Environment
// overrides are applied on top of the file in both cases.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	c.applyEnv(os.Getenv)
	return c, nil
}

// LoadFile reads the config file without environment overrides, so that
// `config set` never persists a value that only came from the environment.
func LoadFile() (Config, error) {
	c := Default()
	p, err := Path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	if err == nil {
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	c.fillDefaults()
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := Path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	if c.API.LoginPath == "" {
		c.API.LoginPath = d.API.LoginPath
	}
	if c.API.TimeoutSeconds <= 0 {
		c.API.TimeoutSeconds = d.API.TimeoutSeconds
	}
	if c.Store.Backend == "" {
		c.Store.Backend = d.Store.Backend
	}
	if c.Store.Namespace == "" {
		c.Store.Namespace = d.Store.Namespace
	}
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("SIGNIN_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := getenv("SIGNIN_STORE"); v != "" {
		c.Store.Backend = v
	}
	if v := getenv("SIGNIN_REDIS_ADDR"); v != "" {
		c.Store.RedisAddr = v
	}
	if v := getenv("SIGNIN_POSTGRES_DSN"); v != "" {
		c.Store.PostgresDSN = v
	}
	if v := getenv("SIGNIN_GRPC_HEALTH_ADDR"); v != "" {
		c.Probe.GRPCAddr = v
	}
	if getenv("SIGNIN_VERBOSE") == "1" {
		c.LogLevel = "debug"
	}
}

// Keys lists the dotted names accepted by Set, in display order.
func Keys() []string {
	return []string{
		"log_level",
		"api.base_url",
		"api.login_path",
		"api.timeout_seconds",
		"store.backend",
		"store.namespace",
		"store.redis_addr",
		"store.redis_db",
		"store.postgres_dsn",
		"probe.grpc_addr",
		"probe.grpc_plaintext",
	}
}

// Set assigns a single dotted key. Unknown keys and malformed values are rejected.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "log_level":
		c.LogLevel = value
	case "api.base_url":
		c.API.BaseURL = value
	case "api.login_path":
		c.API.LoginPath = value
	case "api.timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("api.timeout_seconds must be a positive integer, got %q", value)
		}
		c.API.TimeoutSeconds = n
	case "store.backend":
		switch value {
		case BackendKeychain, BackendFile, BackendRedis, BackendPostgres, BackendMemory:
			c.Store.Backend = value
		default:
			return fmt.Errorf("unknown store backend %q", value)
		}
	case "store.namespace":
		c.Store.Namespace = value
	case "store.redis_addr":
		c.Store.RedisAddr = value
	case "store.redis_db":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("store.redis_db must be a non-negative integer, got %q", value)
		}
		c.Store.RedisDB = n
	case "store.postgres_dsn":
		c.Store.PostgresDSN = value
	case "probe.grpc_addr":
		c.Probe.GRPCAddr = value
	case "probe.grpc_plaintext":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("probe.grpc_plaintext must be true or false, got %q", value)
		}
		c.Probe.GRPCPlaintext = b
	default:
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return nil
}
