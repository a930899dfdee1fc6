// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package kv

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"signin/cli/internal/config"
	apperrors "signin/cli/internal/errors"
	"signin/cli/internal/keychain"
	"signin/cli/internal/xdg"
)

var (
	_ Store = (*Memory)(nil)
	_ Store = (*File)(nil)
	_ Store = (*Redis)(nil)
	_ Store = (*Postgres)(nil)
	_ Store = (*keychain.Manager)(nil)
)

// Open builds the store selected by cfg.Backend. Any failure is reported as
// an Initialization error so callers can tell it apart from request failures.
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (Store, error) {
	ns := cfg.Namespace
	if ns == "" {
		ns = config.DefaultNamespace
	}
	log = log.With().Str("backend", cfg.Backend).Str("namespace", ns).Logger()

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case config.BackendMemory:
		s = NewMemory()
	case config.BackendFile:
		s, err = openFile(ns)
	case config.BackendKeychain:
		s, err = keychain.NewManager(ns, log)
	case config.BackendRedis:
		s, err = DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB, ns)
	case config.BackendPostgres:
		if cfg.PostgresDSN == "" {
			return nil, apperrors.New(apperrors.Initialization, "store.postgres_dsn is not set")
		}
		s, err = DialPostgres(ctx, cfg.PostgresDSN, ns)
	default:
		return nil, apperrors.New(apperrors.Initialization, fmt.Sprintf("unknown store backend %q", cfg.Backend))
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.Initialization, fmt.Sprintf("cannot open %s token store", cfg.Backend), err)
	}
	log.Debug().Msg("token store opened")
	return s, nil
}

func openFile(namespace string) (*File, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return NewFile(filepath.Join(dir, namespace+".json")), nil
}
