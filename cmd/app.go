// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"signin/cli/internal/auth"
	"signin/cli/internal/backend"
	"signin/cli/internal/config"
	"signin/cli/internal/kv"
	"signin/cli/internal/logging"
)

// app bundles the collaborators a session command needs.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	store  kv.Store
	tokens *auth.TokenStore
	api    *backend.HTTP
	svc    *auth.Service
}

// loadConfig reads config and applies persistent flag overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagBaseURL != "" {
		cfg.API.BaseURL = flagBaseURL
	}
	if flagStore != "" {
		cfg.Store.Backend = flagStore
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires config, logger, token store, backend and session service.
// Failures are printed before returning.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		pterm.Error.Println(logging.PresentError("Cannot read configuration", err))
		return nil, reported(err)
	}
	log := logging.NewLogger(os.Stderr, cfg.LogLevel)

	store, err := kv.Open(ctx, cfg.Store, log)
	if err != nil {
		pterm.Error.Println(logging.PresentError("Cannot open the token store", err))
		pterm.Println("   Check `signin config show` or choose another backend with --store.")
		return nil, reported(err)
	}
	tokens, err := auth.NewTokenStore(store, log)
	if err != nil {
		_ = store.Close()
		pterm.Error.Println(err.Error())
		return nil, reported(err)
	}
	api := backend.New(cfg.API, userAgent(), log)
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		tokens: tokens,
		api:    api,
		svc:    auth.NewService(api, tokens, log),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Debug().Err(err).Msg("close token store")
	}
}
