// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signin/cli/internal/config"
	apperrors "signin/cli/internal/errors"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	got, err := s.Get(ctx, []string{"access_token"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Set(ctx, map[string]string{
		"access_token":  "a",
		"refresh_token": "r",
		"is_logged_in":  "true",
	}))

	got, err = s.Get(ctx, []string{"access_token", "refresh_token", "token_type"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"access_token": "a", "refresh_token": "r"}, got)

	require.NoError(t, s.Set(ctx, map[string]string{"access_token": "b"}))
	got, err = s.Get(ctx, []string{"access_token", "refresh_token"})
	require.NoError(t, err)
	assert.Equal(t, "b", got["access_token"])
	assert.Equal(t, "r", got["refresh_token"], "partial set keeps other keys")

	require.NoError(t, s.Delete(ctx, []string{"access_token", "refresh_token", "is_logged_in", "missing"}))
	got, err = s.Get(ctx, []string{"access_token", "refresh_token", "is_logged_in"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Ping(ctx))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)

	require.NoError(t, m.Set(context.Background(), map[string]string{"b": "1", "a": "2"}))
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	require.NoError(t, m.Close())
	_, err := m.Get(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), map[string]string{"a": "1"}), ErrClosed)
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signin.json")
	exerciseStore(t, NewFile(path))
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signin.json")

	require.NoError(t, NewFile(path).Set(ctx, map[string]string{"access_token": "a", "expires_in": "3600"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := NewFile(path).Get(ctx, []string{"access_token", "expires_in"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"access_token": "a", "expires_in": "3600"}, got)
}

func TestFile_DeleteAllRemovesFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signin.json")
	f := NewFile(path)

	require.NoError(t, f.Set(ctx, map[string]string{"access_token": "a"}))
	require.NoError(t, f.Delete(ctx, []string{"access_token"}))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Deleting again is a no-op.
	require.NoError(t, f.Delete(ctx, []string{"access_token"}))
}

func TestFile_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signin.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFile(path).Get(context.Background(), []string{"access_token"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestFile_PingUnwritableDir(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing", "signin.json"))
	assert.Error(t, f.Ping(context.Background()))
}

func TestOpen(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	ctx := context.Background()

	s, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, config.StoreConfig{Backend: config.BackendFile, Namespace: "work"}, zerolog.Nop())
	require.NoError(t, err)
	f, ok := s.(*File)
	require.True(t, ok)
	assert.Equal(t, "work.json", filepath.Base(f.Path()))

	_, err = Open(ctx, config.StoreConfig{Backend: "floppy"}, zerolog.Nop())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.Initialization))

	_, err = Open(ctx, config.StoreConfig{Backend: config.BackendPostgres}, zerolog.Nop())
	assert.True(t, apperrors.Is(err, apperrors.Initialization))

	_, err = Open(ctx, config.StoreConfig{Backend: config.BackendRedis, RedisAddr: "127.0.0.1:1"}, zerolog.Nop())
	assert.True(t, apperrors.Is(err, apperrors.Initialization))
}
