// Copyright (c) 2025 Signin
// Licensed under the MIT License. See LICENSE file in the project root for details.

package kv

import (
	"context"
	"fmt"

	"signin/cli/internal/dsn"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTokensTable = `
	CREATE TABLE IF NOT EXISTS signin_tokens (
		namespace  TEXT        NOT NULL,
		key        TEXT        NOT NULL,
		value      TEXT        NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (namespace, key)
	)
`

// Postgres keeps one row per key in signin_tokens, scoped by namespace.
// Set and Delete run in a single transaction.
type Postgres struct {
	pool      *pgxpool.Pool
	namespace string
}

// NewPostgres wraps an existing pool. The caller keeps ownership of pool
// unless Close is called.
func NewPostgres(pool *pgxpool.Pool, namespace string) *Postgres {
	return &Postgres{pool: pool, namespace: namespace}
}

// DialPostgres normalizes rawDSN, opens a pool, verifies connectivity and
// creates the table if needed.
func DialPostgres(ctx context.Context, rawDSN, namespace string) (*Postgres, error) {
	normalized, err := dsn.Parse(rawDSN)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.New(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	p := NewPostgres(pool, namespace)
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// EnsureSchema creates the backing table when it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, createTokensTable); err != nil {
		return fmt.Errorf("create signin_tokens: %w", err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, keys []string) (map[string]string, error) {
	out := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	rows, err := p.pool.Query(ctx, `
		SELECT key, value
		FROM signin_tokens
		WHERE namespace = $1 AND key = ANY($2)
	`, p.namespace, keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (p *Postgres) Set(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for k, v := range values {
			batch.Queue(`
				INSERT INTO signin_tokens (namespace, key, value, updated_at)
				VALUES ($1, $2, $3, now())
				ON CONFLICT (namespace, key)
				DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
			`, p.namespace, k, v)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}

func (p *Postgres) Delete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM signin_tokens
			WHERE namespace = $1 AND key = ANY($2)
		`, p.namespace, keys)
		return err
	})
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
