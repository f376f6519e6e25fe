package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store against a single state_entries table, backed by
// the process's shared pgx pool rather than a second external dependency. Schema
// (see migrations):
//
//	state_entries(key TEXT PRIMARY KEY, value JSONB NOT NULL,
//	               expires_at TIMESTAMPTZ, version BIGINT NOT NULL DEFAULT 1)
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) Get(ctx context.Context, key string, dst any) error {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM state_entries
		 WHERE key = $1 AND (expires_at IS NULL OR expires_at > now())`,
		key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get state entry %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode state entry %s: %w", key, err)
	}
	return nil
}

func (s *PGStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode state entry %s: %w", key, err)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expiresAt = &t
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO state_entries (key, value, expires_at, version)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (key) DO UPDATE
		   SET value = EXCLUDED.value,
		       expires_at = EXCLUDED.expires_at,
		       version = state_entries.version + 1`,
		key, raw, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set state entry %s: %w", key, err)
	}
	return nil
}

// SetIfAbsent is a CAS-style insert: it succeeds only if no live row exists
// for key. An expired row is treated as absent and overwritten.
func (s *PGStore) SetIfAbsent(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode state entry %s: %w", key, err)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().UTC().Add(ttl)
		expiresAt = &t
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO state_entries (key, value, expires_at, version)
		 VALUES ($1, $2, $3, 1)
		 ON CONFLICT (key) DO UPDATE
		   SET value = EXCLUDED.value,
		       expires_at = EXCLUDED.expires_at,
		       version = state_entries.version + 1
		 WHERE state_entries.expires_at IS NOT NULL AND state_entries.expires_at <= now()`,
		key, raw, expiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("set-if-absent state entry %s: %w", key, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PGStore) Delete(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM state_entries WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete state entry %s: %w", key, err)
	}
	return nil
}

func (s *PGStore) IncrementCounter(ctx context.Context, key string, window time.Duration) (int64, error) {
	expiresAt := time.Now().UTC().Add(window)

	var count int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO state_entries (key, value, expires_at, version)
		 VALUES ($1, '1'::jsonb, $2, 1)
		 ON CONFLICT (key) DO UPDATE
		   SET value = CASE
		       WHEN state_entries.expires_at IS NOT NULL AND state_entries.expires_at <= now()
		         THEN '1'::jsonb
		       ELSE to_jsonb((state_entries.value #>> '{}')::bigint + 1)
		     END,
		     expires_at = CASE
		       WHEN state_entries.expires_at IS NOT NULL AND state_entries.expires_at <= now()
		         THEN EXCLUDED.expires_at
		       ELSE state_entries.expires_at
		     END,
		     version = state_entries.version + 1
		 RETURNING (value #>> '{}')::bigint`,
		key, expiresAt,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", key, err)
	}
	return count, nil
}
