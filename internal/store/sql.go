package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
)

const createStateTable = `CREATE TABLE IF NOT EXISTS app_state (
    state_key   VARCHAR(64)  NOT NULL PRIMARY KEY,
    state_value LONGBLOB     NOT NULL,
    updated_at  DATETIME     NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// SQLKV stores each key as one row of the app_state table. Writes for a
// snapshot share a single transaction.
type SQLKV struct {
	db *sql.DB
}

// NewSQLKV returns a SQLKV bound to db. Call EnsureSchema once before use.
func NewSQLKV(db *sql.DB) *SQLKV { return &SQLKV{db: db} }

// EnsureSchema creates the app_state table if it does not exist.
func (s *SQLKV) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createStateTable); err != nil {
		return fmt.Errorf("create app_state: %w", err)
	}
	return nil
}

func (s *SQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT state_value FROM app_state WHERE state_key = ?`, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return v, nil
}

// Apply upserts set and deletes del inside one transaction. Keys are
// written in sorted order so concurrent writers lock rows consistently.
func (s *SQLKV) Apply(ctx context.Context, set map[string][]byte, del []string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO app_state (state_key, state_value, updated_at) VALUES (?, ?, UTC_TIMESTAMP())
             ON DUPLICATE KEY UPDATE state_value = VALUES(state_value), updated_at = VALUES(updated_at)`,
			k, set[k],
		); err != nil {
			return fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	for _, k := range del {
		if _, err = tx.ExecContext(ctx, `DELETE FROM app_state WHERE state_key = ?`, k); err != nil {
			return fmt.Errorf("delete %s: %w", k, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLKV) Close() error { return s.db.Close() }
