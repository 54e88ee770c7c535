package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// loadState decodes the JSON value stored under key. A missing or corrupt
// value yields seed instead of an error; only database failures are returned.
func loadState[T any](ctx context.Context, db *DB, key string, seed T) (T, error) {
	var raw string
	err := db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return seed, nil
	}
	if err != nil {
		return seed, fmt.Errorf("failed to read %s: %w", key, err)
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return seed, nil
	}
	return value, nil
}

// saveState stores value as JSON under key
func saveState(ctx context.Context, db *DB, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(data), time.Now())
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// updateState loads the value under key, applies fn and saves the result.
// Concurrent updates run one at a time so no caller overwrites another's
// change.
func updateState[T any](ctx context.Context, db *DB, key string, seed T, fn func(T) (T, error)) error {
	db.stateMu.Lock()
	defer db.stateMu.Unlock()

	value, err := loadState(ctx, db, key, seed)
	if err != nil {
		return err
	}

	value, err = fn(value)
	if err != nil {
		return err
	}

	return saveState(ctx, db, key, value)
}
