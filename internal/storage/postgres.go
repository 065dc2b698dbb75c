package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// PostgresStore keeps blobs in a single Postgres table, sharing the
// SQLiteStore's contract. One connection is enough for the single-writer
// model this storage port serves.
type PostgresStore struct {
	conn *pgx.Conn
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	_, err = conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS blobs (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		conn.Close(ctx)
		return nil, fmt.Errorf("ensure blobs table: %w", err)
	}

	return &PostgresStore{conn: conn}, nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func (s *PostgresStore) Save(ctx context.Context, key, value string) error {
	_, err := s.conn.Exec(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("save blob %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRow(ctx, `SELECT value FROM blobs WHERE key = $1`, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load blob %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Exists(ctx context.Context, key string) (bool, error) {
	var exists bool
	err := s.conn.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM blobs WHERE key = $1)`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check blob %s: %w", key, err)
	}
	return exists, nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.Exec(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return fmt.Errorf("remove blob %s: %w", key, err)
	}
	return nil
}

// Backup snapshots the blobs table into a timestamped table and returns its
// name.
func (s *PostgresStore) Backup(ctx context.Context) (string, error) {
	name := "blobs_backup_" + time.Now().Format("20060102_150405")
	if _, err := s.conn.Exec(ctx, fmt.Sprintf(`CREATE TABLE %s AS TABLE blobs`, name)); err != nil {
		return "", fmt.Errorf("snapshot blobs table: %w", err)
	}
	return name, nil
}
