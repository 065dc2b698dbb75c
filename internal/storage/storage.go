package storage

import "context"

// Store is the persistence port consumed by the repository: opaque string
// blobs keyed by name, with no schema knowledge. Save overwrites, Load
// returns the empty string for a key that was never saved.
type Store interface {
	Save(ctx context.Context, key, value string) error
	Load(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Remove(ctx context.Context, key string) error

	// Backup produces a backup copy and returns its location.
	Backup(ctx context.Context) (string, error)
}
