package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration
// files and strategy, ensuring the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Store is an Account Store: a migrated database exposing the user
// and activity log repositories.
type Store interface {
	Database
	Users() UserRepository
	Logs() ActivityLog
}
