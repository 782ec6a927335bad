package domain

import (
	"context"
	"time"
)

// LogEntry is one line of the append-only activity log.
type LogEntry struct {
	ID        int64
	Message   string
	CreatedAt time.Time
}

// ActivityLog is append-only: entries are never updated or deleted.
type ActivityLog interface {
	Append(ctx context.Context, message string) (*LogEntry, error)
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]LogEntry, error)
}
