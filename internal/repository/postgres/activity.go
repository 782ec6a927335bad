package postgres

import (
	"context"

	"github.com/msomdec/accountd/internal/domain"
)

// ActivityLogRepository implements domain.ActivityLog on PostgreSQL.
type ActivityLogRepository struct {
	db DBTX
}

// NewActivityLogRepository creates a new ActivityLogRepository.
func NewActivityLogRepository(db DBTX) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

func (r *ActivityLogRepository) Append(ctx context.Context, message string) (*domain.LogEntry, error) {
	query :=
		`INSERT INTO activity_logs (message)
		 VALUES ($1)
		 RETURNING id, created_at`

	entry := &domain.LogEntry{Message: message}
	if err := r.db.QueryRowContext(ctx, query, message).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return nil, storeError("insert activity log", err)
	}
	return entry, nil
}

func (r *ActivityLogRepository) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	query :=
		`SELECT id, message, created_at FROM activity_logs
		 ORDER BY id DESC
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, storeError("list activity logs", err)
	}
	defer rows.Close()

	var entries []domain.LogEntry
	for rows.Next() {
		var e domain.LogEntry
		if err := rows.Scan(&e.ID, &e.Message, &e.CreatedAt); err != nil {
			return nil, storeError("scan activity log", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError("list activity logs", err)
	}
	return entries, nil
}
