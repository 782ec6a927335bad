package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/msomdec/accountd/internal/domain"
)

// ActivityLogRepository implements domain.ActivityLog using SQLite.
// It only ever inserts and reads.
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new SQLite-backed ActivityLogRepository.
func NewActivityLogRepository(db *DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db.SqlDB}
}

func (r *ActivityLogRepository) Append(ctx context.Context, message string) (*domain.LogEntry, error) {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_logs (message, created_at) VALUES (?, ?)", message, now)
	if err != nil {
		return nil, storeError("insert activity log", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, storeError("get last insert id", err)
	}
	return &domain.LogEntry{ID: id, Message: message, CreatedAt: now}, nil
}

func (r *ActivityLogRepository) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, message, created_at FROM activity_logs ORDER BY id DESC LIMIT ?", limit)
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
