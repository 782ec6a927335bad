package service

import (
	"context"
	"fmt"

	"github.com/msomdec/accountd/internal/domain"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 500
)

// ActivityService exposes the append-only activity log for reading.
type ActivityService struct {
	logs domain.ActivityLog
}

// NewActivityService creates a new ActivityService.
func NewActivityService(logs domain.ActivityLog) *ActivityService {
	return &ActivityService{logs: logs}
}

// Recent returns the newest entries first. A non-positive limit means
// the default page size; larger limits are capped.
func (s *ActivityService) Recent(ctx context.Context, limit int) ([]domain.LogEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	entries, err := s.logs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return entries, nil
}

func appendLog(ctx context.Context, logs domain.ActivityLog, format string, args ...any) error {
	if _, err := logs.Append(ctx, fmt.Sprintf(format, args...)); err != nil {
		return fmt.Errorf("append activity log: %w", err)
	}
	return nil
}
