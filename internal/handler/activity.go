package handler

import (
	"net/http"
	"strconv"

	"github.com/msomdec/accountd/internal/service"
)

// ActivityHandler serves the activity log.
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// HandleRecent returns the newest activity log entries.
// GET /api/logs?limit=N
func (h *ActivityHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "recent activity", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": toLogEntryDTOs(entries),
	})
}
