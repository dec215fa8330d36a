package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"tradeops/internal/storage"
)

type activityEventJSON struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Action     string `json:"action"`
	Ref        string `json:"ref,omitempty"`
	Actor      string `json:"actor,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// handleActivity returns recent audit events. Requires the SQLite audit
// log to be configured; without it the endpoint reports 503.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if s.activity == nil {
		writeError(w, http.StatusServiceUnavailable, "audit log not configured")
		return
	}

	entity := strings.TrimSpace(r.URL.Query().Get("entity"))
	limit := 50
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	events, err := s.activity.List(r.Context(), entity, limit)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]activityEventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toActivityJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func toActivityJSON(e storage.AuditEvent) activityEventJSON {
	return activityEventJSON{
		ID:         e.ID,
		Entity:     e.Entity,
		Action:     e.Action,
		Ref:        e.Ref,
		Actor:      e.Actor,
		Detail:     e.Detail,
		OccurredAt: e.OccurredAt.Format(time.RFC3339),
	}
}
