package handlers

import (
	"net/http"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/indago/internal/common"
)

// StatusHandler reports service health and build information.
type StatusHandler struct {
	startedAt time.Time
	logger    arbor.ILogger
}

func NewStatusHandler(logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		startedAt: time.Now(),
		logger:    logger,
	}
}

// GetStatusHandler handles GET /api/status
func (h *StatusHandler) GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"service": "indago",
		"status":  "ok",
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
	})
}
