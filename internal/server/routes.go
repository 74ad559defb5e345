package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Slack integration
	mux.HandleFunc("/slack/events", s.app.EventsHandler.EventsHandler)
	mux.HandleFunc("/slack/interactions", s.app.InteractionsHandler.InteractionsHandler)
	mux.HandleFunc("/slack/command", s.app.CommandHandler.CommandHandler)

	// Generated artifacts (briefing PDFs, decks, charts)
	mux.HandleFunc("/downloads/", s.app.DownloadsHandler.ServeHandler)

	// API routes - System
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found", http.StatusNotFound)
	})

	return mux
}
