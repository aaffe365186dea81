// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/livepoll/gateway"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/session"
)

// NewRouter wires the HTTP surface. archive may be nil.
func NewRouter(mgr *session.Manager, ws http.Handler, metrics *gateway.Metrics, archive handlers.PollArchive) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(metrics, mgr)
	archiveHandler := handlers.NewArchiveHandler(archive)

	// Health and metrics
	mux.HandleFunc("GET /health", middleware.WithLogging(healthHandler.Health))
	mux.HandleFunc("GET /metrics", middleware.WithLogging(healthHandler.Metrics))

	// Websocket upgrade; the connection logs its own lifecycle
	mux.Handle("GET /ws", ws)

	// Closed poll archive
	mux.HandleFunc("GET /archive/rooms/{id}/polls", middleware.WithLogging(archiveHandler.RoomPolls))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
