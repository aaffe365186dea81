// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/livepoll/gateway"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/models"
)

// RoomCounter reports the number of live rooms.
type RoomCounter interface {
	RoomCount() int
}

type HealthHandler struct {
	metrics *gateway.Metrics
	rooms   RoomCounter
}

func NewHealthHandler(metrics *gateway.Metrics, rooms RoomCounter) *HealthHandler {
	return &HealthHandler{metrics: metrics, rooms: rooms}
}

// Health handles GET /health
// Returns 503 once the server is near capacity so load balancers stop routing to it
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.metrics.Snapshot(h.rooms.RoomCount())

	status := http.StatusOK
	if snap.HealthStatus == gateway.HealthCritical {
		status = http.StatusServiceUnavailable
	}

	middleware.JSONResponse(w, status, models.HealthResponse{
		Status:            "Server is running",
		Health:            snap.HealthStatus,
		ActiveRooms:       snap.ActiveRooms,
		ActiveConnections: snap.ActiveConnections,
		UptimeSeconds:     snap.UptimeSeconds,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	})
}

// Metrics handles GET /metrics
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.metrics.Snapshot(h.rooms.RoomCount()))
}
