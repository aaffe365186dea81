// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"runtime"
	"sync/atomic"
	"time"
)

// Health status values reported by Snapshot.
const (
	HealthHealthy  = "healthy"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// Metrics tracks websocket traffic. All methods are safe for concurrent use.
type Metrics struct {
	activeConnections atomic.Int64
	totalConnections  atomic.Int64

	messagesReceived atomic.Int64
	messagesSent     atomic.Int64
	lastMessageTime  atomic.Int64 // unix seconds

	connectionErrors    atomic.Int64
	broadcastErrors     atomic.Int64
	rateLimitViolations atomic.Int64

	startTime time.Time
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// Connection tracking
func (m *Metrics) IncrementConnections() {
	m.activeConnections.Add(1)
	m.totalConnections.Add(1)
}

func (m *Metrics) DecrementConnections() {
	m.activeConnections.Add(-1)
}

func (m *Metrics) ActiveConnections() int64 {
	return m.activeConnections.Load()
}

// Message tracking
func (m *Metrics) IncrementMessagesReceived() {
	m.messagesReceived.Add(1)
	m.lastMessageTime.Store(time.Now().Unix())
}

func (m *Metrics) IncrementMessagesSent() {
	m.messagesSent.Add(1)
}

// Error tracking
func (m *Metrics) IncrementConnectionErrors() {
	m.connectionErrors.Add(1)
}

func (m *Metrics) IncrementBroadcastErrors() {
	m.broadcastErrors.Add(1)
}

func (m *Metrics) IncrementRateLimitViolations() {
	m.rateLimitViolations.Add(1)
}

// Snapshot is a point-in-time view of the metrics, served on /metrics.
type Snapshot struct {
	ActiveConnections int64 `json:"active_connections"`
	TotalConnections  int64 `json:"total_connections"`
	ActiveRooms       int   `json:"active_rooms"`

	MessagesReceived  int64   `json:"messages_received"`
	MessagesSent      int64   `json:"messages_sent"`
	MessagesPerSecond float64 `json:"messages_per_second"`
	LastMessageTime   string  `json:"last_message_time"`

	ConnectionErrors    int64 `json:"connection_errors"`
	BroadcastErrors     int64 `json:"broadcast_errors"`
	RateLimitViolations int64 `json:"rate_limit_violations"`

	UptimeSeconds int64  `json:"uptime_seconds"`
	MemoryUsageMB uint64 `json:"memory_usage_mb"`
	NumGoroutines int    `json:"num_goroutines"`

	HealthStatus string `json:"health_status"`
}

// Snapshot reads every counter once. activeRooms comes from the session
// manager, which owns room state.
func (m *Metrics) Snapshot(activeRooms int) Snapshot {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	uptime := time.Since(m.startTime)
	received := m.messagesReceived.Load()

	var perSec float64
	if secs := uptime.Seconds(); secs > 0 {
		perSec = float64(received) / secs
	}

	last := "never"
	if ts := m.lastMessageTime.Load(); ts > 0 {
		last = time.Unix(ts, 0).UTC().Format(time.RFC3339)
	}

	active := m.activeConnections.Load()
	errs := m.connectionErrors.Load() + m.broadcastErrors.Load()

	return Snapshot{
		ActiveConnections:   active,
		TotalConnections:    m.totalConnections.Load(),
		ActiveRooms:         activeRooms,
		MessagesReceived:    received,
		MessagesSent:        m.messagesSent.Load(),
		MessagesPerSecond:   perSec,
		LastMessageTime:     last,
		ConnectionErrors:    m.connectionErrors.Load(),
		BroadcastErrors:     m.broadcastErrors.Load(),
		RateLimitViolations: m.rateLimitViolations.Load(),
		UptimeSeconds:       int64(uptime.Seconds()),
		MemoryUsageMB:       mem.Alloc / 1024 / 1024,
		NumGoroutines:       runtime.NumGoroutine(),
		HealthStatus:        healthStatus(active, activeRooms, errs),
	}
}

// healthStatus is critical above 90% of capacity and warning above 80% or
// after more than 100 transport errors.
func healthStatus(conns int64, rooms int, errs int64) string {
	if conns > MaxTotalConnections*9/10 || rooms > MaxRooms*9/10 {
		return HealthCritical
	}
	if conns > MaxTotalConnections*8/10 || rooms > MaxRooms*8/10 || errs > 100 {
		return HealthWarning
	}
	return HealthHealthy
}
