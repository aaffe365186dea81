// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/session"
)

// Server upgrades HTTP requests on /ws and runs one Client per connection.
type Server struct {
	mgr      *session.Manager
	hub      *Hub
	dispatch *Dispatcher
	metrics  *Metrics

	originPatterns []string

	// ctx is the parent of every client; it is cancelled on shutdown.
	ctx context.Context
}

// NewServer builds the websocket endpoint. allowedOrigin is the frontend
// origin (for example http://localhost:3000); "*" accepts any origin.
func NewServer(ctx context.Context, mgr *session.Manager, hub *Hub, metrics *Metrics, allowedOrigin string) *Server {
	return &Server{
		mgr:            mgr,
		hub:            hub,
		dispatch:       NewDispatcher(mgr),
		metrics:        metrics,
		originPatterns: originPatterns(allowedOrigin),
		ctx:            ctx,
	}
}

// originPatterns converts an origin URL into the host pattern coder/websocket
// matches against. Same-host requests are always accepted by the library.
func originPatterns(origin string) []string {
	if origin == "" {
		return nil
	}
	if origin == "*" {
		return []string{"*"}
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return []string{origin}
	}
	return []string{u.Host}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.metrics.ActiveConnections() >= MaxTotalConnections {
		slog.Warn("connection refused, server at capacity", "active", s.metrics.ActiveConnections())
		http.Error(w, "Server at capacity", http.StatusServiceUnavailable)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.originPatterns,
	})
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		s.metrics.IncrementConnectionErrors()
		return
	}
	conn.SetReadLimit(ReadLimit)

	s.Serve(conn)
}

// Serve runs conn until it closes. It blocks.
func (s *Server) Serve(conn Conn) {
	c := NewClient(s.ctx, uuid.NewString(), conn, s.metrics)
	s.hub.Register(c)
	s.metrics.IncrementConnections()
	slog.Info("client connected", "conn_id", c.id, "active", s.metrics.ActiveConnections())

	defer func() {
		s.hub.Unregister(c.id)
		s.mgr.Disconnect(c.id)
		c.Close()
		s.metrics.DecrementConnections()
		slog.Info("client disconnected", "conn_id", c.id, "active", s.metrics.ActiveConnections())
	}()

	go c.writePump()
	c.readPump(func(msg []byte) {
		c.Send(s.dispatch.Handle(c.id, msg))
	})
}
