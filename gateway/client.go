// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// Conn is the part of *websocket.Conn a Client needs.
type Conn interface {
	Read(ctx context.Context) (websocket.MessageType, []byte, error)
	Write(ctx context.Context, typ websocket.MessageType, p []byte) error
	Ping(ctx context.Context) error
	Close(code websocket.StatusCode, reason string) error
}

// Client is one websocket connection. Outbound frames go through a buffered
// queue drained by a single writer goroutine.
type Client struct {
	id      string
	conn    Conn
	send    chan []byte
	metrics *Metrics

	messageCount int
	lastReset    time.Time
	rateMu       sync.Mutex

	ctx     context.Context
	cancel  context.CancelFunc
	closed  bool
	closeMu sync.Mutex
}

// NewClient wraps conn. The client lives until Close is called or ctx ends.
func NewClient(ctx context.Context, id string, conn Conn, metrics *Metrics) *Client {
	ctx, cancel := context.WithCancel(ctx)
	return &Client{
		id:        id,
		conn:      conn,
		send:      make(chan []byte, ClientSendBufferSize),
		metrics:   metrics,
		lastReset: time.Now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (c *Client) ID() string { return c.id }

// Done is closed once the client has been closed.
func (c *Client) Done() <-chan struct{} { return c.ctx.Done() }

// writePump drains the send queue and pings the peer every PingInterval.
func (c *Client) writePump() {
	ticker := time.NewTicker(PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(c.ctx, WriteTimeout)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				if c.ctx.Err() == nil {
					slog.Warn("websocket write failed", "conn_id", c.id, "error", err)
					c.metrics.IncrementBroadcastErrors()
				}
				return
			}
			c.metrics.IncrementMessagesSent()

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(c.ctx, WriteTimeout)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				if c.ctx.Err() == nil {
					slog.Info("websocket ping failed", "conn_id", c.id, "error", err)
				}
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// readPump delivers each inbound text frame to handle until the connection
// fails or the client is closed. Frames over the rate limit are answered with
// an error event instead.
func (c *Client) readPump(handle func(msg []byte)) {
	defer c.Close()

	for {
		_, msg, err := c.conn.Read(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil && !isNormalClose(err) {
				slog.Info("websocket read failed", "conn_id", c.id, "error", err)
				c.metrics.IncrementConnectionErrors()
			}
			return
		}

		if !c.allow() {
			slog.Warn("rate limit exceeded", "conn_id", c.id)
			c.metrics.IncrementRateLimitViolations()
			c.Send(rateLimitFrame)
			continue
		}

		c.metrics.IncrementMessagesReceived()
		handle(msg)
	}
}

func isNormalClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return errors.Is(err, context.Canceled)
}

// allow applies a fixed one-second window of MaxMessagesPerSecond frames.
func (c *Client) allow() bool {
	c.rateMu.Lock()
	defer c.rateMu.Unlock()

	now := time.Now()
	if now.Sub(c.lastReset) > RateLimitWindow {
		c.messageCount = 0
		c.lastReset = now
	}
	c.messageCount++
	return c.messageCount <= MaxMessagesPerSecond
}

// Send queues msg without blocking. A client whose queue is full is closed.
func (c *Client) Send(msg []byte) bool {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		slog.Warn("send buffer full, dropping slow client", "conn_id", c.id)
		c.metrics.IncrementBroadcastErrors()
		go c.Close()
		return false
	}
}

// Close shuts the connection down. Safe to call more than once.
func (c *Client) Close() {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	close(c.send)
	_ = c.conn.Close(websocket.StatusNormalClosure, "")
}
