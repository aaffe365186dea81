// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package gateway

import (
	"context"
	"encoding/json"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/livepoll/models"
)

// mockConn implements Conn. Frames pushed with deliver are returned by Read;
// frames written by the client are kept in order.
type mockConn struct {
	mu       sync.Mutex
	written  [][]byte
	writeErr error
	closed   bool
	status   websocket.StatusCode

	inbound chan []byte
	done    chan struct{}
	once    sync.Once
}

func newMockConn() *mockConn {
	return &mockConn{
		inbound: make(chan []byte, 16),
		done:    make(chan struct{}),
	}
}

func (m *mockConn) Read(ctx context.Context) (websocket.MessageType, []byte, error) {
	select {
	case msg := <-m.inbound:
		return websocket.MessageText, msg, nil
	case <-m.done:
		return 0, nil, net.ErrClosed
	case <-ctx.Done():
		return 0, nil, ctx.Err()
	}
}

func (m *mockConn) Write(_ context.Context, _ websocket.MessageType, p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return net.ErrClosed
	}
	if m.writeErr != nil {
		return m.writeErr
	}
	m.written = append(m.written, append([]byte(nil), p...))
	return nil
}

func (m *mockConn) Ping(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return net.ErrClosed
	}
	return nil
}

func (m *mockConn) Close(code websocket.StatusCode, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.status = code
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *mockConn) deliver(v any) {
	var data []byte
	switch v := v.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		data, _ = json.Marshal(v)
	}
	m.inbound <- data
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// frames decodes every written frame into a generic map.
func (m *mockConn) frames(t *testing.T) []map[string]any {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]map[string]any, 0, len(m.written))
	for _, w := range m.written {
		var f map[string]any
		require.NoError(t, json.Unmarshal(w, &f))
		out = append(out, f)
	}
	return out
}

// waitFrame polls the written frames until one of the given type shows up.
func (m *mockConn) waitFrame(t *testing.T, typ string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, f := range m.frames(t) {
			if f["type"] == typ {
				return f
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no %q frame written", typ)
	return nil
}

// drainQueue reads every queued frame of c without running the writer.
func drainQueue(t *testing.T, c *Client) []models.Event {
	t.Helper()
	var out []models.Event
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return out
			}
			var ev models.Event
			require.NoError(t, json.Unmarshal(msg, &ev))
			out = append(out, ev)
		default:
			return out
		}
	}
}
