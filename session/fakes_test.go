// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/livepoll/models"
)

type sent struct {
	target string // roomID for Publish, connID for SendTo
	ev     models.Event
}

// recorder is a Publisher that keeps every call for inspection.
type recorder struct {
	mu        sync.Mutex
	subs      map[string]map[string]bool
	published []sent
	direct    []sent
	dropped   []string
}

func newRecorder() *recorder {
	return &recorder{subs: make(map[string]map[string]bool)}
}

func (r *recorder) Subscribe(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.subs[roomID] == nil {
		r.subs[roomID] = make(map[string]bool)
	}
	r.subs[roomID][connID] = true
}

func (r *recorder) Unsubscribe(roomID, connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs[roomID], connID)
}

func (r *recorder) Publish(roomID string, ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, sent{target: roomID, ev: ev})
}

func (r *recorder) SendTo(connID string, ev models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.direct = append(r.direct, sent{target: connID, ev: ev})
}

func (r *recorder) DropRoom(roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, roomID)
	r.dropped = append(r.dropped, roomID)
}

func (r *recorder) subscribed(roomID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs[roomID][connID]
}

// events returns the published events of one type, in order.
func (r *recorder) events(eventType string) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, s := range r.published {
		if s.ev.Type == eventType {
			out = append(out, s.ev)
		}
	}
	return out
}

func (r *recorder) directTo(connID string) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Event
	for _, s := range r.direct {
		if s.target == connID {
			out = append(out, s.ev)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = nil
	r.direct = nil
}

// stillTicker never fires. Tests advance countdowns with advance().
type stillTicker struct{}

func (stillTicker) C() <-chan time.Time { return nil }
func (stillTicker) Stop()               {}

type archiveRecorder struct {
	mu        sync.Mutex
	summaries []models.ClosedPollSummary
}

func (a *archiveRecorder) Archive(s models.ClosedPollSummary) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.summaries = append(a.summaries, s)
}

func newTestManager(t *testing.T, opts ...Option) (*Manager, *recorder) {
	t.Helper()
	pub := newRecorder()
	opts = append([]Option{WithTickerFactory(func(time.Duration) Ticker { return stillTicker{} })}, opts...)
	m := NewManager(pub, opts...)
	t.Cleanup(m.Close)
	return m, pub
}

// liveCountdown returns the room's current countdown, or nil.
func liveCountdown(t *testing.T, m *Manager, roomID string) *countdown {
	t.Helper()
	r, ok := m.store.get(roomID)
	require.True(t, ok, "room %s not in store", roomID)
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer
}

// advance ticks the room's countdown n times, stopping early once it ends.
func advance(t *testing.T, m *Manager, roomID string, n int) {
	t.Helper()
	for range n {
		cd := liveCountdown(t, m, roomID)
		if cd == nil {
			return
		}
		m.tick(roomID, cd)
	}
}

func mustCreateRoom(t *testing.T, m *Manager, connID string) string {
	t.Helper()
	roomID, err := m.CreateRoom(connID)
	require.NoError(t, err)
	return roomID
}

// roomWithStudents creates a room owned by "teacher" and joins the given
// student ids, each on connection "conn-<id>".
func roomWithStudents(t *testing.T, m *Manager, ids ...string) string {
	t.Helper()
	roomID := mustCreateRoom(t, m, "teacher")
	for _, id := range ids {
		_, err := m.JoinRoom(roomID, id, "Student "+id, "conn-"+id)
		require.NoError(t, err)
	}
	return roomID
}

func openPoll(t *testing.T, m *Manager, roomID string, timeLimit int) models.PollView {
	t.Helper()
	p, err := m.CreatePoll(roomID, "teacher", "Pick one", []string{"A", "B", "C"}, timeLimit)
	require.NoError(t, err)
	return p
}
