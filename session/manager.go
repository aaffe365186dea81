// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/livepoll/models"
)

// Publisher is the transport side of a room's broadcast channel. Calls are
// made while a room lock is held, so implementations must not block and must
// not call back into the Manager.
type Publisher interface {
	Subscribe(roomID, connID string)
	Unsubscribe(roomID, connID string)
	Publish(roomID string, ev models.Event)
	SendTo(connID string, ev models.Event)
	DropRoom(roomID string)
}

// Archiver receives the summary of every closed poll. Archive must not block.
type Archiver interface {
	Archive(summary models.ClosedPollSummary)
}

// Manager owns all room and poll state and is the only way to read or mutate
// it.
type Manager struct {
	store     *Store
	maxRooms  int
	pub       Publisher
	archiver  Archiver
	newTicker TickerFactory
	now       func() time.Time
	newID     func() string
}

// DefaultMaxRooms caps the number of live rooms.
const DefaultMaxRooms = 1000

type Option func(*Manager)

// WithMaxRooms replaces DefaultMaxRooms. n <= 0 removes the cap.
func WithMaxRooms(n int) Option {
	return func(m *Manager) { m.maxRooms = n }
}

// WithArchiver hands closed poll summaries to a.
func WithArchiver(a Archiver) Option {
	return func(m *Manager) { m.archiver = a }
}

// WithTickerFactory replaces the one-second wall clock ticker used by poll
// countdowns.
func WithTickerFactory(f TickerFactory) Option {
	return func(m *Manager) { m.newTicker = f }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(pub Publisher, opts ...Option) *Manager {
	m := &Manager{
		store:     NewStore(),
		maxRooms:  DefaultMaxRooms,
		pub:       pub,
		newTicker: NewWallTicker,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	return m.store.Len()
}

// Close stops every running countdown. Room state is left in place.
func (m *Manager) Close() {
	for _, r := range m.store.all() {
		r.mu.Lock()
		if r.timer != nil {
			r.timer.cancel()
			r.timer = nil
		}
		r.mu.Unlock()
	}
	slog.Info("session manager stopped")
}

// lockRoom returns the room with its lock held. The caller must unlock.
func (m *Manager) lockRoom(roomID string) (*room, error) {
	r, ok := m.store.get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrRoomNotFound
	}
	return r, nil
}

func (m *Manager) publish(r *room, eventType string, payload any) {
	m.pub.Publish(r.id, models.Event{Type: eventType, RoomID: r.id, Payload: payload})
}
