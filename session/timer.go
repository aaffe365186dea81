// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

// tickInterval is the countdown period.
const tickInterval = time.Second

// Ticker is the subset of *time.Ticker used by poll countdowns.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory builds the ticker for one countdown.
type TickerFactory func(d time.Duration) Ticker

type wallTicker struct{ t *time.Ticker }

func (w wallTicker) C() <-chan time.Time { return w.t.C }
func (w wallTicker) Stop()               { w.t.Stop() }

// NewWallTicker returns a Ticker backed by time.NewTicker.
func NewWallTicker(d time.Duration) Ticker {
	return wallTicker{t: time.NewTicker(d)}
}

// countdown is the running timer of one active poll. remaining is guarded by
// the owning room's lock; stop is closed exactly once by cancel.
type countdown struct {
	pollID    string
	remaining int
	stop      chan struct{}
	once      sync.Once
}

func (c *countdown) cancel() {
	c.once.Do(func() { close(c.stop) })
}

// startCountdown attaches a fresh countdown for p to r and starts its ticking
// goroutine. The caller holds r.mu.
func (m *Manager) startCountdown(r *room, p *poll) {
	if r.timer != nil {
		r.timer.cancel()
	}
	cd := &countdown{
		pollID:    p.id,
		remaining: p.timeLimit,
		stop:      make(chan struct{}),
	}
	r.timer = cd

	ticker := m.newTicker(tickInterval)
	roomID := r.id
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-cd.stop:
				return
			case <-ticker.C():
				if !m.tick(roomID, cd) {
					return
				}
			}
		}
	}()
}

// tick advances cd by one second. It returns false once the countdown is no
// longer the room's live timer, which ends the goroutine.
func (m *Manager) tick(roomID string, cd *countdown) bool {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return false
	}
	defer r.mu.Unlock()

	if r.timer != cd {
		return false
	}

	cd.remaining--
	if cd.remaining < 0 {
		cd.remaining = 0
	}
	m.publish(r, models.EventTimerUpdate, models.TimerUpdatePayload{
		PollID:        cd.pollID,
		RemainingTime: cd.remaining,
	})

	if cd.remaining > 0 {
		return true
	}

	if p, ok := r.polls[cd.pollID]; ok {
		slog.Info("poll timed out", "room_id", r.id, "poll_id", p.id)
		m.closePollLocked(r, p)
	}
	return false
}

// ClosePoll closes pollID if it is still active. It reports whether this call
// performed the closure; a second call for the same poll is a no-op.
func (m *Manager) ClosePoll(roomID, pollID string) bool {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return false
	}
	defer r.mu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return false
	}
	return m.closePollLocked(r, p)
}

// closePollLocked is the single closure path for timeouts, all-answered
// completion and supersession. The caller holds r.mu.
func (m *Manager) closePollLocked(r *room, p *poll) bool {
	if !p.active() {
		return false
	}

	if r.timer != nil && r.timer.pollID == p.id {
		r.timer.cancel()
		r.timer = nil
	}

	p.status = models.StatusClosed
	p.closedAt = m.now()
	r.pastPollIDs = append(r.pastPollIDs, p.id)
	if r.currentPollID == p.id {
		r.currentPollID = ""
	}

	slog.Info("poll closed", "room_id", r.id, "poll_id", p.id,
		"answered", len(p.answerOrder), "past_polls", len(r.pastPollIDs))

	m.publish(r, models.EventPollClosed, models.PollClosedPayload{
		PollID:        p.id,
		Question:      p.question,
		Results:       slices.Clone(p.results),
		TotalAnswered: len(p.answerOrder),
		Options:       slices.Clone(p.options),
	})

	if m.archiver != nil {
		m.archiver.Archive(p.summary(r.id))
	}
	return true
}
