// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

// ArchiveQueueSize bounds the number of summaries waiting to be written.
const ArchiveQueueSize = 128

const writeTimeout = 5 * time.Second

// Archive records closed poll summaries. Writes happen on a single background
// worker so callers never wait on the database.
type Archive struct {
	db     *sql.DB
	dbType string

	mu     sync.RWMutex
	closed bool
	queue  chan models.ClosedPollSummary
	done   chan struct{}
}

// NewArchive starts the write worker. The caller keeps ownership of db and
// must call Close before closing it.
func NewArchive(db *sql.DB, dbType string) *Archive {
	a := &Archive{
		db:     db,
		dbType: dbType,
		queue:  make(chan models.ClosedPollSummary, ArchiveQueueSize),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Archive queues s for writing. When the queue is full or the archive is
// closed the summary is dropped with a warning.
func (a *Archive) Archive(s models.ClosedPollSummary) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		slog.Warn("archive closed, dropping poll summary", "poll_id", s.PollID)
		return
	}
	select {
	case a.queue <- s:
	default:
		slog.Warn("archive queue full, dropping poll summary", "poll_id", s.PollID, "room_id", s.RoomID)
	}
}

// Close stops accepting summaries and waits until the queued ones are written.
func (a *Archive) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *Archive) run() {
	defer close(a.done)
	for s := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := a.insert(ctx, s)
		cancel()
		if err != nil {
			slog.Error("failed to archive poll", "poll_id", s.PollID, "room_id", s.RoomID, "error", err)
			continue
		}
		slog.Debug("poll archived", "poll_id", s.PollID, "room_id", s.RoomID)
	}
}

func (a *Archive) insert(ctx context.Context, s models.ClosedPollSummary) error {
	options, err := json.Marshal(s.Options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	results, err := json.Marshal(s.Results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	_, err = a.db.ExecContext(ctx, a.rebind(`
		INSERT INTO closed_poll (poll_id, room_id, question, options, results, total_answered, time_limit, created_at, closed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (poll_id) DO NOTHING
	`), s.PollID, s.RoomID, s.Question, string(options), string(results), s.TotalAnswered, s.TimeLimit, s.CreatedAt, s.ClosedAt)
	if err != nil {
		return fmt.Errorf("failed to insert closed poll: %w", err)
	}
	return nil
}

// ListRoomPolls returns the archived polls of roomID in closing order.
func (a *Archive) ListRoomPolls(ctx context.Context, roomID string) ([]models.ClosedPollSummary, error) {
	rows, err := a.db.QueryContext(ctx, a.rebind(`
		SELECT poll_id, room_id, question, options, results, total_answered, time_limit, created_at, closed_at
		FROM closed_poll
		WHERE room_id = ?
		ORDER BY closed_at, poll_id
	`), roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query archived polls: %w", err)
	}
	defer rows.Close()

	polls := []models.ClosedPollSummary{}
	for rows.Next() {
		var s models.ClosedPollSummary
		var options, results string
		if err := rows.Scan(&s.PollID, &s.RoomID, &s.Question, &options, &results,
			&s.TotalAnswered, &s.TimeLimit, &s.CreatedAt, &s.ClosedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived poll: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &s.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options of poll %s: %w", s.PollID, err)
		}
		if err := json.Unmarshal([]byte(results), &s.Results); err != nil {
			return nil, fmt.Errorf("failed to decode results of poll %s: %w", s.PollID, err)
		}
		polls = append(polls, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read archived polls: %w", err)
	}
	return polls, nil
}

func (a *Archive) rebind(query string) string {
	return Rebind(a.dbType, query)
}

// Rebind rewrites ? placeholders into $1, $2, ... for postgres. Other
// database types get the query unchanged.
func Rebind(dbType, query string) string {
	if dbType != TypePostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
