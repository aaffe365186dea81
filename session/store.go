// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"slices"
	"sync"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

type student struct {
	id         string
	name       string
	connID     string
	answered   bool
	answeredAt time.Time
	joinedAt   time.Time
}

func (s *student) view() models.StudentView {
	v := models.StudentView{
		ID:       s.id,
		Name:     s.name,
		Answered: s.answered,
		JoinedAt: s.joinedAt.UnixMilli(),
	}
	if s.answered {
		at := s.answeredAt.UnixMilli()
		v.AnsweredAt = &at
	}
	return v
}

type poll struct {
	id          string
	question    string
	options     []string
	timeLimit   int
	results     []int
	answeredBy  map[string]time.Time // studentId -> answer time
	answerOrder []string
	status      string
	createdAt   time.Time
	closedAt    time.Time
}

func (p *poll) active() bool {
	return p.status == models.StatusActive
}

func (p *poll) view() models.PollView {
	return models.PollView{
		PollID:     p.id,
		Question:   p.question,
		Options:    slices.Clone(p.options),
		TimeLimit:  p.timeLimit,
		Results:    slices.Clone(p.results),
		Status:     p.status,
		AnsweredBy: slices.Clone(p.answerOrder),
		CreatedAt:  p.createdAt.UnixMilli(),
	}
}

func (p *poll) summary(roomID string) models.ClosedPollSummary {
	s := models.ClosedPollSummary{
		PollID:        p.id,
		RoomID:        roomID,
		Question:      p.question,
		Options:       slices.Clone(p.options),
		Results:       slices.Clone(p.results),
		TotalAnswered: len(p.answerOrder),
		TimeLimit:     p.timeLimit,
		CreatedAt:     p.createdAt.UnixMilli(),
	}
	if !p.closedAt.IsZero() {
		s.ClosedAt = p.closedAt.UnixMilli()
	}
	return s
}

// room is one teacher-owned session. Every field is guarded by mu, and a room
// together with its polls and countdown forms a single mutation domain.
type room struct {
	mu sync.Mutex

	id          string
	teacherConn string
	createdAt   time.Time

	// students is keyed by studentId; order keeps join order for clients.
	students map[string]*student
	order    []string

	polls         map[string]*poll
	currentPollID string
	pastPollIDs   []string
	timer         *countdown

	// torn down rooms stay reachable through stale pointers; closed makes
	// every later operation fail with ErrRoomNotFound.
	closed bool
}

func newRoom(id, teacherConn string, now time.Time) *room {
	return &room{
		id:          id,
		teacherConn: teacherConn,
		createdAt:   now,
		students:    make(map[string]*student),
		polls:       make(map[string]*poll),
	}
}

func (r *room) addStudent(s *student) {
	r.students[s.id] = s
	r.order = append(r.order, s.id)
}

func (r *room) removeStudent(id string) (*student, bool) {
	s, ok := r.students[id]
	if !ok {
		return nil, false
	}
	delete(r.students, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	return s, true
}

func (r *room) studentViews() []models.StudentView {
	views := make([]models.StudentView, 0, len(r.order))
	for _, id := range r.order {
		views = append(views, r.students[id].view())
	}
	return views
}

// allAnswered is false for an empty room.
func (r *room) allAnswered() bool {
	if len(r.students) == 0 {
		return false
	}
	for _, s := range r.students {
		if !s.answered {
			return false
		}
	}
	return true
}

// connInUse reports whether connID still belongs to the teacher or to any
// student of the room.
func (r *room) connInUse(connID string) bool {
	if connID == r.teacherConn {
		return true
	}
	for _, s := range r.students {
		if s.connID == connID {
			return true
		}
	}
	return false
}

func (r *room) currentPoll() *poll {
	if r.currentPollID == "" {
		return nil
	}
	return r.polls[r.currentPollID]
}

// Store is the in-memory registry of rooms. It only owns the index; all
// mutation of a room goes through the Manager while holding the room's lock.
type Store struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*room),
	}
}

// addBelow adds r unless the store already holds limit rooms. limit <= 0
// means no limit.
func (s *Store) addBelow(r *room, limit int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 && len(s.rooms) >= limit {
		return false
	}
	s.rooms[r.id] = r
	return true
}

func (s *Store) get(id string) (*room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

func (s *Store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[id]; !ok {
		return false
	}
	delete(s.rooms, id)
	return true
}

// ownedBy returns the rooms whose teacher is connID. teacherConn is immutable
// after creation, so it is safe to read without the room lock.
func (s *Store) ownedBy(connID string) []*room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var owned []*room
	for _, r := range s.rooms {
		if r.teacherConn == connID {
			owned = append(owned, r)
		}
	}
	return owned
}

func (s *Store) all() []*room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Len returns the number of live rooms.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}
