// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"
	"slices"
	"time"

	"github.com/danielhkuo/livepoll/models"
)

// AnswerResult is the tally right after a successful SubmitAnswer. Closed is
// true when this answer completed the room and closed the poll.
type AnswerResult struct {
	PollID        string
	Results       []int
	TotalAnswered int
	Closed        bool
}

// CreatePoll opens a new poll in the room. A poll that is still active blocks
// the new one unless the room is empty or every student has answered it; in
// the latter case the old poll is closed first.
func (m *Manager) CreatePoll(roomID, requesterConn, question string, options []string, timeLimit int) (models.PollView, error) {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return models.PollView{}, err
	}
	defer r.mu.Unlock()

	if r.teacherConn != requesterConn {
		return models.PollView{}, ErrUnauthorized
	}

	question, options, timeLimit, err = normalizePoll(question, options, timeLimit)
	if err != nil {
		return models.PollView{}, err
	}

	if cur := r.currentPoll(); cur != nil && cur.active() {
		if len(r.students) > 0 && !r.allAnswered() {
			slog.Info("poll creation refused, not all students answered", "room_id", r.id, "poll_id", cur.id)
			return models.PollView{}, ErrPollInProgress
		}
		m.closePollLocked(r, cur)
	}

	p := &poll{
		id:         m.newID(),
		question:   question,
		options:    options,
		timeLimit:  timeLimit,
		results:    make([]int, len(options)),
		answeredBy: make(map[string]time.Time),
		status:     models.StatusActive,
		createdAt:  m.now(),
	}
	r.polls[p.id] = p
	r.currentPollID = p.id

	for _, s := range r.students {
		s.answered = false
	}

	slog.Info("poll created", "room_id", r.id, "poll_id", p.id, "options", len(options), "time_limit", timeLimit)

	m.publish(r, models.EventPollCreated, models.PollCreatedPayload{
		PollID:    p.id,
		Question:  p.question,
		Options:   slices.Clone(p.options),
		TimeLimit: p.timeLimit,
	})
	m.startCountdown(r, p)

	return p.view(), nil
}

// SubmitAnswer records one answer. The duplicate check and the increment
// happen under the same room lock.
func (m *Manager) SubmitAnswer(roomID, pollID, studentID string, option int) (AnswerResult, error) {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return AnswerResult{}, err
	}
	defer r.mu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return AnswerResult{}, ErrPollNotFound
	}
	if !p.active() {
		return AnswerResult{}, ErrPollNotActive
	}

	s, ok := r.students[studentID]
	if !ok {
		slog.Warn("answer from unknown student", "room_id", r.id, "student_id", studentID)
		return AnswerResult{}, ErrStudentNotFound
	}
	if _, done := p.answeredBy[studentID]; done {
		return AnswerResult{}, ErrAlreadyAnswered
	}
	if option < 0 || option >= len(p.options) {
		return AnswerResult{}, ErrInvalidOption
	}

	p.results[option]++
	now := m.now()
	p.answeredBy[studentID] = now
	p.answerOrder = append(p.answerOrder, studentID)
	s.answered = true
	s.answeredAt = now

	slog.Info("answer submitted", "room_id", r.id, "poll_id", p.id, "student_id", s.id,
		"answered", len(p.answerOrder), "students", len(r.students))

	m.pub.SendTo(s.connID, models.Event{
		Type:    models.EventAnswerSubmitted,
		RoomID:  r.id,
		Payload: models.AnswerSubmittedPayload{Success: true, Message: "Your answer has been recorded"},
	})
	m.publish(r, models.EventResultsUpdate, models.ResultsUpdatePayload{
		PollID:        p.id,
		Results:       slices.Clone(p.results),
		TotalAnswered: len(p.answerOrder),
		Question:      p.question,
		Options:       slices.Clone(p.options),
	})
	m.publish(r, models.EventStudentAnswered, models.StudentAnsweredPayload{
		StudentID:   s.id,
		StudentName: s.name,
	})

	res := AnswerResult{
		PollID:        p.id,
		Results:       slices.Clone(p.results),
		TotalAnswered: len(p.answerOrder),
	}

	if r.allAnswered() {
		slog.Info("all students answered, closing poll", "room_id", r.id, "poll_id", p.id)
		res.Closed = m.closePollLocked(r, p)
	}
	return res, nil
}

// RoomSnapshot returns the sanitized room state for dashboards that load after
// the fact. Tallies are left out.
func (m *Manager) RoomSnapshot(roomID string) (models.RoomSnapshot, error) {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return models.RoomSnapshot{}, err
	}
	defer r.mu.Unlock()

	snap := models.RoomSnapshot{
		RoomID:    r.id,
		Students:  r.studentViews(),
		CreatedAt: r.createdAt.UnixMilli(),
	}
	if p := r.currentPoll(); p != nil && p.active() {
		cur := &models.CurrentPollView{
			PollID:    p.id,
			Question:  p.question,
			Options:   slices.Clone(p.options),
			TimeLimit: p.timeLimit,
		}
		if r.timer != nil && r.timer.pollID == p.id {
			cur.RemainingTime = r.timer.remaining
		}
		snap.CurrentPoll = cur
	}
	return snap, nil
}

// PastPolls returns closed polls in the order they closed.
func (m *Manager) PastPolls(roomID string) ([]models.ClosedPollSummary, error) {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return nil, err
	}
	defer r.mu.Unlock()

	past := make([]models.ClosedPollSummary, 0, len(r.pastPollIDs))
	for _, id := range r.pastPollIDs {
		past = append(past, r.polls[id].summary(r.id))
	}
	return past, nil
}

// SendMessage relays one chat message to the room.
func (m *Manager) SendMessage(roomID, author, text, role string) error {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	author, text, role, err = normalizeMessage(author, text, role)
	if err != nil {
		return err
	}

	slog.Debug("chat message", "room_id", r.id, "author", author, "role", role)

	m.publish(r, models.EventMessageReceived, models.MessageReceivedPayload{
		Author:    author,
		Text:      text,
		Role:      role,
		Timestamp: m.now().UnixMilli(),
	})
	return nil
}
