// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"

	"github.com/danielhkuo/livepoll/models"
)

const kickReason = "Teacher removed you from the poll system"

// JoinResult is returned by JoinRoom. Rejoined is true when the studentId was
// already a member and only its connection was refreshed.
type JoinResult struct {
	Students []models.StudentView
	Rejoined bool
}

// CreateRoom registers a new room owned by connID and subscribes connID to it.
// It fails with ErrRoomLimit once the manager holds its maximum of rooms.
func (m *Manager) CreateRoom(connID string) (string, error) {
	r := newRoom(m.newID(), connID, m.now())
	if !m.store.addBelow(r, m.maxRooms) {
		slog.Warn("room creation refused, at capacity", "teacher_conn", connID, "max_rooms", m.maxRooms)
		return "", ErrRoomLimit
	}
	m.pub.Subscribe(r.id, connID)

	slog.Info("room created", "room_id", r.id, "teacher_conn", connID)
	return r.id, nil
}

// JoinRoom adds studentID to the room, or rebinds its connection when it is
// already a member. Answer state survives a rejoin.
func (m *Manager) JoinRoom(roomID, studentID, studentName, connID string) (JoinResult, error) {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return JoinResult{}, err
	}
	defer r.mu.Unlock()

	if err := validateStudentID(studentID); err != nil {
		return JoinResult{}, err
	}

	if existing, ok := r.students[studentID]; ok {
		oldConn := existing.connID
		existing.connID = connID
		if name, err := normalizeName("studentName", studentName); err == nil {
			existing.name = name
		}
		if oldConn != connID && !r.connInUse(oldConn) {
			m.pub.Unsubscribe(r.id, oldConn)
		}
		m.pub.Subscribe(r.id, connID)

		slog.Info("student rejoined", "room_id", r.id, "student_id", studentID,
			"old_conn", oldConn, "new_conn", connID, "students", len(r.order))

		students := r.studentViews()
		m.publish(r, models.EventStudentsUpdated, models.StudentsUpdatedPayload{Students: students})
		return JoinResult{Students: students, Rejoined: true}, nil
	}

	name, err := normalizeName("studentName", studentName)
	if err != nil {
		return JoinResult{}, err
	}

	s := &student{
		id:       studentID,
		name:     name,
		connID:   connID,
		joinedAt: m.now(),
	}
	// An evicted student who rejoins mid-poll keeps the answer the poll
	// already counted.
	if p := r.currentPoll(); p != nil && p.active() {
		if at, ok := p.answeredBy[studentID]; ok {
			s.answered = true
			s.answeredAt = at
		}
	}
	r.addStudent(s)
	m.pub.Subscribe(r.id, connID)

	slog.Info("student joined", "room_id", r.id, "student_id", studentID, "students", len(r.order))

	students := r.studentViews()
	m.publish(r, models.EventStudentsUpdated, models.StudentsUpdatedPayload{Students: students})
	m.publish(r, models.EventStudentJoined, models.StudentJoinedPayload{
		StudentID:     s.id,
		StudentName:   s.name,
		TotalStudents: len(r.order),
	})
	return JoinResult{Students: students}, nil
}

// RemoveStudent evicts studentID. Only the room's teacher may do this.
func (m *Manager) RemoveStudent(roomID, requesterConn, studentID string) error {
	r, err := m.lockRoom(roomID)
	if err != nil {
		return err
	}
	defer r.mu.Unlock()

	if r.teacherConn != requesterConn {
		return ErrUnauthorized
	}

	s, ok := r.removeStudent(studentID)
	if !ok {
		return ErrStudentNotFound
	}

	slog.Info("student removed", "room_id", r.id, "student_id", s.id, "name", s.name)

	if !r.connInUse(s.connID) {
		m.pub.Unsubscribe(r.id, s.connID)
	}
	m.publish(r, models.EventStudentsUpdated, models.StudentsUpdatedPayload{Students: r.studentViews()})
	m.pub.SendTo(s.connID, models.Event{
		Type:    models.EventKickedOut,
		RoomID:  r.id,
		Payload: models.KickedOutPayload{Reason: kickReason},
	})
	return nil
}

// Disconnect handles a dropped connection. Rooms owned by connID are torn down
// with their polls and countdowns; student connections leave state untouched
// so the student can rejoin by id.
func (m *Manager) Disconnect(connID string) {
	for _, r := range m.store.ownedBy(connID) {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			continue
		}
		if r.timer != nil {
			r.timer.cancel()
			r.timer = nil
		}
		r.closed = true
		m.store.remove(r.id)
		m.pub.DropRoom(r.id)
		r.mu.Unlock()

		slog.Info("room closed due to teacher disconnect", "room_id", r.id)
	}
}
