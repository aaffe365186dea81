// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Kind groups error codes into the four failure classes callers act on.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindInvalidState Kind = "invalid_state"
	KindInvalidInput Kind = "invalid_input"
)

// Error is a client-facing failure. Code is stable and machine readable,
// Message is safe to show to end users.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so wrapped or freshly built errors compare equal to the
// sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrRoomNotFound    = &Error{Kind: KindNotFound, Code: "room_not_found", Message: "Room not found"}
	ErrPollNotFound    = &Error{Kind: KindNotFound, Code: "poll_not_found", Message: "Poll not found"}
	ErrStudentNotFound = &Error{Kind: KindNotFound, Code: "student_not_found", Message: "Student not found"}

	ErrUnauthorized = &Error{Kind: KindUnauthorized, Code: "unauthorized", Message: "Only the teacher can perform this action"}

	ErrPollNotActive   = &Error{Kind: KindInvalidState, Code: "poll_not_active", Message: "Poll is not active"}
	ErrAlreadyAnswered = &Error{Kind: KindInvalidState, Code: "already_answered", Message: "You have already answered"}
	ErrPollInProgress  = &Error{Kind: KindInvalidState, Code: "poll_in_progress", Message: "Not all students have answered the current question"}
	ErrRoomLimit       = &Error{Kind: KindInvalidState, Code: "room_limit_reached", Message: "Server has reached its room limit"}

	ErrInvalidOption = &Error{Kind: KindInvalidInput, Code: "invalid_option", Message: "Invalid option selected"}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput, Code: "invalid_input", Message: "Invalid input"}
)

// invalidInput builds an ErrInvalidInput with a specific message.
func invalidInput(msg string) error {
	return &Error{Kind: KindInvalidInput, Code: ErrInvalidInput.Code, Message: msg}
}

// KindOf reports the failure class of err, or "" when err is not a session error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf reports the stable code of err, or "" when err is not a session error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
