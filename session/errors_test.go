// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatching(t *testing.T) {
	err := invalidInput("question is required")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidOption)
	assert.Equal(t, "question is required", err.Error())

	wrapped := fmt.Errorf("create poll: %w", ErrPollInProgress)
	assert.ErrorIs(t, wrapped, ErrPollInProgress)
	assert.Equal(t, KindInvalidState, KindOf(wrapped))
	assert.Equal(t, "poll_in_progress", CodeOf(wrapped))

	plain := errors.New("boom")
	assert.Equal(t, Kind(""), KindOf(plain))
	assert.Equal(t, "", CodeOf(plain))
}

func TestErrorKinds(t *testing.T) {
	tests := map[*Error]Kind{
		ErrRoomNotFound:    KindNotFound,
		ErrPollNotFound:    KindNotFound,
		ErrStudentNotFound: KindNotFound,
		ErrUnauthorized:    KindUnauthorized,
		ErrPollNotActive:   KindInvalidState,
		ErrAlreadyAnswered: KindInvalidState,
		ErrPollInProgress:  KindInvalidState,
		ErrRoomLimit:       KindInvalidState,
		ErrInvalidOption:   KindInvalidInput,
		ErrInvalidInput:    KindInvalidInput,
	}
	for e, kind := range tests {
		assert.Equal(t, kind, KindOf(e), e.Code)
	}
}

func TestNormalizeName(t *testing.T) {
	name, err := normalizeName("studentName", "  Zoë  ")
	assert.NoError(t, err)
	assert.Equal(t, "Zoë", name)

	_, err = normalizeName("studentName", "tab\tinside")
	assert.ErrorIs(t, err, ErrInvalidInput)

	long := make([]rune, MaxNameLength+1)
	for i := range long {
		long[i] = 'é'
	}
	_, err = normalizeName("studentName", string(long))
	assert.ErrorIs(t, err, ErrInvalidInput)

	exact := string(long[:MaxNameLength])
	_, err = normalizeName("studentName", exact)
	assert.NoError(t, err)
}
