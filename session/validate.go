// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/danielhkuo/livepoll/models"
)

// Input constraints
const (
	MinOptions           = 2
	MaxOptions           = 20
	MaxOptionLength      = 200
	MaxQuestionLength    = 500
	MinTimeLimit         = 10
	MaxTimeLimit         = 300
	DefaultTimeLimit     = 60
	MaxStudentIDLength   = 64
	MaxNameLength        = 50
	MaxMessageTextLength = 1000
)

// normalizePoll trims the question and options and applies the default time
// limit. The returned options slice is a fresh copy.
func normalizePoll(question string, options []string, timeLimit int) (string, []string, int, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", nil, 0, invalidInput("question is required")
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return "", nil, 0, invalidInput(fmt.Sprintf("question too long (max %d characters)", MaxQuestionLength))
	}

	if len(options) < MinOptions {
		return "", nil, 0, invalidInput(fmt.Sprintf("at least %d options are required (got %d)", MinOptions, len(options)))
	}
	if len(options) > MaxOptions {
		return "", nil, 0, invalidInput(fmt.Sprintf("too many options (max %d, got %d)", MaxOptions, len(options)))
	}

	cleaned := make([]string, len(options))
	for i, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			return "", nil, 0, invalidInput(fmt.Sprintf("option %d is empty", i+1))
		}
		if utf8.RuneCountInString(opt) > MaxOptionLength {
			return "", nil, 0, invalidInput(fmt.Sprintf("option %d too long (max %d characters)", i+1, MaxOptionLength))
		}
		cleaned[i] = opt
	}

	if timeLimit == 0 {
		timeLimit = DefaultTimeLimit
	}
	if timeLimit < MinTimeLimit || timeLimit > MaxTimeLimit {
		return "", nil, 0, invalidInput(fmt.Sprintf("timeLimit must be between %d and %d seconds", MinTimeLimit, MaxTimeLimit))
	}

	return question, cleaned, timeLimit, nil
}

func validateStudentID(id string) error {
	if id == "" {
		return invalidInput("studentId is required")
	}
	if len(id) > MaxStudentIDLength {
		return invalidInput(fmt.Sprintf("studentId too long (max %d characters)", MaxStudentIDLength))
	}
	return nil
}

// normalizeName trims name and rejects empty, overlong or control-character
// names. field is used in the error message.
func normalizeName(field, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalidInput(field + " is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", invalidInput(fmt.Sprintf("%s too long (max %d characters)", field, MaxNameLength))
	}
	for _, r := range name {
		if r < 32 || r == 127 {
			return "", invalidInput(field + " contains control characters")
		}
	}
	return name, nil
}

func normalizeMessage(author, text, role string) (string, string, string, error) {
	author, err := normalizeName("author", author)
	if err != nil {
		return "", "", "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", "", invalidInput("text is required")
	}
	if utf8.RuneCountInString(text) > MaxMessageTextLength {
		return "", "", "", invalidInput(fmt.Sprintf("text too long (max %d characters)", MaxMessageTextLength))
	}

	switch role {
	case "":
		role = models.RoleStudent
	case models.RoleStudent, models.RoleTeacher:
	default:
		return "", "", "", invalidInput("role must be teacher or student")
	}

	return author, text, role, nil
}
