// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/db"
	"github.com/danielhkuo/livepoll/models"
)

// SetupTestDB creates a fresh sqlite archive database in a temp directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, filepath.Join(t.TempDir(), "livepoll-test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestArchive returns an archive backed by SetupTestDB. It is closed
// before the database on cleanup.
func SetupTestArchive(t *testing.T) *db.Archive {
	t.Helper()

	archive := db.NewArchive(SetupTestDB(t), db.TypeSQLite)
	t.Cleanup(archive.Close)
	return archive
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           cliparse.DefaultPort,
		FrontendOrigin: cliparse.DefaultFrontendOrigin,
		DatabaseType:   db.TypeSQLite,
		LogLevel:       "info",
	}
}

// SampleSummary builds a closed two-option poll summary
func SampleSummary(roomID, pollID string, closedAt int64) models.ClosedPollSummary {
	return models.ClosedPollSummary{
		PollID:        pollID,
		RoomID:        roomID,
		Question:      "Is this a test?",
		Options:       []string{"Yes", "No"},
		Results:       []int{2, 1},
		TotalAnswered: 3,
		TimeLimit:     60,
		CreatedAt:     closedAt - 60_000,
		ClosedAt:      closedAt,
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
