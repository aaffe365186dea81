// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/livepoll/gateway"
	"github.com/danielhkuo/livepoll/session"
	"github.com/danielhkuo/livepoll/testutil"
)

// wsStub stands in for the gateway so routing can be checked without an upgrade.
var wsStub = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func newTestRouter(t *testing.T, withArchive bool) *http.ServeMux {
	t.Helper()

	metrics := gateway.NewMetrics()
	mgr := session.NewManager(gateway.NewHub(metrics))
	t.Cleanup(mgr.Close)

	if withArchive {
		return NewRouter(mgr, wsStub, metrics, testutil.SetupTestArchive(t))
	}
	return NewRouter(mgr, wsStub, metrics, nil)
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t, false)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t, false)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "livepoll API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t, true)

	testCases := []struct {
		method   string
		path     string
		expected int
	}{
		{"GET", "/", http.StatusOK},
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/ws", http.StatusTeapot},
		{"GET", "/archive/rooms/room-1/polls", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, w.Code)
			}
		})
	}
}

func TestArchiveDisabled(t *testing.T) {
	mux := newTestRouter(t, false)

	req := httptest.NewRequest("GET", "/archive/rooms/room-1/polls", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestUnknownRoutes(t *testing.T) {
	mux := newTestRouter(t, false)

	testCases := []struct {
		method   string
		path     string
		expected int
	}{
		{"GET", "/polls", http.StatusNotFound},
		{"GET", "/archive/rooms", http.StatusNotFound},
		{"POST", "/health", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expected {
				t.Errorf("Expected status %d, got %d", tc.expected, w.Code)
			}
		})
	}
}
