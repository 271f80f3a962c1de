// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/models"
	"github.com/didpoop/didpoop/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, idgen.New())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, idgen.New())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "didpoop API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestStatusEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, idgen.New())

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var status models.StatusResponse
	testutil.AssertJSON(t, w, &status)
	if status.Version != cfg.Version {
		t.Errorf("Expected version '%s', got '%s'", cfg.Version, status.Version)
	}
	if status.OK != "ok" {
		t.Errorf("Expected ok 'ok', got '%s'", status.OK)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, idgen.New())

	// Routes respond with handler output, never 405
	// 400, 401, 404 are all valid depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/status"},
		{"GET", "/"},

		{"POST", "/signup"},
		{"POST", "/login"},
		{"POST", "/logout"},
		{"GET", "/me"},

		{"POST", "/creatures"},
		{"GET", "/creatures"},
		{"DELETE", "/creatures/123"},
		{"POST", "/creatures/123/access"},
		{"DELETE", "/creatures/123/access/456"},

		{"POST", "/creatures/123/poops"},
		{"GET", "/creatures/123/poops"},
		{"DELETE", "/poops/123"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	mux := NewRouter(db, cfg, idgen.New())

	testCases := []struct {
		method string
		path   string
	}{
		{"POST", "/health"},
		{"PUT", "/me"},
		{"PUT", "/creatures"},
		{"POST", "/poops/123"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("Expected 405 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	gen := idgen.New()
	mux := NewRouter(db, cfg, gen)

	user := testutil.CreateTestUser(t, db, gen, "alice@example.com", "Alice")
	cookie := testutil.LoginTestUser(t, db, cfg, gen, user.ID)
	creatureID := testutil.CreateTestCreature(t, db, gen, user.ID, "Rex")

	req := testutil.MakeRequest("GET", "/creatures/"+strconv.FormatInt(creatureID, 10)+"/poops", nil, cookie)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid session and creature, got %d. Body: %s", w.Code, w.Body.String())
	}
}
