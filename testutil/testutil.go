// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/didpoop/didpoop/auth"
	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/db"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/models"
)

// TestSigningKey signs session tokens in tests
const TestSigningKey = "test-signing-key"

// TestPassword is the password every fixture user is created with
const TestPassword = "hunter2hunter2"

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. A single connection keeps the in-memory database alive for
// the test's lifetime.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                  3030,
		DatabaseURL:           ":memory:",
		DatabaseType:          "sqlite",
		SigningKey:            TestSigningKey,
		SecureCookie:          false,
		AuthExpirationSeconds: 3600,
		Version:               "test",
	}
}

// CreateTestUser inserts a user with TestPassword and returns it.
// Pass the same generator the handlers under test use, so IDs minted by
// fixtures and handlers within one millisecond never collide.
func CreateTestUser(t *testing.T, conn *sql.DB, gen *idgen.Generator, email, name string) models.User {
	t.Helper()

	pwHash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	now := time.Now()
	user := models.User{
		ID:       gen.NextID(),
		Email:    email,
		Name:     name,
		Created:  now,
		Modified: now,
	}

	_, err = conn.Exec(`
		INSERT INTO users (id, email, name, pw_hash, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.Name, pwHash, now, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// LoginTestUser opens a session for the user and returns the cookie to
// attach to requests.
func LoginTestUser(t *testing.T, conn *sql.DB, cfg cliparse.Config, gen *idgen.Generator, userID int64) *http.Cookie {
	t.Helper()

	token, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}

	now := time.Now()
	expires := now.Add(time.Duration(cfg.AuthExpirationSeconds) * time.Second)
	_, err = conn.Exec(`
		INSERT INTO auth_tokens (id, user_id, hash, expires_millis, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, gen.NextID(), userID, auth.SignToken(token, cfg.SigningKey), expires.UnixMilli(), now, now)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return auth.SessionCookie(token, cfg.AuthExpirationSeconds, cfg.SecureCookie)
}

// CreateTestCreature inserts a creature plus its creator access grant
// and returns the creature ID.
func CreateTestCreature(t *testing.T, conn *sql.DB, gen *idgen.Generator, creatorID int64, name string) int64 {
	t.Helper()

	now := time.Now()
	creatureID := gen.NextID()
	_, err := conn.Exec(`
		INSERT INTO creatures (id, creator_id, name, created, modified)
		VALUES ($1, $2, $3, $4, $5)
	`, creatureID, creatorID, name, now, now)
	if err != nil {
		t.Fatalf("Failed to create test creature: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO creature_access (id, creature_id, user_id, creator_id, kind, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, gen.NextID(), creatureID, creatorID, creatorID, models.KindCreator, now, now)
	if err != nil {
		t.Fatalf("Failed to create test creator access: %v", err)
	}

	return creatureID
}

// GrantTestAccess inserts an access grant of the given kind.
func GrantTestAccess(t *testing.T, conn *sql.DB, gen *idgen.Generator, creatureID, creatorID, userID int64, kind string) {
	t.Helper()

	now := time.Now()
	_, err := conn.Exec(`
		INSERT INTO creature_access (id, creature_id, user_id, creator_id, kind, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, gen.NextID(), creatureID, userID, creatorID, kind, now, now)
	if err != nil {
		t.Fatalf("Failed to grant test access: %v", err)
	}
}

// RecordTestPoop inserts a poop row and returns its ID.
func RecordTestPoop(t *testing.T, conn *sql.DB, gen *idgen.Generator, creatureID, creatorID int64) int64 {
	t.Helper()

	now := time.Now()
	poopID := gen.NextID()
	_, err := conn.Exec(`
		INSERT INTO poops (id, creator_id, creature_id, created, modified)
		VALUES ($1, $2, $3, $4, $5)
	`, poopID, creatorID, creatureID, now, now)
	if err != nil {
		t.Fatalf("Failed to record test poop: %v", err)
	}

	return poopID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, cookies ...*http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for _, c := range cookies {
		req.AddCookie(c)
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
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
