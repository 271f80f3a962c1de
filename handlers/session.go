// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/didpoop/didpoop/auth"
	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/middleware"
	"github.com/didpoop/didpoop/models"
)

// currentUser resolves the request's session cookie to a live user.
// Returns nil with no error when the request carries no valid session.
func currentUser(db *sql.DB, r *http.Request, signingKey string) (*models.User, error) {
	c, err := r.Cookie(auth.CookieName)
	if err != nil || c.Value == "" {
		return nil, nil
	}

	hash := auth.SignToken(c.Value, signingKey)

	var user models.User
	err = db.QueryRow(`
		SELECT u.id, u.email, u.name, u.created, u.modified
		FROM users u
		INNER JOIN auth_tokens at ON u.id = at.user_id
		WHERE at.hash = $1
		  AND at.deleted IS FALSE
		  AND at.expires_millis > $2
		  AND u.deleted IS FALSE
	`, hash, time.Now().UnixMilli()).Scan(
		&user.ID, &user.Email, &user.Name, &user.Created, &user.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// requireUser resolves the session or writes a 401/500 and returns nil.
func requireUser(w http.ResponseWriter, r *http.Request, db *sql.DB, signingKey string) *models.User {
	user, err := currentUser(db, r, signingKey)
	if err != nil {
		slog.Error("failed to resolve session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	if user == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return nil
	}
	return user
}

// openSession issues a session token for the user, stores its HMAC, and
// sets the auth cookie on the response.
func openSession(w http.ResponseWriter, db *sql.DB, gen *idgen.Generator, cfg cliparse.Config, userID int64) error {
	token, err := auth.GenerateToken()
	if err != nil {
		return err
	}

	now := time.Now()
	expires := now.Add(time.Duration(cfg.AuthExpirationSeconds) * time.Second)

	_, err = db.Exec(`
		INSERT INTO auth_tokens (id, user_id, hash, expires_millis, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, gen.NextID(), userID, auth.SignToken(token, cfg.SigningKey), expires.UnixMilli(), now, now)
	if err != nil {
		return err
	}

	http.SetCookie(w, auth.SessionCookie(token, cfg.AuthExpirationSeconds, cfg.SecureCookie))
	return nil
}

// isUniqueViolation matches driver-specific duplicate-key errors.
// lib/pq and modernc.org/sqlite report these differently, so match both.
func isUniqueViolation(err error, sqliteCols, pgConstraint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed: "+sqliteCols) ||
		strings.Contains(msg, "duplicate key value violates unique constraint \""+pgConstraint+"\"")
}

// parseIDParam parses a 64-bit path parameter such as {id}.
func parseIDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
