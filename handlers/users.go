// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/didpoop/didpoop/auth"
	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/middleware"
	"github.com/didpoop/didpoop/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	gen *idgen.Generator
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config, gen *idgen.Generator) *UserHandler {
	return &UserHandler{db: db, cfg: cfg, gen: gen}
}

// Signup handles POST /signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	pwHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	user := models.User{
		ID:       h.gen.NextID(),
		Email:    req.Email,
		Name:     req.Name,
		Created:  time.Now(),
		Modified: time.Now(),
	}

	_, err = h.db.Exec(`
		INSERT INTO users (id, email, name, pw_hash, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.Name, pwHash, user.Created, user.Modified)

	if err != nil {
		if isUniqueViolation(err, "users.email", "users_email_key") {
			middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	if err := openSession(w, h.db, h.gen, h.cfg, user.ID); err != nil {
		slog.Error("failed to open session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)

	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	var pwHash string
	err := h.db.QueryRow(`
		SELECT id, email, name, pw_hash, created, modified
		FROM users
		WHERE email = $1 AND deleted IS FALSE
	`, req.Email).Scan(&user.ID, &user.Email, &user.Name, &pwHash, &user.Created, &user.Modified)

	// Unknown email and wrong password answer identically: no account oracle.
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "bad request")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(pwHash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "bad request")
		return
	}

	if err := openSession(w, h.db, h.gen, h.cfg, user.ID); err != nil {
		slog.Error("failed to open session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)

	middleware.JSONResponse(w, http.StatusOK, user)
}

// Logout handles POST /logout
// Always replaces the cookie; soft-deletes the token row when the
// cookie still resolves to one.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.CookieName); err == nil && c.Value != "" {
		hash := auth.SignToken(c.Value, h.cfg.SigningKey)
		_, err := h.db.Exec(`
			UPDATE auth_tokens SET deleted = TRUE, modified = $1 WHERE hash = $2
		`, time.Now(), hash)
		if err != nil {
			slog.Warn("failed to revoke auth token", "error", err)
			// Non-fatal: the replacement cookie still logs the client out
		}
	}

	http.SetCookie(w, auth.LogoutCookie(h.cfg.SecureCookie))

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "logged out"})
}

// Me handles GET /me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
