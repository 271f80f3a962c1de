// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/middleware"
	"github.com/didpoop/didpoop/models"
)

type CreatureHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	gen *idgen.Generator
}

func NewCreatureHandler(db *sql.DB, cfg cliparse.Config, gen *idgen.Generator) *CreatureHandler {
	return &CreatureHandler{db: db, cfg: cfg, gen: gen}
}

// accessKind returns the user's live access kind for a live creature,
// or "" when no grant exists.
func accessKind(db *sql.DB, creatureID, userID int64) (string, error) {
	var kind string
	err := db.QueryRow(`
		SELECT ca.kind
		FROM creature_access ca
		INNER JOIN creatures c ON c.id = ca.creature_id
		WHERE ca.creature_id = $1
		  AND ca.user_id = $2
		  AND ca.deleted IS FALSE
		  AND c.deleted IS FALSE
	`, creatureID, userID).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return kind, nil
}

// CreateCreature handles POST /creatures
// Inserts the creature and its creator access grant in one transaction.
func (h *CreatureHandler) CreateCreature(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	var req models.CreateCreatureRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if len(req.Name) > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name must be at most 100 characters")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	creature := models.CreatureRelation{
		Creature: models.Creature{
			ID:        h.gen.NextID(),
			CreatorID: user.ID,
			Name:      req.Name,
			Created:   now,
			Modified:  now,
		},
		UserID: user.ID,
		Kind:   models.KindCreator,
	}

	_, err = tx.Exec(`
		INSERT INTO creatures (id, creator_id, name, created, modified)
		VALUES ($1, $2, $3, $4, $5)
	`, creature.ID, creature.CreatorID, creature.Name, now, now)
	if err != nil {
		slog.Error("failed to insert creature", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create creature")
		return
	}

	_, err = tx.Exec(`
		INSERT INTO creature_access (id, creature_id, user_id, creator_id, kind, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, h.gen.NextID(), creature.ID, user.ID, user.ID, models.KindCreator, now, now)
	if err != nil {
		slog.Error("failed to insert creator access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create creature")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create creature")
		return
	}

	slog.Info("creature created", "creature_id", creature.ID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, creature)
}

// ListCreatures handles GET /creatures
// Returns every live creature the current user has a live grant for.
func (h *CreatureHandler) ListCreatures(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	rows, err := h.db.Query(`
		SELECT c.id, c.creator_id, c.name, c.created, c.modified, ca.user_id, ca.kind
		FROM creatures c
		INNER JOIN creature_access ca ON ca.creature_id = c.id
		WHERE ca.user_id = $1
		  AND ca.deleted IS FALSE
		  AND c.deleted IS FALSE
		ORDER BY c.id
	`, user.ID)
	if err != nil {
		slog.Error("failed to query creatures", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	creatures := []models.CreatureRelation{}
	for rows.Next() {
		var c models.CreatureRelation
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.Name, &c.Created, &c.Modified, &c.UserID, &c.Kind); err != nil {
			slog.Error("failed to scan creature", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		creatures = append(creatures, c)
	}

	middleware.JSONResponse(w, http.StatusOK, creatures)
}

// DeleteCreature handles DELETE /creatures/{id}
func (h *CreatureHandler) DeleteCreature(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	creatureID, ok := parseIDParam(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid creature id")
		return
	}

	kind, err := accessKind(h.db, creatureID, user.ID)
	if err != nil {
		slog.Error("failed to query access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if kind == "" {
		middleware.ErrorResponse(w, http.StatusNotFound, "Creature not found")
		return
	}
	if kind != models.KindCreator {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator can delete a creature")
		return
	}

	_, err = h.db.Exec(`
		UPDATE creatures SET deleted = TRUE, modified = $1 WHERE id = $2
	`, time.Now(), creatureID)
	if err != nil {
		slog.Error("failed to delete creature", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete creature")
		return
	}

	slog.Info("creature deleted", "creature_id", creatureID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "creature deleted"})
}

// GrantAccess handles POST /creatures/{id}/access
// Grants caretaker or observer access to another user by email.
// Re-granting revives a previously revoked grant.
func (h *CreatureHandler) GrantAccess(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	creatureID, ok := parseIDParam(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid creature id")
		return
	}

	var req models.GrantAccessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !models.ValidGrantKind(req.Kind) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be caretaker or observer")
		return
	}

	kind, err := accessKind(h.db, creatureID, user.ID)
	if err != nil {
		slog.Error("failed to query access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if kind == "" {
		middleware.ErrorResponse(w, http.StatusNotFound, "Creature not found")
		return
	}
	if kind != models.KindCreator {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator can grant access")
		return
	}

	// Find the grant target
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	var targetID int64
	err = h.db.QueryRow(`
		SELECT id FROM users WHERE email = $1 AND deleted IS FALSE
	`, req.Email).Scan(&targetID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "No user with that email")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if targetID == user.ID {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot change the creator's own access")
		return
	}

	now := time.Now()
	grant := models.AccessGrant{
		ID:         h.gen.NextID(),
		CreatureID: creatureID,
		UserID:     targetID,
		Kind:       req.Kind,
		Created:    now,
	}

	_, err = h.db.Exec(`
		INSERT INTO creature_access (id, creature_id, user_id, creator_id, kind, created, modified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, grant.ID, grant.CreatureID, grant.UserID, user.ID, grant.Kind, now, now)

	if isUniqueViolation(err, "creature_access.creature_id, creature_access.user_id", "creature_access_creature_id_user_id_key") {
		// Existing grant (possibly revoked): revive it with the new kind
		err = h.db.QueryRow(`
			UPDATE creature_access
			SET kind = $1, deleted = FALSE, modified = $2
			WHERE creature_id = $3 AND user_id = $4
			RETURNING id, created
		`, grant.Kind, now, grant.CreatureID, grant.UserID).Scan(&grant.ID, &grant.Created)
	}
	if err != nil {
		slog.Error("failed to grant access", "error", err, "creature_id", creatureID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to grant access")
		return
	}

	slog.Info("access granted",
		"creature_id", creatureID,
		"user_id", targetID,
		"kind", grant.Kind,
		"granted_by", user.ID,
	)

	middleware.JSONResponse(w, http.StatusCreated, grant)
}

// RevokeAccess handles DELETE /creatures/{id}/access/{userID}
func (h *CreatureHandler) RevokeAccess(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	creatureID, ok := parseIDParam(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid creature id")
		return
	}
	targetID, ok := parseIDParam(r, "userID")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid user id")
		return
	}

	kind, err := accessKind(h.db, creatureID, user.ID)
	if err != nil {
		slog.Error("failed to query access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if kind == "" {
		middleware.ErrorResponse(w, http.StatusNotFound, "Creature not found")
		return
	}
	if kind != models.KindCreator {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the creator can revoke access")
		return
	}

	targetKind, err := accessKind(h.db, creatureID, targetID)
	if err != nil {
		slog.Error("failed to query access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if targetKind == "" {
		middleware.ErrorResponse(w, http.StatusNotFound, "No access grant for that user")
		return
	}
	if targetKind == models.KindCreator {
		middleware.ErrorResponse(w, http.StatusConflict, "The creator's access cannot be revoked")
		return
	}

	_, err = h.db.Exec(`
		UPDATE creature_access
		SET deleted = TRUE, modified = $1
		WHERE creature_id = $2 AND user_id = $3
	`, time.Now(), creatureID, targetID)
	if err != nil {
		slog.Error("failed to revoke access", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to revoke access")
		return
	}

	slog.Info("access revoked", "creature_id", creatureID, "user_id", targetID, "revoked_by", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "access revoked"})
}
