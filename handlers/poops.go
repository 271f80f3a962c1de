// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/middleware"
	"github.com/didpoop/didpoop/models"
)

type PoopHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	gen *idgen.Generator
}

func NewPoopHandler(db *sql.DB, cfg cliparse.Config, gen *idgen.Generator) *PoopHandler {
	return &PoopHandler{db: db, cfg: cfg, gen: gen}
}

// RecordPoop handles POST /creatures/{id}/poops
// Creators and caretakers can record; observers cannot.
func (h *PoopHandler) RecordPoop(w http.ResponseWriter, r *http.Request) {
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
	if kind == models.KindObserver {
		middleware.ErrorResponse(w, http.StatusForbidden, "Observers cannot record poops")
		return
	}

	now := time.Now()
	poop := models.Poop{
		ID:         h.gen.NextID(),
		CreatorID:  user.ID,
		CreatureID: creatureID,
		Created:    now,
		Modified:   now,
	}

	_, err = h.db.Exec(`
		INSERT INTO poops (id, creator_id, creature_id, created, modified)
		VALUES ($1, $2, $3, $4, $5)
	`, poop.ID, poop.CreatorID, poop.CreatureID, now, now)
	if err != nil {
		slog.Error("failed to insert poop", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record poop")
		return
	}

	slog.Info("poop recorded", "poop_id", poop.ID, "creature_id", creatureID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, poop)
}

// ListPoops handles GET /creatures/{id}/poops
// Newest first: IDs embed their creation time, so ordering by primary
// key is ordering by creation.
func (h *PoopHandler) ListPoops(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.db.Query(`
		SELECT id, creator_id, creature_id, created, modified
		FROM poops
		WHERE creature_id = $1 AND deleted IS FALSE
		ORDER BY id DESC
	`, creatureID)
	if err != nil {
		slog.Error("failed to query poops", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	poops := []models.Poop{}
	for rows.Next() {
		var p models.Poop
		if err := rows.Scan(&p.ID, &p.CreatorID, &p.CreatureID, &p.Created, &p.Modified); err != nil {
			slog.Error("failed to scan poop", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		poops = append(poops, p)
	}

	middleware.JSONResponse(w, http.StatusOK, poops)
}

// DeletePoop handles DELETE /poops/{id}
// Only the user who recorded a poop can remove it.
func (h *PoopHandler) DeletePoop(w http.ResponseWriter, r *http.Request) {
	user := requireUser(w, r, h.db, h.cfg.SigningKey)
	if user == nil {
		return
	}

	poopID, ok := parseIDParam(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid poop id")
		return
	}

	var creatorID int64
	err := h.db.QueryRow(`
		SELECT creator_id FROM poops WHERE id = $1 AND deleted IS FALSE
	`, poopID).Scan(&creatorID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poop not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poop", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if creatorID != user.ID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the recorder can delete a poop")
		return
	}

	_, err = h.db.Exec(`
		UPDATE poops SET deleted = TRUE, modified = $1 WHERE id = $2
	`, time.Now(), poopID)
	if err != nil {
		slog.Error("failed to delete poop", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete poop")
		return
	}

	slog.Info("poop deleted", "poop_id", poopID, "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "poop deleted"})
}
