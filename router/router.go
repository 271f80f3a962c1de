// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/didpoop/didpoop/cliparse"
	"github.com/didpoop/didpoop/handlers"
	"github.com/didpoop/didpoop/idgen"
	"github.com/didpoop/didpoop/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, gen *idgen.Generator) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(db, cfg, gen)
	creatureHandler := handlers.NewCreatureHandler(db, cfg, gen)
	poopHandler := handlers.NewPoopHandler(db, cfg, gen)
	statusHandler := handlers.NewStatusHandler(cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /status", middleware.WithLogging(statusHandler.Status))

	// Accounts and sessions
	mux.HandleFunc("POST /signup", middleware.WithLogging(userHandler.Signup))
	mux.HandleFunc("POST /login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("POST /logout", middleware.WithLogging(userHandler.Logout))
	mux.HandleFunc("GET /me", middleware.WithLogging(userHandler.Me))

	// Creatures and access grants
	mux.HandleFunc("POST /creatures", middleware.WithLogging(creatureHandler.CreateCreature))
	mux.HandleFunc("GET /creatures", middleware.WithLogging(creatureHandler.ListCreatures))
	mux.HandleFunc("DELETE /creatures/{id}", middleware.WithLogging(creatureHandler.DeleteCreature))
	mux.HandleFunc("POST /creatures/{id}/access", middleware.WithLogging(creatureHandler.GrantAccess))
	mux.HandleFunc("DELETE /creatures/{id}/access/{userID}", middleware.WithLogging(creatureHandler.RevokeAccess))

	// Poops
	mux.HandleFunc("POST /creatures/{id}/poops", middleware.WithLogging(poopHandler.RecordPoop))
	mux.HandleFunc("GET /creatures/{id}/poops", middleware.WithLogging(poopHandler.ListPoops))
	mux.HandleFunc("DELETE /poops/{id}", middleware.WithLogging(poopHandler.DeletePoop))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("didpoop API v1"))
	})

	return mux
}
