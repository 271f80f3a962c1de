// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the didpoop API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, gen)

# Endpoints

Health and status:

	GET /health
	GET /status

Accounts and sessions (cookie auth):

	POST /signup - Create account, open session
	POST /login  - Open session
	POST /logout - Revoke session
	GET  /me     - Current user

Creatures and access grants:

	POST   /creatures                         - Create creature
	GET    /creatures                         - List accessible creatures
	DELETE /creatures/{id}                    - Soft-delete creature (creator)
	POST   /creatures/{id}/access             - Grant access by email (creator)
	DELETE /creatures/{id}/access/{userID}    - Revoke a grant (creator)

Poops:

	POST   /creatures/{id}/poops - Record poop (creator/caretaker)
	GET    /creatures/{id}/poops - List poops (any grant)
	DELETE /poops/{id}           - Soft-delete poop (recorder)

# Handler Initialization

The router creates handler instances with dependency injection:

	userHandler := handlers.NewUserHandler(db, cfg, gen)
	creatureHandler := handlers.NewCreatureHandler(db, cfg, gen)
	poopHandler := handlers.NewPoopHandler(db, cfg, gen)
	statusHandler := handlers.NewStatusHandler(cfg)

All row-creating handlers share one idgen.Generator: exactly one
allocator instance is active per process.
*/
package router
