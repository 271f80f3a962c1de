// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the didpoop API.

# Handler Types

Each handler is a struct with database, config, and ID-generator
dependencies:

  - UserHandler: Signup, login, logout, current user
  - CreatureHandler: Creature lifecycle and access grants
  - PoopHandler: Recording and listing poops
  - StatusHandler: Version and uptime

Handlers are created via constructor functions:

	userHandler := handlers.NewUserHandler(db, cfg, gen)

The shared idgen.Generator mints the primary key for every row a
handler inserts, before the INSERT statement runs.

# Sessions

Authenticated endpoints resolve the poop_auth cookie: the cookie value
is HMAC-signed and looked up in auth_tokens, joined against a
non-deleted, non-expired row and a non-deleted user. Signup and login
open a session; logout revokes the token row and replaces the cookie.

# Access Control

Every creature operation goes through the requester's access grant:

	creator   - full control: delete creature, grant/revoke access
	caretaker - record and list poops
	observer  - list poops only

A creature's creator grant is created in the same transaction as the
creature itself and can never be revoked.

# Soft Deletion

Delete endpoints flip the row's deleted flag; nothing is physically
removed and list queries filter with "deleted IS FALSE".
*/
package handlers
