// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - SignupRequest: email, name, password
  - LoginRequest: email, password
  - CreateCreatureRequest: name
  - GrantAccessRequest: email, kind

# Response Types

Types for JSON responses:

  - MessageResponse: message
  - StatusResponse: version, uptime, ok
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - User: account (password hash never serialized)
  - SimpleUser: public user shape
  - Creature: creature metadata
  - CreatureRelation: creature plus the requesting user's access kind
  - AccessGrant: a user↔creature grant row
  - Poop: an event recorded against a creature

All 64-bit identifiers serialize as JSON strings, since they exceed the
range JavaScript numbers represent exactly.

# Constants

Access kinds:

	KindCreator   = "creator"
	KindCaretaker = "caretaker"
	KindObserver  = "observer"

The creator kind is assigned exactly once, when a creature is created;
only caretaker and observer can be granted afterwards (ValidGrantKind).
*/
package models
