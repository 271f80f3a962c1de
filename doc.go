// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the didpoop API server.

didpoop is a pet care tracker: users register creatures, share access
with caretakers and observers, and record poop events against them.
Every row is keyed by a 64-bit time-sortable ID minted in-process, so
listing by primary key is listing by creation time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3030 -d "postgres://..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string (or a SQLite path
    with -t sqlite for local development)
  - SIGNING_KEY (-signing-key): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3030)
  - DATABASE_TYPE (-t): "postgres" or "sqlite" (default: postgres)
  - REAL_HOST (-real-host): Public hostname behind a reverse proxy
  - SECURE_COOKIE (-insecure-cookie to disable): Secure flag on the
    session cookie
  - AUTH_EXPIRATION_SECONDS: Session lifetime (default: 30 days)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (users, creatures, poops, status)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Passwords, session tokens, cookies
  - idgen: Time-sortable 64-bit ID allocation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
