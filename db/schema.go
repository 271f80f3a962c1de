// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Every primary key is a 64-bit integer minted by the idgen allocator
// before INSERT. Rows are never physically deleted; the deleted flag
// marks logical removal and queries filter on it.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id BIGINT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    pw_hash TEXT NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

-- Creatures
CREATE TABLE IF NOT EXISTS creatures (
    id BIGINT PRIMARY KEY,
    creator_id BIGINT NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_creatures_creator_id ON creatures(creator_id);

-- Access grants between users and creatures
CREATE TABLE IF NOT EXISTS creature_access (
    id BIGINT PRIMARY KEY,
    creature_id BIGINT NOT NULL REFERENCES creatures(id),
    user_id BIGINT NOT NULL REFERENCES users(id),
    creator_id BIGINT NOT NULL REFERENCES users(id),
    kind TEXT NOT NULL CHECK (kind IN ('creator', 'caretaker', 'observer')),
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (creature_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_creature_access_user_id ON creature_access(user_id);
CREATE INDEX IF NOT EXISTS idx_creature_access_creature_id ON creature_access(creature_id);

-- Poops
CREATE TABLE IF NOT EXISTS poops (
    id BIGINT PRIMARY KEY,
    creator_id BIGINT NOT NULL REFERENCES users(id),
    creature_id BIGINT NOT NULL REFERENCES creatures(id),
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poops_creature_id ON poops(creature_id);
CREATE INDEX IF NOT EXISTS idx_poops_creator_id ON poops(creator_id);

-- Auth tokens (session cookies store the raw token, rows store its HMAC)
CREATE TABLE IF NOT EXISTS auth_tokens (
    id BIGINT PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id),
    hash TEXT NOT NULL,
    expires_millis BIGINT NOT NULL,
    deleted BOOLEAN NOT NULL DEFAULT FALSE,
    created TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    modified TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_auth_tokens_hash ON auth_tokens(hash);
`
