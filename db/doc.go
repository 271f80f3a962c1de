// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL is portable across PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).

# Tables

The schema includes:

  - users: Accounts with bcrypt password hashes
  - creatures: Creatures owned by a creating user
  - creature_access: Access grants (creator/caretaker/observer) between
    users and creatures
  - poops: Events recorded against a creature
  - auth_tokens: HMAC hashes of issued session tokens

# Relationships

	users 1──* creatures
	users 1──* auth_tokens
	creatures 1──* poops
	users *──* creatures (via creature_access)

# Identifiers

Every primary key is BIGINT, populated by the idgen allocator at the
application layer before INSERT. Because the allocator embeds a
millisecond timestamp in the high bits, ORDER BY id is creation order.
Foreign keys reference these BIGINT columns directly.

# Soft Deletion

No row is ever physically deleted. Each table carries a deleted flag and
queries filter with "deleted IS FALSE", preserving identifier and
referential history.

# Indexes

Performance indexes on:

  - users.email (unique)
  - creatures.creator_id
  - creature_access.user_id
  - creature_access.creature_id
  - poops.creature_id
  - poops.creator_id
  - auth_tokens.hash
*/
package db
