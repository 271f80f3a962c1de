// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Access kind constants
const (
	KindCreator   = "creator"
	KindCaretaker = "caretaker"
	KindObserver  = "observer"
)

// ValidGrantKind reports whether kind can be granted to another user.
// The creator kind exists only on the row created with the creature.
func ValidGrantKind(kind string) bool {
	return kind == KindCaretaker || kind == KindObserver
}

// Request types

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateCreatureRequest struct {
	Name string `json:"name"`
}

type GrantAccessRequest struct {
	Email string `json:"email"`
	Kind  string `json:"kind"`
}

// Response types

type MessageResponse struct {
	Message string `json:"message"`
}

type StatusResponse struct {
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	OK      string `json:"ok"`
}

// Domain types
//
// 64-bit IDs are serialized as JSON strings: they exceed the integer
// range JavaScript handles losslessly.

type User struct {
	ID       int64     `json:"id,string"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	PwHash   string    `json:"-"` // Never expose in JSON
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// SimpleUser is the public shape of another user (e.g. a creature's
// creator or a grant target).
type SimpleUser struct {
	ID   int64  `json:"id,string"`
	Name string `json:"name"`
}

type Creature struct {
	ID        int64     `json:"id,string"`
	CreatorID int64     `json:"creator_id,string"`
	Name      string    `json:"name"`
	Created   time.Time `json:"created"`
	Modified  time.Time `json:"modified"`
}

// CreatureRelation is a creature joined with the requesting user's
// access grant.
type CreatureRelation struct {
	Creature
	UserID int64  `json:"user_id,string"`
	Kind   string `json:"relation"`
}

type AccessGrant struct {
	ID         int64     `json:"id,string"`
	CreatureID int64     `json:"creature_id,string"`
	UserID     int64     `json:"user_id,string"`
	Kind       string    `json:"kind"`
	Created    time.Time `json:"created"`
}

type Poop struct {
	ID         int64     `json:"id,string"`
	CreatorID  int64     `json:"creator_id,string"`
	CreatureID int64     `json:"creature_id,string"`
	Created    time.Time `json:"created"`
	Modified   time.Time `json:"modified"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
