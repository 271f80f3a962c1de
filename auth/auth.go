// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// CookieName is the session cookie carried by authenticated requests.
const CookieName = "poop_auth"

var ErrBadCredentials = errors.New("bad credentials")

// GenerateToken creates a random 32-byte session token, hex encoded.
// The raw token only ever lives in the client's cookie; the database
// stores its HMAC.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignToken computes the HMAC-SHA256 of a session token under the
// server signing key. This is what auth_tokens.hash stores, so a leaked
// database cannot be replayed as cookies.
func SignToken(token, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// HashPassword derives a bcrypt hash for storage. The salt is embedded
// in the encoded hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a password against its stored bcrypt hash.
// Returns ErrBadCredentials on mismatch.
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return nil
}

// SessionCookie builds the auth cookie holding a raw session token.
func SessionCookie(token string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// LogoutCookie builds a replacement cookie holding a value that can
// never verify, expiring immediately.
func LogoutCookie(secure bool) *http.Cookie {
	b := make([]byte, 31)
	if _, err := rand.Read(b); err != nil {
		// A zeroed value still cannot verify against any stored HMAC.
		for i := range b {
			b[i] = 0
		}
	}
	c := SessionCookie("xx"+hex.EncodeToString(b), 0, secure)
	c.MaxAge = -1
	return c
}
