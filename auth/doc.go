// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session-token and password utilities.

# Session Tokens

Tokens are random 32-byte (256-bit) secrets, hex encoded:

	token, err := auth.GenerateToken()

The raw token lives only in the client's cookie. The database stores the
token's HMAC-SHA256 under the server signing key:

	hash := auth.SignToken(token, cfg.SigningKey)

A request is authenticated by signing its cookie value and looking the
result up in auth_tokens. Because the signature is keyed, a stolen
database dump cannot be turned into valid cookies.

# Passwords

Passwords use bcrypt; the salt is embedded in the encoded hash:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, password)

CheckPassword returns ErrBadCredentials on mismatch, so handlers can
answer sign-in failures uniformly without leaking which field was wrong.

# Cookies

SessionCookie and LogoutCookie build the poop_auth cookie (HttpOnly,
SameSite=Lax, Secure outside local dev). LogoutCookie holds a junk value
prefixed "xx" that can never verify, and expires immediately.
*/
package auth
