// Copyright (c) 2022 the didpoop authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3030)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "postgres" or "sqlite" (default: postgres)
  - SigningKey: Secret for session token HMAC (required)
  - RealHost: Public base URL for deployed environments
  - SecureCookie: Whether session cookies carry the Secure attribute
  - AuthExpirationSeconds: Session lifetime (default: 30 days)
  - Version: Deployed commit hash read from commit_hash.txt

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-signing-key     Token signing key
	-real-host       Public base URL
	-insecure-cookie Disable Secure cookies (local dev)

# Environment Variables

Flags fall back to environment variables:

	PORT                    → -p
	DATABASE_URL            → -d
	DATABASE_TYPE           → -t
	SIGNING_KEY             → -signing-key
	REAL_HOST               → -real-host
	SECURE_COOKIE=false     → -insecure-cookie
	AUTH_EXPIRATION_SECONDS → (env only)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - SIGNING_KEY must be provided
  - DATABASE_TYPE must be postgres or sqlite
*/
package cliparse
