package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port                  int
	DatabaseURL           string
	DatabaseType          string
	SigningKey            string
	RealHost              string
	SecureCookie          bool
	AuthExpirationSeconds int
	Version               string
}

// ParseFlags validates flags, layering CLI args over environment variables
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("didpoop", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.RealHost, "real-host", "", "Public base URL, e.g. https://didpoop.com")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SigningKey, "signing-key", "", "Token signing key (prefer env)")

	insecureCookie := fs.Bool("insecure-cookie", false, "Disable the Secure cookie attribute (local dev only)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3030 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "postgres"
		}
	}
	if cfg.DatabaseType != "postgres" && cfg.DatabaseType != "sqlite" {
		return Config{}, errors.New("database type must be postgres or sqlite")
	}

	if cfg.RealHost == "" {
		cfg.RealHost = os.Getenv("REAL_HOST")
	}

	// Secrets - MUST be provided
	if cfg.SigningKey == "" {
		cfg.SigningKey = os.Getenv("SIGNING_KEY")
	}
	if cfg.SigningKey == "" {
		return Config{}, errors.New("SIGNING_KEY required")
	}

	cfg.SecureCookie = !*insecureCookie && os.Getenv("SECURE_COOKIE") != "false"

	cfg.AuthExpirationSeconds = 60 * 60 * 24 * 30 // default: 30 days
	if expStr := os.Getenv("AUTH_EXPIRATION_SECONDS"); expStr != "" {
		exp, err := strconv.Atoi(expStr)
		if err != nil || exp <= 0 {
			return Config{}, errors.New("invalid AUTH_EXPIRATION_SECONDS env variable")
		}
		cfg.AuthExpirationSeconds = exp
	}

	cfg.Version = readVersion()

	return cfg, nil
}

// readVersion reads the deployed commit hash written at build time.
func readVersion() string {
	raw, err := os.ReadFile("commit_hash.txt")
	if err != nil {
		return "unknown"
	}
	version := strings.TrimSpace(string(raw))
	if version == "" {
		return "unknown"
	}
	return version
}
