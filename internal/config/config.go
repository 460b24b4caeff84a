// Package config builds the immutable process configuration from the
// environment. Every value has a fallback suitable for a local demo
// deployment; none of the fallbacks are meant for anything else.
package config

import "os"

// Config holds all runtime settings. It is constructed once in main and
// passed explicitly; nothing reads the environment after startup.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DBDriver is "sqlite3" or "postgres".
	DBDriver string

	// DBConn is the DSN (postgres) or file path (sqlite).
	DBConn string

	// Flag is the real secret token planted in the fixture note.
	Flag string

	// CookieSecret signs the session cookie.
	CookieSecret string

	// LogFormat is "json" or "console".
	LogFormat string
}

// DefaultFlag is the challenge flag used when FLAG is not set.
const DefaultFlag = "GENTLE{ID0R_1n_Th3_AP1_P4r4m3t3r}"

// FromEnv reads the environment and returns a complete Config.
func FromEnv() Config {
	return Config{
		Addr:         envOr("ADDR", ":8081"),
		DBDriver:     envOr("DB_DRIVER", "sqlite3"),
		DBConn:       envOr("DB_CONN", "./securenotes.db"),
		Flag:         envOr("FLAG", DefaultFlag),
		CookieSecret: envOr("SECRET_KEY", "ctf-challenge-secret-key-2023"),
		LogFormat:    envOr("LOG_FORMAT", "json"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
