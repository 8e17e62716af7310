package main

import (
	"os"

	"bookcatalog/internal/config"
)

const defaultMigrationsDir = "db/migrations"

// settings are resolved once per invocation, after .env files are loaded.
type settings struct {
	DSN      string
	Dir      string
	LogLevel string
}

// resolveSettings prefers the --dir flag, then MIGRATIONS_DIR, then the repo default.
func resolveSettings(dirFlag string) settings {
	config.LoadEnvFiles()

	dir := dirFlag
	if dir == "" {
		dir = os.Getenv("MIGRATIONS_DIR")
	}
	if dir == "" {
		dir = defaultMigrationsDir
	}
	return settings{
		DSN:      os.Getenv("DB_DSN"),
		Dir:      dir,
		LogLevel: os.Getenv("LOG_LEVEL"),
	}
}
