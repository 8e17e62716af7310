package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSettings_DirPrecedence(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		flag string
		env  string
		want string
	}{
		{"default", "", "", defaultMigrationsDir},
		{"env", "", "/srv/bookcatalog/migrations", "/srv/bookcatalog/migrations"},
		{"flag wins", "./custom", "/srv/bookcatalog/migrations", "./custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MIGRATIONS_DIR", tt.env)
			assert.Equal(t, tt.want, resolveSettings(tt.flag).Dir)
		})
	}
}

func TestResolveSettings_DotEnvFillsGapsOnly(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DB_DSN=postgres://file@localhost/catalog\nLOG_LEVEL=debug\n"), 0o644))
	t.Chdir(dir)

	t.Setenv("DB_DSN", "postgres://env@localhost/catalog")
	t.Setenv("LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("LOG_LEVEL"))

	s := resolveSettings("")

	assert.Equal(t, "postgres://env@localhost/catalog", s.DSN)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, defaultMigrationsDir, s.Dir)
}
