package logger

import (
	"bytes"
	"log/slog"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: "info", Format: "json"})

	log.Info("book borrowed", "book_id", 7, "user_id", "alice")
	log.Debug("dropped")

	var entry map[string]any
	require.NoError(t, jsoniter.ConfigFastest.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "book borrowed", entry["msg"])
	assert.Equal(t, "alice", entry["user_id"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Writer: &buf, Level: "debug", Format: "text"})

	log.Debug("replaying ledger", "events", 3)

	assert.Contains(t, buf.String(), "replaying ledger")
	assert.Contains(t, buf.String(), "events")
}
