package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutFileDiscards(t *testing.T) {
	log, closer, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.NoError(t, closer.Close())

	assert.NotNil(t, log)
	assert.True(t, log.Enabled(t.Context(), slog.LevelInfo))
}

func TestNewWritesJSONRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hostping.log")

	log, closer, err := New(Config{File: path, Level: "DEBUG", MaxMB: 1, MaxFiles: 1})
	require.NoError(t, err)

	log.Debug("probe finished", "seq", 0, "reachable", true)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "probe finished", rec["msg"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, true, rec["reachable"])
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostping.log")

	log, closer, err := New(Config{File: path, Level: "WARN"})
	require.NoError(t, err)
	defer closer.Close()

	assert.False(t, log.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, log.Enabled(t.Context(), slog.LevelWarn))
}

func TestGetLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{level: "", want: slog.LevelInfo},
		{level: "debug", want: slog.LevelDebug},
		{level: "WARN", want: slog.LevelWarn},
		{level: "warning", want: slog.LevelWarn},
		{level: "ERROR", want: slog.LevelError},
		{level: "UNKNOWN", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.want, getLevel(tt.level))
		})
	}
}

func TestValidLevel(t *testing.T) {
	assert.NoError(t, ValidLevel("info"))
	assert.NoError(t, ValidLevel(""))
	assert.Error(t, ValidLevel("verbose"))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want *slog.Logger
	}{
		{
			name: "Context with logger",
			ctx:  IntoContext(t.Context(), NewLogger(slog.NewJSONHandler(os.Stdout, nil))),
			want: NewLogger(slog.NewJSONHandler(os.Stdout, nil)),
		},
		{
			name: "Context without logger",
			ctx:  t.Context(),
			want: NewLogger(),
		},
		{
			name: "Nil context",
			ctx:  nil,
			want: NewLogger(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FromContext(tt.ctx)
			if reflect.TypeOf(got.Handler()) != reflect.TypeOf(tt.want.Handler()) {
				t.Errorf("FromContext() = %T, want %T", got.Handler(), tt.want.Handler())
			}
		})
	}
}
