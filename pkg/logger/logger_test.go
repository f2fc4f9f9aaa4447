package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", "json")

	l.Debug().Msg("hidden")
	l.Info().Str("host", "example.com").Msg("connected")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "connected", entry["message"])
	assert.Equal(t, "example.com", entry["host"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_ConsoleFormatWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "console")

	l.Info().Msg("hidden")
	l.Warn().Msg("private key not found")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "private key not found")
	// a buffer is not a terminal, so no ANSI escapes
	assert.NotContains(t, out, "\x1b[")
}
