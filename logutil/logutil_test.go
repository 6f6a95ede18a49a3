package logutil_test

import (
	"bytes"
	"encoding/json"
	"steamid-convert/logutil"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, logutil.ParseLevel(in), in)
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := logutil.New(&buf, logutil.Config{Level: "info", Name: "steamid-httpd"})
	logger.Info().Str("input", "STEAM_1:0:1").Msg("converted")
	logger.Debug().Msg("dropped")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "steamid-httpd", line["service"])
	assert.Equal(t, "STEAM_1:0:1", line["input"])
	assert.Equal(t, "converted", line["message"])
}
