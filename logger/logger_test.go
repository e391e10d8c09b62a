package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	require.Equal(t, zerolog.WarnLevel, ParseLevel(LOG_LEVEL_WARN))
	require.Equal(t, zerolog.PanicLevel, ParseLevel(LOG_LEVEL_PANIC))
	require.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	t.Setenv(serviceLevelEnv, LOG_LEVEL_WARN)
	SetupLogging()
	log := NewLogger("Test")
	log.Info().Msg("dropped")
	log.Warn().Msg("kept")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Test", entry["component"])
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "warn", entry["level_name"])
	require.Contains(t, entry, "timestamp")
}
