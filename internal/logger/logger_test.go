package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warning": WarnLevel,
		"warn":    WarnLevel,
		"error":   ErrorLevel,
		"":        InfoLevel,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLevelForFlags(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")

	level, err := LevelForFlags(true, false)
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, level)

	level, err = LevelForFlags(false, true)
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, level)

	level, err = LevelForFlags(false, false)
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, level)

	_, err = LevelForFlags(true, true)
	assert.Error(t, err)
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	assert.Equal(t, DebugLevel, LevelFromEnv())

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, ErrorLevel, LevelFromEnv())
}

func TestZerologAdapterFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, InfoLevel)

	log.Debug("Engine", "hidden", nil)
	assert.Zero(t, buf.Len())

	log.Error("Writer", errors.New("disk full"), map[string]interface{}{"path": "out.xlsx"})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "Writer", entry["component"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "out.xlsx", entry["path"])
}

func TestZerologAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewZerolog(&buf, WarnLevel)

	log.Info("Runner", "skipped", map[string]interface{}{"n": 1})
	assert.Zero(t, buf.Len())

	log.Warning("Runner", "slow slide", map[string]interface{}{"b": 2, "a": 1})
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "slow slide", entry["message"])
	assert.Less(t, bytes.Index(buf.Bytes(), []byte(`"a"`)), bytes.Index(buf.Bytes(), []byte(`"b"`)))
}
