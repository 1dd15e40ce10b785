package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("info", "json", &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("ranked", zap.Int("passages", 7))
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ranked", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(7), entry["passages"])
	assert.Contains(t, entry, "ts")
}

func TestNewWithWriter_DefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter("", "console", &buf)
	require.NoError(t, err)

	log.Info("quiet")
	assert.Empty(t, buf.String())
	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewWithWriter_Invalid(t *testing.T) {
	_, err := NewWithWriter("chatty", "console", &bytes.Buffer{})
	assert.Error(t, err)

	_, err = NewWithWriter("info", "xml", &bytes.Buffer{})
	assert.Error(t, err)
}
