package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevel(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	Init("debug", "json")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	Init("nonsense", "console")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestWriterFor(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, &buf, writerFor("JSON", &buf))
	_, ok := writerFor("console", &buf).(zerolog.ConsoleWriter)
	assert.True(t, ok)
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	defer func() { log.Logger = prev }()
	log.Logger = NewLogger(&buf)

	logger := WithComponent("server")
	logger.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, "hello", entry["message"])
}

func TestNewLoggerMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewLogger(&a, &b)
	logger.Warn().Msg("twice")
	assert.Contains(t, a.String(), "twice")
	assert.Contains(t, b.String(), "twice")
}
