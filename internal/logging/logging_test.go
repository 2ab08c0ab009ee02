package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/tinderbot-cli/internal/domain"
)

func TestNewUsesJSONFormatter(t *testing.T) {
	var out bytes.Buffer
	logger := New(domain.LogSettings{Level: "debug", JSON: true}, &out)

	logger.WithField("candidate", "abc").Debug("liked")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "liked", entry["msg"])
	assert.Equal(t, "abc", entry["candidate"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var out bytes.Buffer
	logger := New(domain.LogSettings{Level: "warn"}, &out)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), "shown")
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel(" error "))
}

func TestConfigureReplacesOutputAndLevel(t *testing.T) {
	var first, second bytes.Buffer
	logger := New(domain.LogSettings{Level: "info"}, &first)

	Configure(logger, domain.LogSettings{Level: "error"}, &second)
	logger.Warn("dropped")
	logger.Error("kept")

	assert.Empty(t, first.String())
	assert.NotContains(t, second.String(), "dropped")
	assert.Contains(t, second.String(), "kept")
}

func TestDiscardWritesNowhere(t *testing.T) {
	logger := Discard()
	assert.Equal(t, io.Discard, logger.Out)
}
