package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Output: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "run_id=")
}

func TestNewVerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "error", Verbose: true, Output: &buf})
	logger.Debug().Str("tool", "pdm").Msg("resolving")

	assert.Contains(t, buf.String(), "resolving")
	assert.Contains(t, buf.String(), "tool=pdm")
}

func TestNewDefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, DefaultLevel, ParseLevel(""))
	assert.Equal(t, DefaultLevel, ParseLevel("chatty"))
}

func TestNewRunIDIsUniqueLowercase(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	require.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, string(bytes.ToLower([]byte(a))))
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(New(Config{Level: "debug", Output: &buf}), "cache")
	ctx := WithLogger(context.Background(), logger)

	FromContext(ctx).Debug().Msg("from context")
	assert.Contains(t, buf.String(), "component=cache")
	assert.Contains(t, buf.String(), "from context")

	// A bare context yields a disabled logger rather than nil.
	FromContext(context.Background()).Error().Msg("dropped")
}
