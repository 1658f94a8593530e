package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSONAtLevel(t *testing.T) {
	t.Cleanup(Discard)
	path := filepath.Join(t.TempDir(), "nested", "pipedeck.log")

	closer, err := Setup(path, "warn")
	require.NoError(t, err)

	log.Info().Msg("hidden")
	log.Warn().Str("pipeline", "p1").Msg("shown")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"pipeline":"p1"`)
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "x.log"), "loud")
	require.Error(t, err)
}

func TestSetup_EmptyPathDiscards(t *testing.T) {
	t.Cleanup(Discard)
	closer, err := Setup("", "debug")
	require.NoError(t, err)
	require.NoError(t, closer.Close())
	assert.Equal(t, zerolog.Disabled, zerolog.GlobalLevel())
}
