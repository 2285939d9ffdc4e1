package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMake_Writer(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New().FromWriter(buf).WithLevel("warn").Make()
	require.NoError(t, err)

	log.Logger.Info().Msg("hidden")
	log.Logger.Warn().Str("op", "append").Msg("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"op":"append"`)
	require.NoError(t, log.Close())
}

func TestMake_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sb.log")
	log, err := New().FromPath(path).Make()
	require.NoError(t, err)
	log.Logger.Info().Msg("to file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to file")
}

func TestWithLevel_UnknownKeepsDefault(t *testing.T) {
	buf := &bytes.Buffer{}
	log, err := New().FromWriter(buf).WithLevel("chatty").Make()
	require.NoError(t, err)
	log.Logger.Info().Msg("info still on")
	require.Contains(t, buf.String(), "info still on")
}
