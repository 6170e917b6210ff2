package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdelicata/dropbox-team-relay/pkg/config"
)

func TestAuthorizeURLCommand(t *testing.T) {
	t.Setenv("DROPBOX_CLIENT_ID", "cli-key")
	t.Setenv("DROPBOX_CLIENT_SECRET", "cli-secret")
	t.Setenv("DROPBOX_REDIRECT_URI", "http://localhost:8080/oauth/callback")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"authorize-url", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	require.NoError(t, cmd.Execute())
	assert.Equal(t,
		"https://www.dropbox.com/oauth2/authorize?client_id=cli-key&response_type=code&redirect_uri=http://localhost:8080/oauth/callback\n",
		out.String())
}

func TestAuthorizeURLCommandMissingConfig(t *testing.T) {
	t.Setenv("DROPBOX_CLIENT_ID", "")
	t.Setenv("DROPBOX_CLIENT_SECRET", "")
	t.Setenv("DROPBOX_REDIRECT_URI", "")

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"authorize-url", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DROPBOX_CLIENT_ID")
}

func TestNewLogger(t *testing.T) {
	logLevel = ""
	t.Cleanup(func() { logLevel = "" })

	var buf bytes.Buffer
	logger := newLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"message":"shown"`)

	logLevel = "debug"
	logger = newLogger(&config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())

	logLevel = "bogus"
	logger = newLogger(&config.Config{LogFormat: "console"}, &buf)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
