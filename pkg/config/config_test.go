package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdelicata/dropbox-team-relay/pkg/dropbox"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DROPBOX_CLIENT_ID":     "key1",
		"DROPBOX_CLIENT_SECRET": "secret1",
		"DROPBOX_REDIRECT_URI":  "http://localhost:8080/oauth/callback",
	}
}

func TestLoadFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr string
	}{
		{
			name: "defaults",
			env:  requiredEnv(),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, dropbox.Credentials{
					ClientID:     "key1",
					ClientSecret: "secret1",
					RedirectURI:  "http://localhost:8080/oauth/callback",
				}, cfg.Dropbox)
				assert.Equal(t, ":8080", cfg.Addr())
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, "console", cfg.LogFormat)
				assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
				assert.Equal(t, []string{"https://*", "http://*"}, cfg.AllowedOrigins)
				assert.Zero(t, cfg.RateLimit)
				assert.Equal(t, 10, cfg.RateBurst)
				assert.False(t, cfg.TrustProxy)
			},
		},
		{
			name: "overrides",
			env: func() map[string]string {
				env := requiredEnv()
				env["PORT"] = "9000"
				env["LOG_LEVEL"] = "debug"
				env["LOG_FORMAT"] = "JSON"
				env["HTTP_TIMEOUT"] = "5s"
				env["CORS_ALLOWED_ORIGINS"] = " https://app.example.com , ,https://admin.example.com"
				env["RATE_LIMIT_RPS"] = "2.5"
				env["RATE_LIMIT_BURST"] = "4"
				env["TRUST_PROXY_HEADERS"] = "true"
				return env
			}(),
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ":9000", cfg.Addr())
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "json", cfg.LogFormat)
				assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
				assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
				assert.InDelta(t, 2.5, cfg.RateLimit, 1e-9)
				assert.Equal(t, 4, cfg.RateBurst)
				assert.True(t, cfg.TrustProxy)
			},
		},
		{
			name:    "all required missing",
			env:     map[string]string{},
			wantErr: "missing required settings: DROPBOX_CLIENT_ID, DROPBOX_CLIENT_SECRET, DROPBOX_REDIRECT_URI",
		},
		{
			name: "blank secret counts as missing",
			env: func() map[string]string {
				env := requiredEnv()
				env["DROPBOX_CLIENT_SECRET"] = "   "
				return env
			}(),
			wantErr: "missing required settings: DROPBOX_CLIENT_SECRET",
		},
		{
			name: "bad timeout",
			env: func() map[string]string {
				env := requiredEnv()
				env["HTTP_TIMEOUT"] = "soon"
				return env
			}(),
			wantErr: "invalid HTTP_TIMEOUT",
		},
		{
			name: "bad log format",
			env: func() map[string]string {
				env := requiredEnv()
				env["LOG_FORMAT"] = "xml"
				return env
			}(),
			wantErr: "invalid LOG_FORMAT",
		},
		{
			name: "negative rate",
			env: func() map[string]string {
				env := requiredEnv()
				env["RATE_LIMIT_RPS"] = "-1"
				return env
			}(),
			wantErr: "invalid RATE_LIMIT_RPS",
		},
		{
			name: "zero burst",
			env: func() map[string]string {
				env := requiredEnv()
				env["RATE_LIMIT_BURST"] = "0"
				return env
			}(),
			wantErr: "invalid RATE_LIMIT_BURST",
		},
		{
			name: "bad trust proxy flag",
			env: func() map[string]string {
				env := requiredEnv()
				env["TRUST_PROXY_HEADERS"] = "sometimes"
				return env
			}(),
			wantErr: "invalid TRUST_PROXY_HEADERS",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := loadFrom(envMap(test.env))

			if test.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErr)
				return
			}

			require.NoError(t, err)
			test.check(t, cfg)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	data := "DROPBOX_CLIENT_ID=filekey\nDROPBOX_CLIENT_SECRET=filesecret\nDROPBOX_REDIRECT_URI=https://example.com/cb\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	for _, key := range []string{"DROPBOX_CLIENT_ID", "DROPBOX_CLIENT_SECRET", "DROPBOX_REDIRECT_URI"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "filekey", cfg.Dropbox.ClientID)
	assert.Equal(t, "https://example.com/cb", cfg.Dropbox.RedirectURI)
}

func TestLoadMissingEnvFile(t *testing.T) {
	t.Setenv("DROPBOX_CLIENT_ID", "k")
	t.Setenv("DROPBOX_CLIENT_SECRET", "s")
	t.Setenv("DROPBOX_REDIRECT_URI", "r")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.env"))

	require.NoError(t, err)
	assert.Equal(t, "k", cfg.Dropbox.ClientID)
}
