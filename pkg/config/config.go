// Package config loads the relay's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/sdelicata/dropbox-team-relay/pkg/dropbox"
)

const (
	keyClientID     = "DROPBOX_CLIENT_ID"
	keyClientSecret = "DROPBOX_CLIENT_SECRET"
	keyRedirectURI  = "DROPBOX_REDIRECT_URI"
	keyPort         = "PORT"
	keyLogLevel     = "LOG_LEVEL"
	keyLogFormat    = "LOG_FORMAT"
	keyHTTPTimeout  = "HTTP_TIMEOUT"
	keyCORSOrigins  = "CORS_ALLOWED_ORIGINS"
	keyRateLimit    = "RATE_LIMIT_RPS"
	keyRateBurst    = "RATE_LIMIT_BURST"
	keyTrustProxy   = "TRUST_PROXY_HEADERS"
)

// Config holds every setting the relay needs at startup.
type Config struct {
	Dropbox        dropbox.Credentials
	Port           string
	LogLevel       string
	LogFormat      string
	HTTPTimeout    time.Duration
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	TrustProxy     bool
}

// Addr returns the listen address for Port.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Load reads envFile (if it exists) into the process environment and then
// builds a Config from it. A missing env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) (*Config, error) {
	var missing []string
	required := func(key string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		Dropbox: dropbox.Credentials{
			ClientID:     required(keyClientID),
			ClientSecret: required(keyClientSecret),
			RedirectURI:  required(keyRedirectURI),
		},
		Port:           withDefault(getenv(keyPort), "8080"),
		LogLevel:       withDefault(getenv(keyLogLevel), "info"),
		LogFormat:      strings.ToLower(withDefault(getenv(keyLogFormat), "console")),
		AllowedOrigins: splitList(withDefault(getenv(keyCORSOrigins), "https://*,http://*")),
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
	}

	switch cfg.LogFormat {
	case "console", "json":
	default:
		return nil, fmt.Errorf("invalid %s %q: want console or json", keyLogFormat, cfg.LogFormat)
	}

	var err error
	if cfg.HTTPTimeout, err = time.ParseDuration(withDefault(getenv(keyHTTPTimeout), "30s")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyHTTPTimeout, err)
	}
	if cfg.RateLimit, err = strconv.ParseFloat(withDefault(getenv(keyRateLimit), "0"), 64); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyRateLimit, err)
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", keyRateLimit)
	}
	if cfg.RateBurst, err = strconv.Atoi(withDefault(getenv(keyRateBurst), "10")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyRateBurst, err)
	}
	if cfg.RateBurst < 1 {
		return nil, fmt.Errorf("invalid %s: must be at least 1", keyRateBurst)
	}
	if cfg.TrustProxy, err = strconv.ParseBool(withDefault(getenv(keyTrustProxy), "false")); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", keyTrustProxy, err)
	}

	return cfg, nil
}

func withDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
