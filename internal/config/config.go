// Package config resolves sattutor settings from defaults, an optional
// .env file and SATTUTOR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/abhisek/sattutor/internal/auth"
)

// Config holds all client and gateway configuration.
type Config struct {
	// APIURL is the tutoring backend root. Default: "http://localhost:8000".
	APIURL string

	// UserID identifies the learner when no token is set.
	UserID string

	// Token is a bearer JWT whose subject is the learner id. It takes
	// precedence over UserID.
	Token string

	// JWTSecret verifies Token, and bearer tokens at the gateway. Optional.
	JWTSecret string

	// DBPath overrides the local event database location.
	DBPath string

	// Timeout bounds a single backend request. Default: 30s.
	Timeout time.Duration

	Gateway GatewayConfig
}

// GatewayConfig configures `sattutor serve`.
type GatewayConfig struct {
	Addr        string   // Default: ":8080"
	CORSOrigins []string // Default: http://localhost:3000
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		APIURL:  "http://localhost:8000",
		Timeout: 30 * time.Second,
		Gateway: GatewayConfig{
			Addr:        ":8080",
			CORSOrigins: []string{"http://localhost:3000"},
		},
	}
}

// LoadDotEnv loads variables from the given .env files (".env" when none
// are given) without overriding variables already set. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables, falling back to
// defaults for unset values.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("SATTUTOR_API_URL"); v != "" {
		cfg.APIURL = v
	}
	cfg.UserID = os.Getenv("SATTUTOR_USER_ID")
	cfg.Token = os.Getenv("SATTUTOR_TOKEN")
	cfg.JWTSecret = os.Getenv("SATTUTOR_JWT_SECRET")
	cfg.DBPath = os.Getenv("SATTUTOR_DB")

	if v := os.Getenv("SATTUTOR_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			fmt.Fprintf(os.Stderr, "warning: ignoring SATTUTOR_TIMEOUT=%q: want a positive duration like 20s\n", v)
		} else {
			cfg.Timeout = d
		}
	}

	if v := os.Getenv("SATTUTOR_GATEWAY_ADDR"); v != "" {
		cfg.Gateway.Addr = v
	}
	if v := os.Getenv("SATTUTOR_CORS_ORIGINS"); v != "" {
		cfg.Gateway.CORSOrigins = splitList(v)
	}

	return cfg
}

// Load reads the .env file and then the environment.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}
	return FromEnv(), nil
}

// Validate checks that the backend URL is usable and the timeout positive.
func (c Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("SATTUTOR_API_URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("SATTUTOR_API_URL must be an http or https URL, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("SATTUTOR_API_URL has no host: %q", c.APIURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// Verifier returns a JWT verifier when a secret is configured, or nil.
func (c Config) Verifier() (*auth.Verifier, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}
	return auth.NewVerifier(c.JWTSecret)
}

// AuthProvider picks the identity source: the token when set, then the
// static user id, else anonymous.
func (c Config) AuthProvider() (auth.Provider, error) {
	if c.Token != "" {
		v, err := c.Verifier()
		if err != nil {
			return nil, err
		}
		p, err := auth.NewTokenProvider(c.Token, v)
		if err != nil {
			return nil, fmt.Errorf("SATTUTOR_TOKEN: %w", err)
		}
		return p, nil
	}
	if c.UserID != "" {
		return auth.Static{UserID: c.UserID}, nil
	}
	return auth.Anonymous, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
