// Package config loads the process configuration from the environment.
//
// A .env file in the working directory is read first when present; variables
// already set in the environment win over it.
//
//	cfg := config.MustLoad()
//	logger := cfg.Logger(os.Stdout)
//	res, err := cfg.Resolver(logger)
//	csrfCfg, err := cfg.CSRF(res, logger)
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/JeanGrijp/go-permit/csrf"
	"github.com/JeanGrijp/go-permit/session"
)

type Config struct {
	CSRFSecret         string   `env:"CSRF_SECRET" envDefault:"secret"`
	CSRFHeader         string   `env:"CSRF_HEADER" envDefault:"X-Csrf"`
	CSRFFormField      string   `env:"CSRF_FORM_FIELD" envDefault:"_csrf"`
	CSRFIgnoreMethods  []string `env:"CSRF_IGNORE_METHODS" envDefault:"GET" envSeparator:","`
	CSRFIgnoreURLs     []string `env:"CSRF_IGNORE_URLS" envSeparator:","`
	CSRFIgnorePatterns []string `env:"CSRF_IGNORE_PATTERNS" envSeparator:","`
	CSRFOriginCheck    bool     `env:"CSRF_ORIGIN_CHECK" envDefault:"false"`
	CSRFAllowedOrigin  string   `env:"CSRF_ALLOWED_ORIGIN"`

	SessionName string   `env:"SESSION_NAME" envDefault:"session"`
	SessionKeys []string `env:"SESSION_KEYS" envSeparator:","`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load reads an optional .env file and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	if _, err := cfg.sessionKeys(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error, for use at startup.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Logger returns a JSON logger writing to w at the configured level.
// Unknown levels fall back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Resolver returns a cookie-backed session resolver using SessionKeys as
// hash/block key pairs. Without keys a random one is generated.
func (c Config) Resolver(logger *slog.Logger) (*session.Resolver, error) {
	keys, err := c.sessionKeys()
	if err != nil {
		return nil, err
	}
	return session.NewCookieResolver(c.SessionName, logger, keys...), nil
}

// sessionKeys splits SessionKeys into securecookie hash/block pairs. Even
// positions are hash keys, odd positions are AES block keys and must be 16,
// 24 or 32 bytes long.
func (c Config) sessionKeys() ([][]byte, error) {
	keys := make([][]byte, 0, len(c.SessionKeys))
	for i, k := range c.SessionKeys {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("config: SESSION_KEYS entry %d is empty", i)
		}
		if i%2 == 1 {
			switch len(k) {
			case 16, 24, 32:
			default:
				return nil, fmt.Errorf("config: SESSION_KEYS entry %d: block key must be 16, 24 or 32 bytes, got %d", i, len(k))
			}
		}
		keys = append(keys, []byte(k))
	}
	return keys, nil
}

// CSRF converts c into a csrf.Config, compiling the ignore patterns.
func (c Config) CSRF(sessions *session.Resolver, logger *slog.Logger) (csrf.Config, error) {
	patterns := make([]*regexp.Regexp, 0, len(c.CSRFIgnorePatterns))
	for _, p := range c.CSRFIgnorePatterns {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return csrf.Config{}, fmt.Errorf("config: CSRF_IGNORE_PATTERNS %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}

	methods := make([]string, 0, len(c.CSRFIgnoreMethods))
	for _, m := range c.CSRFIgnoreMethods {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, strings.ToUpper(m))
		}
	}

	return csrf.Config{
		Secret:             c.CSRFSecret,
		HeaderName:         c.CSRFHeader,
		FormField:          c.CSRFFormField,
		IgnoreMethods:      methods,
		IgnoreURLs:         c.CSRFIgnoreURLs,
		IgnorePatterns:     patterns,
		EnforceOriginCheck: c.CSRFOriginCheck,
		AllowedOrigin:      c.CSRFAllowedOrigin,
		Sessions:           sessions,
		Logger:             logger,
	}, nil
}
