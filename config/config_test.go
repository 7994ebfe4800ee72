package config

import (
	"bytes"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Config reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CSRF_SECRET", "CSRF_HEADER", "CSRF_FORM_FIELD", "CSRF_IGNORE_METHODS",
		"CSRF_IGNORE_URLS", "CSRF_IGNORE_PATTERNS", "CSRF_ORIGIN_CHECK",
		"CSRF_ALLOWED_ORIGIN", "SESSION_NAME", "SESSION_KEYS", "LOG_LEVEL", "HTTP_ADDR",
	} {
		// Setenv registers the restore, Unsetenv makes the variable absent
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "secret", cfg.CSRFSecret)
	assert.Equal(t, "X-Csrf", cfg.CSRFHeader)
	assert.Equal(t, "_csrf", cfg.CSRFFormField)
	assert.Equal(t, []string{"GET"}, cfg.CSRFIgnoreMethods)
	assert.Empty(t, cfg.CSRFIgnorePatterns)
	assert.Equal(t, "session", cfg.SessionName)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("CSRF_SECRET", "s3cr3t")
	t.Setenv("CSRF_IGNORE_METHODS", "get, head")
	t.Setenv("CSRF_IGNORE_URLS", "/webhook,/ping")
	t.Setenv("CSRF_IGNORE_PATTERNS", `^/public/,^/api/v\d+/hooks`)

	cfg, err := Load()
	require.NoError(t, err)

	csrfCfg, err := cfg.CSRF(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", csrfCfg.Secret)
	assert.Equal(t, []string{http.MethodGet, http.MethodHead}, csrfCfg.IgnoreMethods)
	assert.Equal(t, []string{"/webhook", "/ping"}, csrfCfg.IgnoreURLs)
	require.Len(t, csrfCfg.IgnorePatterns, 2)
	assert.True(t, csrfCfg.IgnorePatterns[0].MatchString("/public/x"))
	assert.True(t, csrfCfg.IgnorePatterns[1].MatchString("/api/v2/hooks"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SESSION_NAME=dotenv\nLOG_LEVEL=debug\n"), 0o600))
	t.Chdir(dir)
	// godotenv sets variables it loads; clearEnv restores them afterwards
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dotenv", cfg.SessionName)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestCSRFRejectsBadPattern(t *testing.T) {
	cfg := Config{CSRFIgnorePatterns: []string{"("}}
	_, err := cfg.CSRF(nil, nil)
	assert.ErrorContains(t, err, "CSRF_IGNORE_PATTERNS")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	Config{LogLevel: "warn"}.Logger(&buf).Info("hidden")
	assert.Empty(t, buf.String())

	Config{LogLevel: "bogus"}.Logger(&buf).Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestResolver(t *testing.T) {
	res, err := Config{SessionName: "app", SessionKeys: []string{"0123456789abcdef0123456789abcdef"}}.Resolver(nil)
	require.NoError(t, err)
	assert.Equal(t, "app", res.Name())

	res, err = Config{SessionName: "app", SessionKeys: []string{
		"hash-key-of-any-length", "0123456789abcdef",
	}}.Resolver(nil)
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestResolverRejectsBadBlockKey(t *testing.T) {
	_, err := Config{SessionKeys: []string{"hash-key", "tooshort10"}}.Resolver(nil)
	assert.ErrorContains(t, err, "block key must be 16, 24 or 32 bytes")

	_, err = Config{SessionKeys: []string{"hash-key", ""}}.Resolver(nil)
	assert.ErrorContains(t, err, "is empty")
}

func TestLoadRejectsBadSessionKeys(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_KEYS", "hash-key,tooshort10")

	_, err := Load()
	assert.ErrorContains(t, err, "SESSION_KEYS")
}
