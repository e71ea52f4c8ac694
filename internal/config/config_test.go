package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every recognized variable so ambient shell state cannot
// leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAPIToken, EnvAPITokenAlt, EnvBasePath, EnvBaseURL,
		EnvLogLevel, EnvLogFormat, EnvLogFile, EnvTimeoutSecs, EnvRateLimit,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Empty(t, cfg.APIToken)
	assert.Contains(t, cfg.BasePath, DefaultDirName)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, DefaultRateLimit, cfg.HTTP.RateLimit)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Nil(t, cfg.StaleDays.Listing)
	assert.Nil(t, cfg.StaleDays.Fundamentals)
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api_token: file-token
base_path: /var/cache/eodhist
http:
  timeout_seconds: 60
  rate_limit: 5
logging:
  level: debug
stale_days:
  listing: 1
  fundamentals: 90
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, "/var/cache/eodhist", cfg.BasePath)
	assert.Equal(t, 60, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 5, cfg.HTTP.RateLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NotNil(t, cfg.StaleDays.Listing)
	assert.Equal(t, 1, *cfg.StaleDays.Listing)
	require.NotNil(t, cfg.StaleDays.Fundamentals)
	assert.Equal(t, 90, *cfg.StaleDays.Fundamentals)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "an explicitly named config file must exist")
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_token: file-token\n"), 0600))

	t.Setenv(EnvAPIToken, "env-token")
	t.Setenv(EnvBasePath, "/env/base")
	t.Setenv(EnvTimeoutSecs, "120")
	t.Setenv(EnvRateLimit, "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.APIToken, "environment wins over the file")
	assert.Equal(t, "/env/base", cfg.BasePath)
	assert.Equal(t, 120, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, 3, cfg.HTTP.RateLimit)
}

func TestEnvTokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPITokenAlt, "short-token")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "short-token", cfg.APIToken)

	// The long form wins when both are set.
	t.Setenv(EnvAPIToken, "long-token")
	cfg = Default()
	cfg.ApplyEnv()
	assert.Equal(t, "long-token", cfg.APIToken)
}

func TestApplyEnvIgnoresBadNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvTimeoutSecs, "not-a-number")
	t.Setenv(EnvRateLimit, "-5")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, DefaultRateLimit, cfg.HTTP.RateLimit)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingAPIToken)

	cfg.APIToken = "token"
	assert.NoError(t, cfg.Validate())

	cfg.BasePath = ""
	assert.Error(t, cfg.Validate())
}

func TestInitLoggerWithFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "eodhist.log")

	require.NoError(t, InitLogger(LoggingConfig{Level: "debug", Format: "json", File: logPath}))
	t.Cleanup(CloseLogFile)

	logger := GetLogger()
	logger.Info().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestComponentLogger(t *testing.T) {
	require.NoError(t, InitLogger(LoggingConfig{Level: "info", Format: "json"}))
	logger := ComponentLogger("cache")
	assert.NotNil(t, logger)
}
