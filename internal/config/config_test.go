package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withSecretsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := SecretsDir
	SecretsDir = dir
	t.Cleanup(func() { SecretsDir = old })
	return dir
}

func TestReadSecret(t *testing.T) {
	dir := withSecretsDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("  s3cret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("\n"), 0o600))

	secret, err := ReadSecret("jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)

	_, err = ReadSecret("empty")
	assert.Error(t, err)

	_, err = ReadSecret("missing")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadAuthConfig_FromEnv(t *testing.T) {
	withSecretsDir(t)
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("JWT_ALLOWED_ALGS", "HS256,HS512")

	cfg, err := LoadAuthConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"HS256", "HS512"}, cfg.AllowedAlgs)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
}

func TestLoadAuthConfig_SecretFileFallback(t *testing.T) {
	dir := withSecretsDir(t)
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("file-secret"), 0o600))

	cfg, err := LoadAuthConfig("")
	require.NoError(t, err)
	assert.Equal(t, "file-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"HS256"}, cfg.AllowedAlgs)
}

func TestLoadAuthConfig_DotEnv(t *testing.T) {
	withSecretsDir(t)
	t.Setenv("JWT_SECRET", "")
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("JWT_SECRET=dotenv-secret\n"), 0o600))

	// godotenv не перезаписывает уже заданные переменные, поэтому убираем пустую
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := LoadAuthConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWTSecret)
}

func TestLoadAuthConfig_NoSecret(t *testing.T) {
	withSecretsDir(t)
	t.Setenv("JWT_SECRET", "")

	_, err := LoadAuthConfig("")
	assert.Error(t, err)
}

func TestLoadClientConfig_Defaults(t *testing.T) {
	cfg, err := LoadClientConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.API.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.API.Timeout)
	assert.Equal(t, PrefsBackendFile, cfg.Prefs.Backend)
	assert.Equal(t, "alloy", cfg.Speech.Voice)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestLoadClientConfig_YAMLAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://stories.local
  timeout: 5s
prefs:
  backend: redis
  namespace: kid-1
log:
  level: debug
`), 0o600))
	t.Setenv("STORY_API_TOKEN", "tok")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://stories.local", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, PrefsBackendRedis, cfg.Prefs.Backend)
	assert.Equal(t, "kid-1", cfg.Prefs.Namespace)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadClientConfig_UnknownBackend(t *testing.T) {
	t.Setenv("PREFS_BACKEND", "floppy")
	_, err := LoadClientConfig("")
	assert.Error(t, err)
}

func TestLoadGatewayConfig(t *testing.T) {
	dir := withSecretsDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "redis_password"), []byte("pw"), 0o600))
	t.Setenv("JWT_SECRET", "gate-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "5")

	cfg, err := LoadGatewayConfig("")
	require.NoError(t, err)
	assert.Equal(t, "gate-secret", cfg.JWTSecret)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, uint(5), cfg.RateLimitPerMinute)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.GetAllowedOrigins())
	assert.Equal(t, "pw", cfg.RedisPassword)
	assert.True(t, cfg.MetricsEnabled)
}
