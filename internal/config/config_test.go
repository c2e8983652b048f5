package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	_, res := NormalizeAndValidate(Default())
	assert.True(t, res.OK(), res.Errors)
	assert.NoError(t, Validate(Default()))
}

func TestEnsureUserConfig_WritesDefaultsOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	path, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":9000\"\n"), 0o600))
	again, err := EnsureUserConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)

	b, _ := os.ReadFile(path)
	assert.Contains(t, string(b), ":9000", "existing file is left alone")
}

func TestLoad_FileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
admin:
  session_ttl: 2h
notify:
  driver: http
  api_url: https://api.resend.com/emails
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 2*time.Hour, cfg.Admin.SessionTTL)
	assert.Equal(t, "http", cfg.Notify.Driver)
	// untouched keys keep their defaults
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 10*time.Second, cfg.Notify.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NIGARAN_STORE_DRIVER", "postgres")
	t.Setenv("NIGARAN_STORE_DSN", "postgres://nigaran@db/nigaran")
	t.Setenv("NIGARAN_HTTP_FORM_RATE_PER_MIN", "30")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://nigaran@db/nigaran", cfg.Store.DSN)
	assert.Equal(t, 30, cfg.HTTP.FormRatePerMin)
}

func TestNormalizeAndValidate(t *testing.T) {
	cfg := Default()
	cfg.Store.Driver = " Postgres "
	cfg.Session.Backend = "redis"
	cfg.Notify.Driver = "pigeon"
	cfg.HTTP.AllowedOrigins = []string{" https://nigaransolar.com/ ", "https://NigaranSolar.com", ""}

	out, res := NormalizeAndValidate(cfg)
	assert.Equal(t, "postgres", out.Store.Driver)
	assert.Equal(t, []string{"https://nigaransolar.com"}, out.HTTP.AllowedOrigins)
	assert.ElementsMatch(t, []string{
		"store.dsn is required when store.driver=postgres",
		"session.redis_addr is required when session.backend=redis",
		`notify.driver must be log, http or amqp (got "pigeon")`,
	}, res.Errors)
}

func TestSaveAtomic_KeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	first := Default()
	require.NoError(t, SaveAtomic(path, first))

	second := Default()
	second.HTTP.Addr = ":9090"
	require.NoError(t, SaveAtomic(path, second))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)

	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestSaveAtomic_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	bad := Default()
	bad.Store.Driver = "mysql"
	assert.Error(t, SaveAtomic(path, bad))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRedactedAndKeepSecrets(t *testing.T) {
	cfg := Default()
	cfg.Admin.Password = "hunter2"
	cfg.Store.DSN = "postgres://u:p@db/x"

	red := cfg.Redacted()
	assert.Equal(t, "********", red.Admin.Password)
	assert.Equal(t, "********", red.Store.DSN)
	assert.Empty(t, red.Session.RedisPassword)

	red.HTTP.Addr = ":7000"
	merged := KeepSecrets(cfg, red)
	assert.Equal(t, "hunter2", merged.Admin.Password)
	assert.Equal(t, "postgres://u:p@db/x", merged.Store.DSN)
	assert.Equal(t, ":7000", merged.HTTP.Addr)
}

func TestDBPath(t *testing.T) {
	cfg := Default()
	assert.Equal(t, filepath.Join("/var/lib/nigaran", "nigaran.db"), cfg.DBPath("/var/lib/nigaran"))
	cfg.Store.Path = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", cfg.DBPath("/var/lib/nigaran"))
}
