package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
environment = "development"
host = "localhost"
port = 9000
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "liftlog_dev"
redis_host = "localhost"
redis_port = "6379"
login_rate_limit_allowed_per_min = 5

[production]
environment = "production"
host = "0.0.0.0"
port = 8080
log_level = "debug"
logs_path = "/var/log/liftlog/service.log"
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "liftlog"
redis_host = "redis"
redis_port = "6379"
login_rate_limit_allowed_per_min = 10
`

func TestLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0o600))

	devCfg, err := Load("development", configPath)
	require.NoError(t, err)
	require.NotNil(t, devCfg)
	assert.Equal(t, 9000, devCfg.Port)
	assert.Equal(t, "liftlog_dev", devCfg.PostgresDBName)
	assert.True(t, devCfg.LogToStdout)
	assert.Equal(t, 5, devCfg.LoginRateLimitAllowedPerMin)

	prodCfg, err := Load("prod", configPath)
	require.NoError(t, err)
	require.NotNil(t, prodCfg)
	assert.Equal(t, 8080, prodCfg.Port)
	assert.Equal(t, "/var/log/liftlog/service.log", prodCfg.LogsPath)
}

func TestLoad_UnknownEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfigContent), 0o600))

	cfg, err := Load("staging", configPath)
	require.Error(t, err)
	assert.Nil(t, cfg)
}
