package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  path: /tmp/pricer.db
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "/tmp/pricer.db", cfg.Database.Path)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
server:
  port: 9090
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 20.0, cfg.Server.RateLimit.PerSecond)
				assert.Equal(t, 40, cfg.Server.RateLimit.Burst)
				assert.Equal(t, "shop-pricer.db", cfg.Database.Path)
				assert.Equal(t, 50, cfg.History.Cap)
				assert.Equal(t, 2*time.Second, cfg.History.SaveDebounce)
				assert.Equal(t, time.Hour, cfg.History.RetentionInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  path: "${TEST_PRICER_DB}"
`,
			envVars: map[string]string{
				"TEST_PRICER_DB": "/data/pricer.db",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "/data/pricer.db", cfg.Database.Path)
			},
		},
		{
			name: "debounce below the window",
			yaml: `
history:
  save_debounce: 500ms
`,
			wantErr: "history.save_debounce must be between 1.5s and 3s",
		},
		{
			name: "debounce above the window",
			yaml: `
history:
  save_debounce: 10s
`,
			wantErr: "history.save_debounce must be between 1.5s and 3s",
		},
		{
			name: "debounce at the bounds is accepted",
			yaml: `
history:
  save_debounce: 1.5s
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 1500*time.Millisecond, cfg.History.SaveDebounce)
			},
		},
		{
			name: "negative history cap",
			yaml: `
history:
  cap: -1
`,
			wantErr: "history.cap must be positive",
		},
		{
			name: "retention interval too short",
			yaml: `
history:
  retention_interval: 5s
`,
			wantErr: "history.retention_interval must be at least 1m",
		},
		{
			name: "discord enabled without webhook url",
			yaml: `
notifications:
  discord:
    enabled: true
`,
			wantErr: "notifications.discord.webhook_url is required",
		},
		{
			name: "invalid logging level",
			yaml: `
logging:
  level: verbose
`,
			wantErr: "logging.level must be one of",
		},
		{
			name: "invalid logging format",
			yaml: `
logging:
  format: xml
`,
			wantErr: "logging.format must be text or json",
		},
		{
			name: "invalid server port",
			yaml: `
server:
  port: 70000
`,
			wantErr: "server.port must be 1-65535",
		},
		{
			name:    "malformed yaml",
			yaml:    "server: [not a map",
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 50, cfg.History.Cap)
	assert.Equal(t, 2*time.Second, cfg.History.SaveDebounce)
	assert.NoError(t, validate(cfg))
}
