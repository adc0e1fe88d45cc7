package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every variable Load reads so tests start from defaults.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"COVID_SERVER_PORT", "COVID_SERVER_READ_TIMEOUT", "COVID_SECURITY_ALLOWED_ORIGINS",
		"COVID_SECURITY_ENABLE_CORS", "COVID_LOGGING_LEVEL", "COVID_LOGGING_OUTPUT",
		"COVID_DATASET_SOURCE", "COVID_DATASET_LOCAL_PATH", "COVID_DATASET_REMOTE_URL",
		"COVID_DATASET_CONNECTION_STRING", "COVID_WATCH_PROBE_SCHEDULE", "COVID_CONFIG_FILE",
		"COVID_REPORT_REFRESH_DATE", AzureWebJobsStorageEnv,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, []string{"*"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, LogOutputConsole, cfg.Logging.Output)
				assert.Equal(t, SourceFile, cfg.Dataset.Source)
				assert.Equal(t, DefaultDatasetPath, cfg.Dataset.Path)
				assert.Equal(t, DefaultContainer, cfg.Dataset.Container)
				assert.Equal(t, DefaultBlobName, cfg.Dataset.Blob)
				assert.Equal(t, DefaultUpdateFrequency, cfg.Report.UpdateFrequency)
				assert.Equal(t, DefaultSourceSystem, cfg.Report.SourceSystem)
				assert.Equal(t, "@every 5m", cfg.Watch.ProbeSchedule)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"COVID_SERVER_PORT":              "9090",
				"COVID_SERVER_READ_TIMEOUT":      "30s",
				"COVID_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"COVID_LOGGING_LEVEL":            "debug",
				"COVID_DATASET_SOURCE":           "http",
				"COVID_DATASET_REMOTE_URL":       "https://example.com/data.csv",
				"COVID_REPORT_REFRESH_DATE":      "2020-12-14",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, SourceHTTP, cfg.Dataset.Source)
				assert.Equal(t, "https://example.com/data.csv", cfg.Dataset.URL)
				assert.Equal(t, "2020-12-14", cfg.Report.RefreshDate)
			},
		},
		{
			name: "blob source falls back to AzureWebJobsStorage",
			env: map[string]string{
				"COVID_DATASET_SOURCE": "azblob",
				AzureWebJobsStorageEnv: "UseDevelopmentStorage=true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "UseDevelopmentStorage=true", cfg.Dataset.ConnectionString)
				assert.Equal(t, "sample-workitems", cfg.Dataset.Container)
				assert.Equal(t, "data.csv", cfg.Dataset.Blob)
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"COVID_SERVER_PORT": "99999"},
			wantErr: "invalid server port",
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"COVID_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: "read timeout must be positive",
		},
		{
			name:    "unknown dataset source",
			env:     map[string]string{"COVID_DATASET_SOURCE": "ftp"},
			wantErr: "unsupported dataset source",
		},
		{
			name:    "blob source without connection string",
			env:     map[string]string{"COVID_DATASET_SOURCE": "azblob"},
			wantErr: "connection string is required",
		},
		{
			name:    "http source without url",
			env:     map[string]string{"COVID_DATASET_SOURCE": "http"},
			wantErr: "dataset url is required",
		},
		{
			name:    "invalid probe schedule",
			env:     map[string]string{"COVID_WATCH_PROBE_SCHEDULE": "whenever"},
			wantErr: "invalid probe schedule",
		},
		{
			name:    "invalid logging output",
			env:     map[string]string{"COVID_LOGGING_OUTPUT": "syslog"},
			wantErr: "unsupported logging output",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	content := `
server:
  port: 7070
dataset:
  source: file
  path: /srv/ecdc/data.csv
report:
  source_contact: data-team@example.com
`
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	t.Run("file values apply when env is unset", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 7070, cfg.Server.Port)
		assert.Equal(t, "/srv/ecdc/data.csv", cfg.Dataset.Path)
		assert.Equal(t, "data-team@example.com", cfg.Report.SourceContact)
		assert.Equal(t, DefaultRefreshDate, cfg.Report.RefreshDate)
	})

	t.Run("environment wins over file", func(t *testing.T) {
		t.Setenv("COVID_SERVER_PORT", "6060")
		t.Setenv("COVID_DATASET_LOCAL_PATH", "/tmp/other.csv")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "/tmp/other.csv", cfg.Dataset.Path)
	})

	t.Run("explicit config file path", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "custom.yaml")
		require.NoError(t, os.WriteFile(other, []byte("server:\n  port: 5050\n"), 0644))
		t.Setenv("COVID_CONFIG_FILE", other)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 5050, cfg.Server.Port)
	})
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestDatasetConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     DatasetConfig
		wantErr bool
	}{
		{"file with path", DatasetConfig{Source: SourceFile, Path: "data.csv"}, false},
		{"file without path", DatasetConfig{Source: SourceFile}, true},
		{"http with url", DatasetConfig{Source: SourceHTTP, URL: "http://localhost/data.csv"}, false},
		{"blob complete", DatasetConfig{Source: SourceAzBlob, ConnectionString: "x", Container: "c", Blob: "b"}, false},
		{"blob without container", DatasetConfig{Source: SourceAzBlob, ConnectionString: "x", Blob: "b"}, true},
		{"empty source", DatasetConfig{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.NoError(t, cfg.validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, DefaultHouseKeeping, cfg.Report.HouseKeeping)
}
