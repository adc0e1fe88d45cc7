package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Dataset   DatasetConfig   `yaml:"dataset" envconfig:"DATASET"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Watch     WatchConfig     `yaml:"watch" envconfig:"WATCH"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"45s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"*"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// TelemetryConfig contains OpenTelemetry configuration
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"covid-report"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1.0"`
}

// DatasetConfig describes where the raw CSV dataset is read from.
// Source selects one of file, http or azblob.
type DatasetConfig struct {
	Source           string        `yaml:"source" envconfig:"SOURCE" default:"file"`
	Path             string        `yaml:"path" envconfig:"LOCAL_PATH" default:"data/data.csv"`
	URL              string        `yaml:"url" envconfig:"REMOTE_URL"`
	ConnectionString string        `yaml:"connection_string" envconfig:"CONNECTION_STRING"`
	Container        string        `yaml:"container" envconfig:"CONTAINER" default:"sample-workitems"`
	Blob             string        `yaml:"blob" envconfig:"BLOB" default:"data.csv"`
	Timeout          time.Duration `yaml:"timeout" envconfig:"TIMEOUT" default:"30s"`
}

// ReportConfig holds the static metadata injected into every report
type ReportConfig struct {
	SourceSystem    string `yaml:"source_system" envconfig:"SOURCE_SYSTEM" default:"ECDC(European Centre for Disease Prevention and Control)"`
	RefreshDate     string `yaml:"refresh_date" envconfig:"REFRESH_DATE" default:"To be added"`
	UpdateFrequency string `yaml:"update_frequency" envconfig:"UPDATE_FREQUENCY" default:"Weekly Twice"`
	SourceContact   string `yaml:"source_contact" envconfig:"SOURCE_CONTACT" default:"To be added"`
	HouseKeeping    string `yaml:"house_keeping" envconfig:"HOUSE_KEEPING" default:"More house keeping columns can also be added"`
}

// WatchConfig controls the background dataset watcher and probe
type WatchConfig struct {
	Enabled       bool   `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	ProbeSchedule string `yaml:"probe_schedule" envconfig:"PROBE_SCHEDULE" default:"@every 5m"`
}

// Load loads configuration from .env, environment variables and an optional YAML file
func Load() (*Config, error) {
	// A missing .env file is the normal case outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if cfg.Dataset.ConnectionString == "" {
		cfg.Dataset.ConnectionString = os.Getenv(AzureWebJobsStorageEnv)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs overlays file values onto settings that were not set in the
// environment. envconfig fills defaults, so a field counts as unset when the
// matching variable is absent.
func mergeConfigs(fileConfig, envConfig Config) Config {
	pick := func(key string, env, file string) string {
		if _, ok := os.LookupEnv(EnvPrefix + "_" + key); ok || file == "" {
			return env
		}
		return file
	}

	envConfig.Dataset.Source = pick("DATASET_SOURCE", envConfig.Dataset.Source, fileConfig.Dataset.Source)
	envConfig.Dataset.Path = pick("DATASET_LOCAL_PATH", envConfig.Dataset.Path, fileConfig.Dataset.Path)
	envConfig.Dataset.URL = pick("DATASET_REMOTE_URL", envConfig.Dataset.URL, fileConfig.Dataset.URL)
	envConfig.Dataset.ConnectionString = pick("DATASET_CONNECTION_STRING", envConfig.Dataset.ConnectionString, fileConfig.Dataset.ConnectionString)
	envConfig.Dataset.Container = pick("DATASET_CONTAINER", envConfig.Dataset.Container, fileConfig.Dataset.Container)
	envConfig.Dataset.Blob = pick("DATASET_BLOB", envConfig.Dataset.Blob, fileConfig.Dataset.Blob)
	envConfig.Logging.Level = pick("LOGGING_LEVEL", envConfig.Logging.Level, fileConfig.Logging.Level)
	envConfig.Logging.Output = pick("LOGGING_OUTPUT", envConfig.Logging.Output, fileConfig.Logging.Output)
	envConfig.Logging.FilePath = pick("LOGGING_FILE_PATH", envConfig.Logging.FilePath, fileConfig.Logging.FilePath)
	envConfig.Report.RefreshDate = pick("REPORT_REFRESH_DATE", envConfig.Report.RefreshDate, fileConfig.Report.RefreshDate)
	envConfig.Report.SourceContact = pick("REPORT_SOURCE_CONTACT", envConfig.Report.SourceContact, fileConfig.Report.SourceContact)
	envConfig.Watch.ProbeSchedule = pick("WATCH_PROBE_SCHEDULE", envConfig.Watch.ProbeSchedule, fileConfig.Watch.ProbeSchedule)

	if _, ok := os.LookupEnv(EnvPrefix + "_SERVER_PORT"); !ok && fileConfig.Server.Port != 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if len(fileConfig.Security.AllowedOrigins) > 0 {
		if _, ok := os.LookupEnv(EnvPrefix + "_SECURITY_ALLOWED_ORIGINS"); !ok {
			envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
		}
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch strings.ToLower(c.Logging.Output) {
	case LogOutputConsole, LogOutputFile, LogOutputBoth:
	default:
		return fmt.Errorf("unsupported logging output: %s", c.Logging.Output)
	}

	if err := c.Dataset.Validate(); err != nil {
		return err
	}

	if c.Watch.Enabled {
		if _, err := cron.Parse(c.Watch.ProbeSchedule); err != nil {
			return fmt.Errorf("invalid probe schedule %q: %w", c.Watch.ProbeSchedule, err)
		}
	}

	return nil
}

// Validate checks that the selected dataset source has what it needs
func (d DatasetConfig) Validate() error {
	switch d.Source {
	case SourceFile:
		if d.Path == "" {
			return fmt.Errorf("dataset path is required for source %q", d.Source)
		}
	case SourceHTTP:
		if d.URL == "" {
			return fmt.Errorf("dataset url is required for source %q", d.Source)
		}
	case SourceAzBlob:
		if d.ConnectionString == "" {
			return fmt.Errorf("connection string is required for source %q (set %s_DATASET_CONNECTION_STRING or %s)",
				d.Source, EnvPrefix, AzureWebJobsStorageEnv)
		}
		if d.Container == "" || d.Blob == "" {
			return fmt.Errorf("container and blob are required for source %q", d.Source)
		}
	default:
		return fmt.Errorf("unsupported dataset source: %q", d.Source)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			RequestTimeout:  45 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"*"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   LogOutputConsole,
			FilePath: "logs/app.log",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "covid-report",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Dataset: DatasetConfig{
			Source:    SourceFile,
			Path:      DefaultDatasetPath,
			Container: DefaultContainer,
			Blob:      DefaultBlobName,
			Timeout:   DefaultSourceWait,
		},
		Report: ReportConfig{
			SourceSystem:    DefaultSourceSystem,
			RefreshDate:     DefaultRefreshDate,
			UpdateFrequency: DefaultUpdateFrequency,
			SourceContact:   DefaultSourceContact,
			HouseKeeping:    DefaultHouseKeeping,
		},
		Watch: WatchConfig{
			Enabled:       true,
			ProbeSchedule: "@every 5m",
		},
	}
}
