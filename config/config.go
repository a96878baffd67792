// Package config loads server configuration with Viper and builds the Zap
// logger from it.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"github.com/warp/period-engine/period"
)

// Config is the typed view of the loaded configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Period    PeriodConfig    `mapstructure:"period"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// RateLimitRPS is the per-client request rate; 0 disables limiting.
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`

	// TrustProxy takes the client address from X-Forwarded-For; only set it
	// behind a reverse proxy.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Addr returns the listen address as host:port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type DatabaseConfig struct {
	// Path is a SQLite file path or ":memory:".
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PeriodConfig holds defaults applied when a request does not specify them.
type PeriodConfig struct {
	// DefaultWait is a wait period in "1m0d" form.
	DefaultWait string `mapstructure:"default_wait"`
}

// Wait parses DefaultWait.
func (c PeriodConfig) Wait() (period.WaitPeriod, error) {
	return period.ParseWaitPeriod(c.DefaultWait)
}

// SchedulerConfig drives automatic recording of runs for closed periods.
type SchedulerConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Cron    string      `mapstructure:"cron"`
	Jobs    []JobConfig `mapstructure:"jobs"`
}

// JobConfig is one dataset kept up to date by the scheduler. An empty Wait
// means period.default_wait.
type JobConfig struct {
	Dataset    string `mapstructure:"dataset"`
	PeriodType string `mapstructure:"period_type"`
	Wait       string `mapstructure:"wait"`
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables. An empty
// path searches ./period-engine.yaml, ./configs and /etc/period-engine.
// Environment variables use the PERIOD_ prefix: PERIOD_SERVER_PORT=9090.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})
	v.SetDefault("server.rate_limit_rps", 50)
	v.SetDefault("server.rate_limit_burst", 100)
	v.SetDefault("server.trust_proxy", false)
	v.SetDefault("database.path", "period-engine.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("period.default_wait", period.DefaultWaitPeriod.String())
	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.cron", "15 2 * * *")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("period-engine")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/period-engine")
	}

	v.SetEnvPrefix("PERIOD")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return v, nil
}

// Decode unmarshals v into Config and validates it.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server.port %d", cfg.Server.Port)
	}
	if _, err := cfg.Period.Wait(); err != nil {
		return nil, fmt.Errorf("invalid period.default_wait: %w", err)
	}
	for i, job := range cfg.Scheduler.Jobs {
		if job.Dataset == "" {
			return nil, fmt.Errorf("scheduler.jobs[%d]: dataset is required", i)
		}
		if _, err := period.ParseType(job.PeriodType); err != nil {
			return nil, fmt.Errorf("scheduler.jobs[%d]: %w", i, err)
		}
		if job.Wait != "" {
			if _, err := period.ParseWaitPeriod(job.Wait); err != nil {
				return nil, fmt.Errorf("scheduler.jobs[%d]: %w", i, err)
			}
		}
	}
	return &cfg, nil
}
