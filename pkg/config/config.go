package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix       = "FINOPS"
	DefaultFileName = "finops.yaml"

	ConnectorSimulated = "simulated"
	ConnectorAWS       = "aws"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Log          LogConfig          `mapstructure:"log"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Polling      PollingConfig      `mapstructure:"polling"`
	Sessions     SessionsConfig     `mapstructure:"sessions"`
	Integrations IntegrationsConfig `mapstructure:"integrations"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	Threads int    `mapstructure:"threads"`
}

type PollingConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type SessionsConfig struct {
	MaxSessions int `mapstructure:"max_sessions"`
}

type IntegrationsConfig struct {
	Connector   string  `mapstructure:"connector"`
	SuccessRate float64 `mapstructure:"success_rate"`
	AWSProfile  string  `mapstructure:"aws_profile"`
	RateLimit   float64 `mapstructure:"rate_limit"` // calls per second
	Burst       int     `mapstructure:"burst"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"http://localhost:5173"},
		},
		Log: LogConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Path:    "finops-dashboard.db",
			Threads: 4,
		},
		Polling: PollingConfig{
			Interval: 30 * time.Second,
		},
		Sessions: SessionsConfig{
			MaxSessions: 1024,
		},
		Integrations: IntegrationsConfig{
			Connector:   ConnectorSimulated,
			SuccessRate: 0.7,
			RateLimit:   2,
			Burst:       4,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and
// FINOPS_* environment variables, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.allowed_origins", d.Server.AllowedOrigins)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.pretty", d.Log.Pretty)

	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("database.threads", d.Database.Threads)

	v.SetDefault("polling.interval", d.Polling.Interval)

	v.SetDefault("sessions.max_sessions", d.Sessions.MaxSessions)

	v.SetDefault("integrations.connector", d.Integrations.Connector)
	v.SetDefault("integrations.success_rate", d.Integrations.SuccessRate)
	v.SetDefault("integrations.aws_profile", d.Integrations.AWSProfile)
	v.SetDefault("integrations.rate_limit", d.Integrations.RateLimit)
	v.SetDefault("integrations.burst", d.Integrations.Burst)
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Polling.Interval <= 0 {
		errs = append(errs, fmt.Errorf("polling.interval must be positive"))
	}
	if c.Database.Path == "" {
		errs = append(errs, fmt.Errorf("database.path is required"))
	}
	switch c.Integrations.Connector {
	case ConnectorSimulated, ConnectorAWS:
	default:
		errs = append(errs, fmt.Errorf("integrations.connector %q is not one of %s, %s",
			c.Integrations.Connector, ConnectorSimulated, ConnectorAWS))
	}
	if c.Integrations.SuccessRate < 0 || c.Integrations.SuccessRate > 1 {
		errs = append(errs, fmt.Errorf("integrations.success_rate must be within [0,1]"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
