// Package config loads runtime settings from configs/config.yml and
// FOURHEAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fourheat/internal/logger"
	"fourheat/internal/protocol"

	"github.com/spf13/viper"
)

const envPrefix = "FOURHEAT"

// Config is the full runtime configuration.
type Config struct {
	Stove  Stove
	Socket Socket
	HTTP   HTTP
	DB     DB
	Log    Log
	Auth   Auth
}

// Stove identifies the device; immutable once the coordinator is built.
type Stove struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ID           string        `mapstructure:"id"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type Socket struct {
	Timeout        time.Duration `mapstructure:"timeout"`
	Buffer         int           `mapstructure:"buffer"`
	TimeoutRetries int           `mapstructure:"timeout_retries"`
}

type HTTP struct {
	Port string `mapstructure:"port"`
	// AllowedOrigins lists browser origins accepted on /ws. Empty means
	// same host only, "*" means any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Auth struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// Validation errors.
var (
	ErrNoHost       = errors.New("stove.host is required")
	ErrNoSigningKey = errors.New("auth.signing_key is required")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("stove.port", protocol.TCPPort)
	v.SetDefault("stove.mode", string(protocol.ModeBasic))
	v.SetDefault("stove.id", "1")
	v.SetDefault("stove.poll_interval", protocol.PollInterval)
	v.SetDefault("socket.timeout", protocol.SocketTimeout)
	v.SetDefault("socket.buffer", protocol.SocketBuffer)
	v.SetDefault("socket.timeout_retries", protocol.SocketTimeoutRetries)
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.allowed_origins", []string{})
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", logger.InfoLevel)
	v.SetDefault("log.format", logger.FormatConsole)
	v.SetDefault("auth.token_ttl", time.Hour)
}

// Load reads config.yml from dir (if present), applies env overrides and
// validates the result.
func Load(dir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.AddConfigPath(dir) // <dir>/config.yml
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	// AutomaticEnv only applies to keys viper already knows about
	for _, key := range []string{"stove.host", "auth.signing_key"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the stove client relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Stove.Host) == "" {
		return ErrNoHost
	}
	if c.Stove.Port <= 0 || c.Stove.Port > 65535 {
		return fmt.Errorf("stove.port %d out of range", c.Stove.Port)
	}
	if _, err := protocol.ParseMode(c.Stove.Mode); err != nil {
		return fmt.Errorf("stove.mode: %w", err)
	}
	if c.Stove.PollInterval <= 0 {
		return errors.New("stove.poll_interval must be > 0")
	}
	if c.Socket.Timeout <= 0 {
		return errors.New("socket.timeout must be > 0")
	}
	if c.Socket.Buffer <= 0 {
		return errors.New("socket.buffer must be > 0")
	}
	if c.Socket.TimeoutRetries < 0 {
		return errors.New("socket.timeout_retries must be >= 0")
	}
	if err := (logger.Options{Level: c.Log.Level, Format: c.Log.Format}).Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Auth.SigningKey == "" {
		return ErrNoSigningKey
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be > 0")
	}
	return nil
}
