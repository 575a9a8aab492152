// Package config defines the runtime configuration of the savings-plan
// service and loads it from defaults, an optional YAML file, a .env file
// and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/iwvelando/savings-plan/internal/cache"
	"github.com/iwvelando/savings-plan/pkg/constants"
	"github.com/iwvelando/savings-plan/pkg/ratelimit"
	"github.com/iwvelando/savings-plan/pkg/validation"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Cache backends.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Config holds all configuration for the savings-plan server.
type Config struct {
	AppName      string        `mapstructure:"app_name"`
	Debug        bool          `mapstructure:"debug"`
	Address      string        `mapstructure:"address"`
	MaxBodySize  string        `mapstructure:"max_body_size"`
	RateLimit    string        `mapstructure:"rate_limit"`
	CacheTTL     int           `mapstructure:"cache_ttl"` // seconds
	CacheBackend string        `mapstructure:"cache_backend"`
	Redis        RedisConfig   `mapstructure:"redis"`
	CORS         CORSConfig    `mapstructure:"cors"`
	Logging      LoggingConfig `mapstructure:"logging"`

	maxBodyBytes int64
	rateRule     ratelimit.Rule
}

// RedisConfig holds the cache backend coordinates.
type RedisConfig struct {
	// Required makes an unreachable backend at startup fatal.
	Required     bool          `mapstructure:"required"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	DB           int           `mapstructure:"db"`
	Password     string        `mapstructure:"password"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// CORSConfig lists what cross-origin callers may do.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputFile string `mapstructure:"output_file"` // optional file output
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", constants.DefaultAppName)
	v.SetDefault("debug", false)
	v.SetDefault("address", constants.DefaultServerAddress)
	v.SetDefault("max_body_size", "64K")
	v.SetDefault("rate_limit", constants.DefaultRateLimit)
	v.SetDefault("cache_ttl", constants.DefaultCacheTTLSeconds)
	v.SetDefault("cache_backend", BackendRedis)

	v.SetDefault("redis.required", true)
	v.SetDefault("redis.host", constants.DefaultRedisHost)
	v.SetDefault("redis.port", constants.DefaultRedisPort)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.dial_timeout", constants.DefaultDialTimeout)
	v.SetDefault("redis.read_timeout", constants.DefaultIOTimeout)
	v.SetDefault("redis.write_timeout", constants.DefaultIOTimeout)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "https://yourfrontend.com"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})

	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.output_file", "")
}

// Load builds the configuration. A missing config file or env file is not
// an error; an empty path skips that source.
func Load(configPath, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			v.SetConfigFile(configPath)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file, %s", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Error lists every invalid setting.
type Error struct {
	Fields []validation.FieldError
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.Fields {
		parts = append(parts, field.Error())
	}
	return "configuration error: " + strings.Join(parts, "; ")
}

func (c *Config) normalize() error {
	c.AppName = strings.TrimSpace(c.AppName)
	if c.AppName == "" {
		c.AppName = constants.DefaultAppName
	}
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}
	c.CacheBackend = strings.ToLower(strings.TrimSpace(c.CacheBackend))
	if c.Logging.Level == "" && c.Debug {
		c.Logging.Level = "debug"
	}

	failures := validation.Collect(
		validation.Matches("rate_limit", c.RateLimit, ratelimit.Expression,
			"'number/time_unit' (e.g., '5/minute', '100/hour')"),
		validation.IntBetween("redis.port", c.Redis.Port, 1, 65535),
		validation.IntBetween("redis.db", c.Redis.DB, 0, constants.MaxRedisDB),
		validation.AtLeast("cache_ttl", c.CacheTTL, 1),
		oneOf("cache_backend", c.CacheBackend, BackendRedis, BackendMemory, BackendNone),
		oneOf("logging.level", c.Logging.Level, "", "debug", "info", "warn", "warning", "error"),
		oneOf("logging.format", c.Logging.Format, "", "json", "console"),
	)

	if size, err := ParseBodySize(c.MaxBodySize); err != nil {
		failures = append(failures, validation.FieldError{Field: "max_body_size", Constraint: err.Error()})
	} else {
		c.maxBodyBytes = size
	}

	if len(failures) > 0 {
		return &Error{Fields: failures}
	}

	rule, err := ratelimit.Parse(c.RateLimit)
	if err != nil {
		return &Error{Fields: []validation.FieldError{{Field: "rate_limit", Constraint: err.Error()}}}
	}
	c.rateRule = rule
	return nil
}

func oneOf(field, value string, allowed ...string) *validation.FieldError {
	for _, candidate := range allowed {
		if value == candidate {
			return nil
		}
	}
	return &validation.FieldError{
		Field:      field,
		Constraint: fmt.Sprintf("must be one of %s, got %q", strings.Join(nonEmpty(allowed), ", "), value),
	}
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// MaxBodyBytes returns the request body limit in bytes.
func (c *Config) MaxBodyBytes() int64 {
	return c.maxBodyBytes
}

// RateRule returns the parsed rate limit.
func (c *Config) RateRule() ratelimit.Rule {
	return c.rateRule
}

// TTL returns the cache entry lifetime.
func (c *Config) TTL() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// RedisOptions converts the backend settings for the cache package.
func (c *Config) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{
		Host:         c.Redis.Host,
		Port:         c.Redis.Port,
		DB:           c.Redis.DB,
		Password:     c.Redis.Password,
		DialTimeout:  c.Redis.DialTimeout,
		ReadTimeout:  c.Redis.ReadTimeout,
		WriteTimeout: c.Redis.WriteTimeout,
	}
}
