package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/savings-plan/pkg/constants"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yaml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "Finance App" {
		t.Errorf("expected default app name, got %q", cfg.AppName)
	}
	if cfg.Address != constants.DefaultServerAddress {
		t.Errorf("expected default address, got %q", cfg.Address)
	}
	if cfg.Redis.Host != "localhost" || cfg.Redis.Port != 6379 || cfg.Redis.DB != 0 {
		t.Errorf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Redis.Password != "" {
		t.Errorf("expected no password by default")
	}
	if !cfg.Redis.Required {
		t.Errorf("expected redis to be required by default")
	}
	if cfg.CacheBackend != BackendRedis {
		t.Errorf("expected redis backend, got %q", cfg.CacheBackend)
	}
	if cfg.TTL() != time.Hour {
		t.Errorf("expected one hour TTL, got %v", cfg.TTL())
	}
	if cfg.RateRule().Count != 5 || cfg.RateRule().Period != time.Minute {
		t.Errorf("expected 5/minute, got %+v", cfg.RateRule())
	}
	if cfg.MaxBodyBytes() != constants.DefaultMaxBodySizeBytes {
		t.Errorf("expected default body size, got %d", cfg.MaxBodyBytes())
	}
	if cfg.Redis.DialTimeout != 2*time.Second || cfg.Redis.ReadTimeout != time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg.Redis)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected default CORS origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "" {
		t.Errorf("expected empty logging level, got %q", cfg.Logging.Level)
	}
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")

	contents := []byte(`app_name: Savings Planner
address: 127.0.0.1:9000
max_body_size: 2K
rate_limit: 100/hour
cache_ttl: 60
redis:
  host: cache.internal
  port: 6380
  db: 2
  password: hunter2
  dial_timeout: 500ms
cors:
  allowed_origins:
    - https://planner.example
logging:
  level: warn
  format: console
`)
	if err := os.WriteFile(path, contents, 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AppName != "Savings Planner" || cfg.Address != "127.0.0.1:9000" {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.MaxBodyBytes() != 2*1024 {
		t.Errorf("expected 2K body limit, got %d", cfg.MaxBodyBytes())
	}
	if cfg.RateRule().Count != 100 || cfg.RateRule().Period != time.Hour {
		t.Errorf("expected 100/hour, got %+v", cfg.RateRule())
	}
	if cfg.TTL() != time.Minute {
		t.Errorf("expected 60s TTL, got %v", cfg.TTL())
	}

	opts := cfg.RedisOptions()
	if opts.Addr() != "cache.internal:6380" || opts.DB != 2 || opts.Password != "hunter2" {
		t.Errorf("unexpected redis options: %+v", opts)
	}
	if opts.DialTimeout != 500*time.Millisecond {
		t.Errorf("expected 500ms dial timeout, got %v", opts.DialTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "https://planner.example" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Logging.Level != "warn" || cfg.Logging.Format != "console" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server-config.yaml")
	if err := os.WriteFile(path, []byte("redis:\n  host: from-file\n"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	t.Setenv("REDIS_HOST", "from-env")
	t.Setenv("REDIS_PORT", "7000")
	t.Setenv("DEBUG", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Redis.Host != "from-env" || cfg.Redis.Port != 7000 {
		t.Errorf("expected env overrides, got %+v", cfg.Redis)
	}
	if !cfg.Debug || cfg.Logging.Level != "debug" {
		t.Errorf("expected debug mode to default the log level, got debug=%v level=%q", cfg.Debug, cfg.Logging.Level)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Errorf("expected two origins from env, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("RATE_LIMIT=20/day\nCACHE_TTL=120\n"), 0600); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Unsetenv("RATE_LIMIT")
		_ = os.Unsetenv("CACHE_TTL")
	})

	cfg, err := Load("", envPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RateRule().Count != 20 || cfg.RateRule().Period != 24*time.Hour {
		t.Errorf("expected 20/day from env file, got %+v", cfg.RateRule())
	}
	if cfg.TTL() != 2*time.Minute {
		t.Errorf("expected 120s TTL from env file, got %v", cfg.TTL())
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{"Port zero", map[string]string{"REDIS_PORT": "0"}, "redis.port"},
		{"Port too large", map[string]string{"REDIS_PORT": "65536"}, "redis.port"},
		{"Database too large", map[string]string{"REDIS_DB": "16"}, "redis.db"},
		{"Negative database", map[string]string{"REDIS_DB": "-1"}, "redis.db"},
		{"Bad rate limit", map[string]string{"RATE_LIMIT": "5/second"}, "rate_limit"},
		{"Zero TTL", map[string]string{"CACHE_TTL": "0"}, "cache_ttl"},
		{"Unknown backend", map[string]string{"CACHE_BACKEND": "memcached"}, "cache_backend"},
		{"Unknown log level", map[string]string{"LOGGING_LEVEL": "trace"}, "logging.level"},
		{"Bad body size", map[string]string{"MAX_BODY_SIZE": "1TB"}, "max_body_size"},
		{"Zero body size", map[string]string{"MAX_BODY_SIZE": "0"}, "max_body_size"},
		{"Body size too large", map[string]string{"MAX_BODY_SIZE": "64M"}, "max_body_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			_, err := Load("", "")
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if cfgErr.Fields[0].Field != tt.field {
				t.Fatalf("expected %s to be reported, got %+v", tt.field, cfgErr.Fields)
			}
			if !strings.HasPrefix(err.Error(), "configuration error: ") {
				t.Errorf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestLoadValidationBoundariesAccepted(t *testing.T) {
	t.Setenv("REDIS_PORT", "65535")
	t.Setenv("REDIS_DB", "15")
	t.Setenv("RATE_LIMIT", "1/minute")

	if _, err := Load("", ""); err != nil {
		t.Fatalf("expected boundary values to load, got %v", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("redis: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	if _, err := Load(path, ""); err == nil {
		t.Fatal("expected error for invalid YAML but got nil")
	}
}
