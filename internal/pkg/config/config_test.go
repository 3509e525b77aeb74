package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.App.Name != "mathnodes" || cfg.App.Environment != "development" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Errorf("server addr = %s", cfg.Server.Addr())
	}
	if cfg.Worker.NodeTimeout != 10*time.Second {
		t.Errorf("node timeout = %s", cfg.Worker.NodeTimeout)
	}
	if cfg.Server.RateLimit != 50 || cfg.Server.RateBurst != 100 {
		t.Errorf("server rate limit = %v/%d", cfg.Server.RateLimit, cfg.Server.RateBurst)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("request timeout = %s", cfg.Server.RequestTimeout)
	}
	if cfg.Redis.Enabled || cfg.Database.Enabled {
		t.Error("backends should be disabled by default")
	}
	if cfg.Redis.Addr() != "localhost:6379" {
		t.Errorf("redis addr = %s", cfg.Redis.Addr())
	}
	if cfg.Cache.TTL != time.Hour || cfg.Cache.RecordTTL != 24*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Worker.Concurrency != 10 || cfg.Worker.RateLimit != 100 || cfg.Worker.Burst != 20 {
		t.Errorf("worker = %+v", cfg.Worker)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Setenv("MATHNODES_SERVER_PORT", "9090")
	t.Setenv("MATHNODES_REDIS_ENABLED", "true")
	t.Setenv("MATHNODES_APP_ENVIRONMENT", "production")
	t.Setenv("MATHNODES_CACHE_TTL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis should be enabled from the environment")
	}
	if cfg.App.Environment != "production" {
		t.Errorf("environment = %s", cfg.App.Environment)
	}
	if cfg.Cache.TTL != 5*time.Minute {
		t.Errorf("cache ttl = %s", cfg.Cache.TTL)
	}
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if c.DSN() != want {
		t.Errorf("DSN() = %q, want %q", c.DSN(), want)
	}
}
