package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ServerPort == "" {
		t.Fatalf("expected default server port")
	}
	if cfg.PostgresURL == "" {
		t.Fatalf("expected default postgres url")
	}
	if cfg.PostgresMaxConns != 10 {
		t.Fatalf("expected default max conns, got %d", cfg.PostgresMaxConns)
	}
	if cfg.GeminiModel != "gemini-pro" {
		t.Fatalf("expected default gemini model")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9000")
	t.Setenv("POSTGRES_URL", "postgres://example")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("S3_BUCKET", "camp-images")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "42")

	cfg := Load()
	if cfg.ServerPort != ":9000" {
		t.Fatalf("expected override port")
	}
	if cfg.PostgresURL != "postgres://example" {
		t.Fatalf("expected override postgres")
	}
	if cfg.RedisAddr != "redis:6379" {
		t.Fatalf("expected override redis")
	}
	if cfg.JWTSecret != "secret" {
		t.Fatalf("expected override secret")
	}
	if !cfg.AutoMigrate {
		t.Fatalf("expected auto migrate")
	}
	if cfg.S3Bucket != "camp-images" {
		t.Fatalf("expected override bucket")
	}
	if cfg.RateLimitPerMinute != 42 {
		t.Fatalf("expected override rate limit")
	}
}
