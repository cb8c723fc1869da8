package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_DRIVER", "IMPORT_WORKERS", "IMPORT_MAX_UPLOAD_MB", "REDIS_ADDR", "REDIS_CACHE_TTL_SECONDS", "CORS_ALLOW_ORIGINS"} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.Port != "8087" || cfg.DBDriver != "postgres" || cfg.ImportWorkers != 4 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes != 10<<20 || cfg.CacheTTL != time.Minute {
		t.Fatalf("unexpected limits: upload=%d ttl=%s", cfg.MaxUploadBytes, cfg.CacheTTL)
	}
	if len(cfg.CORSOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("IMPORT_WORKERS", "0")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	cfg := LoadConfig(nil)
	if cfg.Port != "9000" || cfg.DBDriver != "sqlite" {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
	if cfg.ImportWorkers != 1 {
		t.Fatalf("workers not clamped: %d", cfg.ImportWorkers)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigObservability(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "yes")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "api-key=abc, broken, =x")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")
	t.Setenv("APP_ENV", "staging")
	cfg := LoadConfig(nil)
	if !cfg.Metrics || !cfg.Otel.Enabled {
		t.Fatalf("observability flags ignored: %+v", cfg)
	}
	o := cfg.Otel
	if o.ServiceName != serviceName || o.Environment != "staging" || o.Endpoint != "collector:4318" || o.SampleRatio != 0.5 {
		t.Fatalf("unexpected otel config: %+v", o)
	}
	if len(o.Headers) != 1 || o.Headers["api-key"] != "abc" {
		t.Fatalf("unexpected otel headers: %v", o.Headers)
	}

	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SAMPLER_RATIO", "lots")
	cfg = LoadConfig(nil)
	if cfg.Otel.Enabled || cfg.Otel.SampleRatio != 0.1 {
		t.Fatalf("unexpected otel defaults: %+v", cfg.Otel)
	}
}
