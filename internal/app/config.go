package app

import (
	"time"

	"github.com/Hi-chem22/AFRAN-2025/internal/http/middleware"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/envutil"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

type Config struct {
	Port           string
	Environment    string
	Version        string
	DBDriver       string
	SQLitePath     string
	ImportWorkers  int
	MaxUploadBytes int64
	RedisAddr      string
	CacheTTL       time.Duration
	CORSOrigins    []string
	Metrics        bool
	Otel           observability.OtelConfig
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:           envutil.String("PORT", "8087"),
		Environment:    envutil.String("APP_ENV", "development"),
		Version:        envutil.String("APP_VERSION", "dev"),
		DBDriver:       envutil.String("DB_DRIVER", "postgres"),
		SQLitePath:     envutil.String("SQLITE_PATH", "afran.db"),
		ImportWorkers:  envutil.Int("IMPORT_WORKERS", 4),
		MaxUploadBytes: int64(envutil.Int("IMPORT_MAX_UPLOAD_MB", 10)) << 20,
		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		CacheTTL:       time.Duration(envutil.Int("REDIS_CACHE_TTL_SECONDS", 60)) * time.Second,
		CORSOrigins:    envutil.List("CORS_ALLOW_ORIGINS", middleware.DefaultOrigins),
		Metrics:        envutil.Bool("METRICS_ENABLED", false),
	}
	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false),
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		Headers:     envutil.Pairs("OTEL_EXPORTER_OTLP_HEADERS"),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
	}
	if cfg.ImportWorkers < 1 {
		cfg.ImportWorkers = 1
	}
	if log != nil {
		log.Info("Config loaded",
			"port", cfg.Port,
			"env", cfg.Environment,
			"db_driver", cfg.DBDriver,
			"import_workers", cfg.ImportWorkers,
			"redis", cfg.RedisAddr != "",
			"metrics", cfg.Metrics,
			"tracing", cfg.Otel.Enabled,
		)
	}
	return cfg
}
