package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hi-chem22/AFRAN-2025/internal/clients/redis"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/db"
	"github.com/Hi-chem22/AFRAN-2025/internal/data/repos"
	"github.com/Hi-chem22/AFRAN-2025/internal/http"
	"github.com/Hi-chem22/AFRAN-2025/internal/observability"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

const serviceName = "afran"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services
	Metrics  *observability.Metrics

	cache        redis.SessionCache
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(context.Background(), log, cfg.Otel)
	metrics := observability.Init(log, cfg.Metrics)

	theDB, err := db.Open(cfg.DBDriver, cfg.SQLitePath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := metrics.RegisterDB(theDB); err != nil {
		log.Warn("db stats collector not registered", "error", err)
	}

	cache := wireCache(log, cfg)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, cache, metrics)
	handlerset := wireHandlers(theDB, log, cfg, serviceset)
	router := wireRouter(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		Metrics:      metrics,
		cache:        cache,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return errors.New("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	srv := &http.Server{Engine: a.Router}
	return srv.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.Log.Warn("redis close failed", "error", err)
		}
		a.cache = nil
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		a.otelShutdown = nil
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
		a.DB = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
