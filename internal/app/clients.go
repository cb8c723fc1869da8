package app

import (
	"github.com/Hi-chem22/AFRAN-2025/internal/clients/redis"
	"github.com/Hi-chem22/AFRAN-2025/internal/platform/logger"
)

// wireCache returns nil when REDIS_ADDR is unset or redis is unreachable;
// the session service then reads straight from the database.
func wireCache(log *logger.Logger, cfg Config) redis.SessionCache {
	if cfg.RedisAddr == "" {
		return nil
	}
	log.Info("Wiring redis session cache...")
	cache, err := redis.NewSessionCache(log, cfg.CacheTTL)
	if err != nil {
		log.Warn("redis session cache disabled", "error", err)
		return nil
	}
	return cache
}
