package commands

import (
	"github.com/wonny/marketboard/pkg/config"
	"github.com/wonny/marketboard/pkg/logger"
	"github.com/wonny/marketboard/pkg/redis"
)

const redisPrefix = "board"

// openRedis connects when enabled; an unreachable server degrades to a disabled client
func openRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	if !cfg.Redis.Enabled {
		return redis.Disabled()
	}

	client, err := redis.New(cfg.Redis)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, continuing without shared cache")
		return redis.Disabled()
	}

	log.WithField("addr", cfg.Redis.Host+":"+cfg.Redis.Port).Info("Connected to redis")
	return client
}
