package config

import (
	"os"
	"time"
)

type RedisConfig struct {
	Enabled  bool
	DB       int
	Url      string
	Password string
	CacheTTL time.Duration
}

func NewRedisConfig() *RedisConfig {
	return &RedisConfig{
		Enabled:  os.Getenv("REDIS_ENABLED") == "true",
		DB:       envIntOr("REDIS_DB", 0),
		Url:      envOr("REDIS_URL", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		CacheTTL: time.Duration(envIntOr("SOURCE_CACHE_TTL_SEC", 300)) * time.Second,
	}
}
