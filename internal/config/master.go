package config

import (
	"os"
	"strconv"
)

type AppConfig struct {
	DebugMode      bool
	PostgresConfig *PostgresConfig
	RedisConfig    *RedisConfig
	SMTPConfig     *SMTPConfig
	GithubConfig   *GithubConfig
	GraderConfig   *GraderConfig
	OutboxConfig   *OutboxConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:      os.Getenv("DEBUG_MODE") == "true",
		PostgresConfig: NewPostgresConfig(),
		RedisConfig:    NewRedisConfig(),
		SMTPConfig:     NewSMTPConfig(),
		GithubConfig:   NewGithubConfig(),
		GraderConfig:   NewGraderConfig(),
		OutboxConfig:   NewOutboxConfig(),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
