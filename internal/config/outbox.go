package config

import "time"

type OutboxConfig struct {
	ProcessInterval time.Duration
	BatchLimit      int
}

func NewOutboxConfig() *OutboxConfig {
	return &OutboxConfig{
		ProcessInterval: time.Duration(envIntOr("OUTBOX_PROCESS_INTERVAL_SEC", 60)) * time.Second,
		BatchLimit:      envIntOr("OUTBOX_BATCH_LIMIT", 20),
	}
}
