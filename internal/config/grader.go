package config

import "time"

type GraderConfig struct {
	TestTimeout time.Duration
}

func NewGraderConfig() *GraderConfig {
	return &GraderConfig{
		TestTimeout: time.Duration(envIntOr("TEST_TIMEOUT_MS", 2000)) * time.Millisecond,
	}
}
