package config

import "os"

type SMTPConfig struct {
	Enabled  bool
	Addr     string
	Username string
	Password string
	From     string
}

func NewSMTPConfig() *SMTPConfig {
	return &SMTPConfig{
		Enabled:  os.Getenv("EMAIL_ENABLED") == "true",
		Addr:     envOr("SMTP_ADDR", "localhost:587"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     envOr("SMTP_FROM", "JavaScript Fundamentals <no-reply@localhost>"),
	}
}
