package config

import "os"

type GithubConfig struct {
	Token string
}

func NewGithubConfig() *GithubConfig {
	return &GithubConfig{
		Token: os.Getenv("GITHUB_TOKEN"),
	}
}
