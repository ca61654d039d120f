package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/legennd48/backend-js-autograder/internal/adapter/github"
	"github.com/legennd48/backend-js-autograder/internal/adapter/postgres/outboxrepository"
	"github.com/legennd48/backend-js-autograder/internal/adapter/postgres/studentrepository"
	"github.com/legennd48/backend-js-autograder/internal/adapter/postgres/submissionrepository"
	"github.com/legennd48/backend-js-autograder/internal/adapter/redis/sourcecache"
	"github.com/legennd48/backend-js-autograder/internal/adapter/sandbox"
	"github.com/legennd48/backend-js-autograder/internal/adapter/smtp"
	"github.com/legennd48/backend-js-autograder/internal/catalog"
	"github.com/legennd48/backend-js-autograder/internal/config"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/core/services/grading"
	"github.com/legennd48/backend-js-autograder/internal/core/services/outbox"
	logger2 "github.com/legennd48/backend-js-autograder/internal/global/logger"
	http2 "github.com/legennd48/backend-js-autograder/internal/http"
	"github.com/legennd48/backend-js-autograder/internal/outboxengine"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	logger2.Info("Starting autograder service")

	logger := logger2.Logger

	sysCfg := config.NewSystemConfig()

	db, err := setupDatabase(sysCfg.PostgresConfig.Url)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	specCatalog, err := catalog.Load()
	if err != nil {
		panic(err)
	}

	// SECONDARY PORTS
	studentRepo := studentrepository.New(db, logger, sysCfg.PostgresConfig.Schema)
	submissionRepo := submissionrepository.NewSubmissionRepository(db, logger)
	outboxRepo := outboxrepository.NewOutboxRepository(db, logger)

	var fetcher secondary.SourceFetcher = github.NewFetcher(sysCfg.GithubConfig.Token, logger)
	if sysCfg.RedisConfig.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     sysCfg.RedisConfig.Url,
			Password: sysCfg.RedisConfig.Password,
			DB:       sysCfg.RedisConfig.DB,
		})
		defer redisClient.Close()
		fetcher = sourcecache.NewCachedFetcher(fetcher, redisClient, sysCfg.RedisConfig.CacheTTL, logger)
	}

	mailer, err := smtp.NewMailer(
		sysCfg.SMTPConfig.Addr,
		sysCfg.SMTPConfig.Username,
		sysCfg.SMTPConfig.Password,
		sysCfg.SMTPConfig.From,
		logger,
	)
	if err != nil {
		panic(err)
	}

	executor := sandbox.NewExecutor()

	// services
	outboxSvc := outbox.NewOutboxService(
		outboxRepo, studentRepo, submissionRepo,
		mailer, specCatalog, logger,
		sysCfg.SMTPConfig.Enabled,
	)
	gradingSvc := grading.NewGradingService(
		fetcher, executor, specCatalog,
		studentRepo, submissionRepo,
		outboxSvc, logger,
		sysCfg.GraderConfig.TestTimeout,
	)
	serviceProvider := http2.NewServiceProvider(
		gradingSvc, outboxSvc,
		studentRepo, submissionRepo,
		fetcher, specCatalog,
	)

	// server
	httpServer := http2.NewServer(8082, "autograder", *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}

	ctxBg, cancelBg := context.WithCancel(context.Background())
	httpServer.Start(ctxBg)

	engine := outboxengine.NewOutboxEngine(sysCfg.OutboxConfig, outboxSvc, logger)
	if !sysCfg.DebugMode {
		engine.Start(ctxBg)
	}

	<-quit
	logger.Info("Shutting down server...")

	cancelBg()
	httpServer.Stop()

	logger.Info("successfully shutdown server")
}

// setupDatabase sets up the PostgreSQL connection
func setupDatabase(connStr string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

func InitReader() {
	environment := ""
	if len(os.Args) < 2 {
		log.Fatalf("Env not supplied in argument")
	} else {
		environment = os.Args[1]
	}

	err := godotenv.Load(environment + ".env")
	if err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
