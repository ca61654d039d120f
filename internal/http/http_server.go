package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/core/services/grading"
	"github.com/legennd48/backend-js-autograder/internal/core/services/outbox"
	"github.com/legennd48/backend-js-autograder/internal/handlers/assignments"
	"github.com/legennd48/backend-js-autograder/internal/handlers/grades"
	"github.com/legennd48/backend-js-autograder/internal/handlers/outboxjobs"
	"github.com/legennd48/backend-js-autograder/internal/handlers/students"
)

type ServiceProvider struct {
	gradingService grading.IGradingService
	outboxService  outbox.IOutboxService
	studentRepo    secondary.StudentRepository
	submissionRepo secondary.SubmissionRepository
	fetcher        secondary.SourceFetcher
	catalog        secondary.Catalog
}

func NewServiceProvider(
	gradingService grading.IGradingService,
	outboxService outbox.IOutboxService,
	studentRepo secondary.StudentRepository,
	submissionRepo secondary.SubmissionRepository,
	fetcher secondary.SourceFetcher,
	catalog secondary.Catalog,
) *ServiceProvider {
	return &ServiceProvider{
		gradingService: gradingService,
		outboxService:  outboxService,
		studentRepo:    studentRepo,
		submissionRepo: submissionRepo,
		fetcher:        fetcher,
		catalog:        catalog,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()
	students.NewStudentHandler(s.ServiceProvider.studentRepo, s.logger).RegisterRoutes(r)
	grades.NewGradeHandler(
		s.ServiceProvider.gradingService,
		s.ServiceProvider.submissionRepo,
		s.ServiceProvider.studentRepo,
		s.ServiceProvider.fetcher,
		s.ServiceProvider.catalog,
		s.logger,
	).RegisterRoutes(r)
	outboxjobs.NewOutboxHandler(s.ServiceProvider.outboxService, s.logger).RegisterRoutes(r)
	assignments.NewAssignmentHandler(s.ServiceProvider.catalog, s.logger).RegisterRoutes(r)
	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	// Set up server
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine
	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop() {
	s.logger.Info("Shutting down http server...")
	if s.srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down http server", "error", err)
	}
}
