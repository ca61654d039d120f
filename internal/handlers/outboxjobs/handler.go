package outboxjobs

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/services/outbox"
)

// OutboxHandler handles email outbox API requests
type OutboxHandler struct {
	outboxService outbox.IOutboxService
	logger        primary.Logger
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outboxService outbox.IOutboxService, logger primary.Logger) *OutboxHandler {
	return &OutboxHandler{
		outboxService: outboxService,
		logger:        logger,
	}
}

// RegisterRoutes registers the API routes for OutboxHandler
func (h *OutboxHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/email/outbox/process", h.ProcessBatch).Methods("POST")
	router.HandleFunc("/api/email/outbox", h.ListJobs).Methods("GET")
}

// ProcessBatch triggers one processing pass over due jobs
func (h *OutboxHandler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	summary, err := h.outboxService.ProcessBatch(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to process outbox batch", "error", err)
		http.Error(w, "Failed to process outbox batch", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// ListJobs handles outbox inspection requests
func (h *OutboxHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	jobs, err := h.outboxService.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list outbox jobs", "error", err)
		http.Error(w, "Failed to list outbox jobs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"jobs": jobs})
}
