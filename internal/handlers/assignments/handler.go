package assignments

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/handlers/response"
)

// AssignmentHandler serves the assignment catalog
type AssignmentHandler struct {
	catalog secondary.Catalog
	logger  primary.Logger
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(catalog secondary.Catalog, logger primary.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the API routes for AssignmentHandler
func (h *AssignmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/assignments", h.ListAssignments).Methods("GET")
}

// ListAssignments handles catalog listing requests
func (h *AssignmentHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	response.WriteSuccess(w, map[string]interface{}{
		"course":      h.catalog.Course(),
		"assignments": h.catalog.List(),
	})
}
