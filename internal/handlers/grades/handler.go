package grades

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/core/services/grading"
	"github.com/legennd48/backend-js-autograder/internal/static/errs"
)

// GradeHandler handles grading API requests
type GradeHandler struct {
	gradingService grading.IGradingService
	submissionRepo secondary.SubmissionRepository
	studentRepo    secondary.StudentRepository
	fetcher        secondary.SourceFetcher
	catalog        secondary.Catalog
	logger         primary.Logger
}

// NewGradeHandler creates a new grade handler
func NewGradeHandler(
	gradingService grading.IGradingService,
	submissionRepo secondary.SubmissionRepository,
	studentRepo secondary.StudentRepository,
	fetcher secondary.SourceFetcher,
	catalog secondary.Catalog,
	logger primary.Logger,
) *GradeHandler {
	return &GradeHandler{
		gradingService: gradingService,
		submissionRepo: submissionRepo,
		studentRepo:    studentRepo,
		fetcher:        fetcher,
		catalog:        catalog,
		logger:         logger,
	}
}

// RegisterRoutes registers the API routes for GradeHandler
func (h *GradeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/grade", h.GradeStudent).Methods("POST")
	router.HandleFunc("/api/grade/batch", h.GradeBatch).Methods("POST")
	router.HandleFunc("/api/grade", h.GetSubmissions).Methods("GET")
	router.HandleFunc("/api/preview", h.PreviewFiles).Methods("GET")
}

// GradeRequest represents a request to grade one student
type GradeRequest struct {
	StudentID uuid.UUID `json:"studentId"`
	Week      int       `json:"week"`
	Session   int       `json:"session"`
}

// GradeStudent handles single-student grading requests
func (h *GradeHandler) GradeStudent(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.StudentID == uuid.Nil || req.Week < 1 || req.Session < 1 {
		http.Error(w, "studentId, week and session are required", http.StatusBadRequest)
		return
	}

	submission, outcome, err := h.gradingService.GradeStudent(r.Context(), req.StudentID, req.Week, req.Session)
	if err != nil {
		if errors.Is(err, errs.StudentNotFound) {
			http.Error(w, "Student not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to grade student", "studentId", req.StudentID, "error", err)
		http.Error(w, "Failed to grade student", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     outcome,
		"submission": submission,
	})
}

// BatchGradeRequest represents a request to grade every active student
type BatchGradeRequest struct {
	Week    int `json:"week"`
	Session int `json:"session"`
}

// GradeBatch handles batch grading requests
func (h *GradeHandler) GradeBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Week < 1 || req.Session < 1 {
		http.Error(w, "week and session are required", http.StatusBadRequest)
		return
	}

	report, err := h.gradingService.GradeBatch(r.Context(), req.Week, req.Session)
	if err != nil {
		h.logger.Error("Failed to grade batch", "week", req.Week, "session", req.Session, "error", err)
		http.Error(w, "Failed to grade batch", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// GetSubmissions handles submission listing requests
func (h *GradeHandler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	var filter secondary.SubmissionFilter

	if idStr := r.URL.Query().Get("studentId"); idStr != "" {
		studentID, err := uuid.Parse(idStr)
		if err != nil {
			http.Error(w, "Invalid student ID", http.StatusBadRequest)
			return
		}
		filter.StudentID = &studentID
	}
	filter.Week, _ = strconv.Atoi(r.URL.Query().Get("week"))
	filter.Session, _ = strconv.Atoi(r.URL.Query().Get("session"))

	submissions, err := h.submissionRepo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list submissions", "error", err)
		http.Error(w, "Failed to list submissions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"submissions": submissions})
}

// FilePreview is one fetched file in a preview response
type FilePreview struct {
	Path    string `json:"path"`
	Found   bool   `json:"found"`
	Content string `json:"content,omitempty"`
}

// PreviewFiles fetches a student's assignment files without grading them
func (h *GradeHandler) PreviewFiles(w http.ResponseWriter, r *http.Request) {
	studentID, err := uuid.Parse(r.URL.Query().Get("studentId"))
	if err != nil {
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return
	}
	week, _ := strconv.Atoi(r.URL.Query().Get("week"))
	session, _ := strconv.Atoi(r.URL.Query().Get("session"))

	student, err := h.studentRepo.Get(r.Context(), studentID)
	if err != nil {
		h.logger.Error("Failed to get student", "error", err)
		http.Error(w, "Failed to get student", http.StatusInternalServerError)
		return
	}
	if student == nil {
		http.Error(w, "Student not found", http.StatusNotFound)
		return
	}

	assignment, ok := h.catalog.Assignment(week, session)
	if !ok {
		http.Error(w, "Assignment not found", http.StatusNotFound)
		return
	}

	repoName := h.catalog.Course().RepoName
	previews := make([]FilePreview, 0, len(assignment.Files))
	for _, file := range assignment.Files {
		path := assignment.Path + "/" + file.Filename
		content, found, err := h.fetcher.FetchFile(r.Context(), student.GithubUsername, repoName, path)
		if err != nil {
			h.logger.Error("Failed to fetch file", "path", path, "error", err)
			http.Error(w, "Failed to fetch files", http.StatusBadGateway)
			return
		}
		previews = append(previews, FilePreview{Path: path, Found: found, Content: content})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"files": previews})
}
