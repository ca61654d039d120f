package students

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
	"github.com/legennd48/backend-js-autograder/internal/domain"
)

// StudentHandler handles student API requests
type StudentHandler struct {
	studentRepo secondary.StudentRepository
	logger      primary.Logger
}

// NewStudentHandler creates a new student handler
func NewStudentHandler(studentRepo secondary.StudentRepository, logger primary.Logger) *StudentHandler {
	return &StudentHandler{
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers the API routes for StudentHandler
func (h *StudentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/students", h.CreateStudent).Methods("POST")
	router.HandleFunc("/api/students", h.GetStudents).Methods("GET")
	router.HandleFunc("/api/students/{studentId}", h.GetStudent).Methods("GET")
	router.HandleFunc("/api/students/{studentId}", h.UpdateStudent).Methods("PUT")
	router.HandleFunc("/api/students/{studentId}", h.DeactivateStudent).Methods("DELETE")
}

// CreateStudentRequest represents a request to enroll a student
type CreateStudentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GithubUsername string `json:"githubUsername"`
}

// CreateStudent handles student enrollment requests
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.GithubUsername) == "" {
		http.Error(w, "name and githubUsername are required", http.StatusBadRequest)
		return
	}

	student := domain.NewStudent(req.Name, req.Email, req.GithubUsername)
	if err := h.studentRepo.Create(r.Context(), student); err != nil {
		h.logger.Error("Failed to create student", "error", err)
		http.Error(w, "Failed to create student", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(student)
}

// GetStudents handles student listing requests
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	var students []*domain.Student
	var err error

	if r.URL.Query().Get("active") == "true" {
		students, err = h.studentRepo.GetActive(r.Context())
	} else {
		students, err = h.studentRepo.GetAll(r.Context())
	}

	if err != nil {
		h.logger.Error("Failed to list students", "error", err)
		http.Error(w, "Failed to list students", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]*domain.Student{"students": students})
}

// GetStudent handles single student retrieval requests
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.parseStudentID(w, r)
	if !ok {
		return
	}

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

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(student)
}

// UpdateStudentRequest represents a request to update a student
type UpdateStudentRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	GithubUsername string `json:"githubUsername"`
	IsActive       *bool  `json:"isActive"`
}

// UpdateStudent handles student update requests
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.parseStudentID(w, r)
	if !ok {
		return
	}

	var req UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode request", "error", err)
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

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

	if req.Name != "" {
		student.Name = req.Name
	}
	if req.Email != "" {
		student.Email = req.Email
	}
	if req.GithubUsername != "" {
		student.GithubUsername = req.GithubUsername
	}
	if req.IsActive != nil {
		student.IsActive = *req.IsActive
	}

	if err := h.studentRepo.Update(r.Context(), student); err != nil {
		h.logger.Error("Failed to update student", "error", err)
		http.Error(w, "Failed to update student", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(student)
}

// DeactivateStudent handles student deactivation requests
func (h *StudentHandler) DeactivateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, ok := h.parseStudentID(w, r)
	if !ok {
		return
	}

	if err := h.studentRepo.Deactivate(r.Context(), studentID); err != nil {
		h.logger.Error("Failed to deactivate student", "error", err)
		http.Error(w, "Failed to deactivate student", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *StudentHandler) parseStudentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vars := mux.Vars(r)
	idStr := vars["studentId"]

	studentID, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.Error("Invalid student ID", "id", idStr)
		http.Error(w, "Invalid student ID", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return studentID, true
}
