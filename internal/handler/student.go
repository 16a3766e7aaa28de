package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/rosterd/rosterd/internal/handler/dto"
	"github.com/rosterd/rosterd/internal/model"
	"github.com/rosterd/rosterd/internal/repository"
)

// StudentStore is the persistence surface the student endpoints need.
type StudentStore interface {
	CreateStudent(ctx context.Context, student *model.Student) error
	GetStudentByID(ctx context.Context, id string) (*model.Student, error)
	ListStudents(ctx context.Context) ([]*model.Student, error)
	UpdateStudent(ctx context.Context, student *model.Student) error
	DeleteStudent(ctx context.Context, id string) error
}

// StudentHandler handles student record endpoints.
// These are plain persistence wrappers; no business rules beyond storage.
type StudentHandler struct {
	logger     *slog.Logger
	repository StudentStore
}

// NewStudentHandler creates a new StudentHandler.
func NewStudentHandler(logger *slog.Logger, repo StudentStore) *StudentHandler {
	return &StudentHandler{
		logger:     logger,
		repository: repo,
	}
}

// List handles GET /api/v1/students.
func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.repository.ListStudents(r.Context())
	if err != nil {
		h.logger.Error("failed to list students", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	responses := make([]*dto.StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, dto.ToStudentResponse(student))
	}

	writeJSON(w, http.StatusOK, responses)
}

// Get handles GET /api/v1/students/{id}.
func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	student, err := h.repository.GetStudentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "student not found"})
			return
		}
		h.logger.Error("failed to get student", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStudentResponse(student))
}

// Create handles POST /api/v1/students.
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	now := time.Now().UTC()
	student := &model.Student{
		ID:        ulid.Make().String(),
		Name:      req.Name,
		Email:     req.Email,
		DOB:       req.DOB,
		Gender:    req.Gender,
		StudentNo: req.StudentNo,
		Dept:      req.Dept,
		Year:      req.Year,
		Phone:     req.Phone,
		Address:   req.Address,
		GPA:       req.GPA,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repository.CreateStudent(r.Context(), student); err != nil {
		h.logger.Error("failed to create student", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToStudentResponse(student))
}

// Update handles PUT /api/v1/students/{id}.
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.StudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: msgInvalidBody})
		return
	}

	existing, err := h.repository.GetStudentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "student not found"})
			return
		}
		h.logger.Error("failed to get student", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	student := &model.Student{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		DOB:       req.DOB,
		Gender:    req.Gender,
		StudentNo: req.StudentNo,
		Dept:      req.Dept,
		Year:      req.Year,
		Phone:     req.Phone,
		Address:   req.Address,
		GPA:       req.GPA,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}

	if err := h.repository.UpdateStudent(r.Context(), student); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "student not found"})
			return
		}
		h.logger.Error("failed to update student", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToStudentResponse(student))
}

// Delete handles DELETE /api/v1/students/{id}.
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.repository.DeleteStudent(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "student not found"})
			return
		}
		h.logger.Error("failed to delete student", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: msgInternalError})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
