package folders

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-linktrack/pkg/problemdetails"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ActorHeader carries the id of the user making the change.
const ActorHeader = "X-User-Id"

// Handler handles folder role requests
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// UpdateRoleRequest is the body of PATCH /api/v1/folders/{folderId}/users/{userId}
type UpdateRoleRequest struct {
	Role *string `json:"role"`
}

// UpdateUserRole handles PATCH /api/v1/folders/{folderId}/users/{userId}
func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	var body UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, problemdetails.New(
			http.StatusBadRequest,
			problemdetails.TypeInvalidRequest,
			"Invalid Request",
			"Request body must be valid JSON with a 'role' field",
		))
		return
	}

	var roleText string
	if body.Role != nil {
		roleText = *body.Role
	}
	role, err := ParseRole(roleText)
	if err != nil {
		writeProblem(w, problemdetails.NewValidation([]problemdetails.FieldError{
			{Field: "role", Message: "role must be one of owner, editor, viewer or null"},
		}))
		return
	}

	err = h.service.UpdateUserRole(r.Context(), UpdateRoleInput{
		ActorID:  r.Header.Get(ActorHeader),
		FolderID: chi.URLParam(r, "folderId"),
		UserID:   chi.URLParam(r, "userId"),
		Role:     role,
	})
	if err != nil {
		if errors.Is(err, ErrSelfUpdate) {
			writeProblem(w, problemdetails.New(
				http.StatusForbidden,
				problemdetails.TypeForbidden,
				"Forbidden",
				err.Error(),
			))
			return
		}

		h.logger.Error("failed to update folder role", zap.Error(err))
		writeProblem(w, problemdetails.New(
			http.StatusInternalServerError,
			problemdetails.TypeInternalError,
			"Internal Server Error",
			"Failed to update folder role",
		))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeProblem(w http.ResponseWriter, problem *problemdetails.ProblemDetail) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(problem.Status)
	json.NewEncoder(w).Encode(problem)
}
