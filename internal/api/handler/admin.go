package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/onewordstory/internal/api/middleware"
	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/services/admin"
)

// AdminHandler handles user administration endpoints
type AdminHandler struct {
	admin  *admin.Service
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *admin.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: adminService, logger: logger}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}
	response.JSON(w, http.StatusOK, response.UsersResponseFromModel(users))
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	deleted, err := h.admin.DeleteUser(r.Context(), actor.ID, id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.DeleteUserResponse{
		Message: "User deleted successfully",
		User: response.DeletedUser{
			ID:       deleted.ID,
			Username: deleted.Username,
			Email:    deleted.Email,
		},
	})
}

// ResendVerification handles POST /api/admin/users/{id}/resend-verification
func (h *AdminHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	user, err := h.admin.ResendVerification(r.Context(), id)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ResendVerificationResponse{
		Message: "Verification email sent successfully",
		Email:   user.Email,
	})
}
