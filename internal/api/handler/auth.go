package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/onewordstory/internal/api/middleware"
	"github.com/mcoot/onewordstory/internal/api/request"
	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/services/auth"
	"github.com/mcoot/onewordstory/internal/validation"
)

// AuthHandler handles account endpoints
type AuthHandler struct {
	authService *auth.Service
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if verr := validation.Register(req.Email, req.Username, req.Password); verr != nil {
		WriteError(w, verr)
		return
	}

	session, err := h.authService.Register(r.Context(), req.Email, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.AuthResponseFromSession(session,
		"Registration successful. Please check your email to verify your account."))
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if verr := validation.Login(req.Email, req.Password); verr != nil {
		WriteError(w, verr)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session, ""))
}

// Verify handles GET /api/auth/verify/{token}
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.VerifyEmail(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.UserResponse{
		Message: "Email verified successfully",
		User:    response.UserFromModel(user),
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	response.JSON(w, http.StatusOK, response.UserResponse{User: response.UserFromModel(user)})
}
