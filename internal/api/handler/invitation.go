package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/onewordstory/internal/api/middleware"
	"github.com/mcoot/onewordstory/internal/api/request"
	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/services/invitation"
	"github.com/mcoot/onewordstory/internal/validation"
)

// InvitationHandler handles invitation endpoints
type InvitationHandler struct {
	engine *invitation.Engine
	logger *slog.Logger
}

// NewInvitationHandler creates a new invitation handler
func NewInvitationHandler(engine *invitation.Engine, logger *slog.Logger) *InvitationHandler {
	return &InvitationHandler{engine: engine, logger: logger}
}

// Create handles POST /api/invitations
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateInvitationsRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if verr := validation.Invite(req.StoryID, req.Emails); verr != nil {
		WriteError(w, verr)
		return
	}

	result, err := h.engine.CreateInvitations(r.Context(), req.StoryID, user.ID, req.Emails)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CreateInvitationsResponseFromService(result))
}

// Accept handles GET /api/invitations/{token}
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	joined, err := h.engine.AcceptInvitation(r.Context(), mux.Vars(r)["token"], user)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AcceptInvitationResponse{
		Message: "Successfully joined the story",
		Story:   response.JoinedStory{ID: joined.ID, Title: joined.Title},
	})
}

// Participants handles GET /api/invitations/stories/{id}/participants
func (h *InvitationHandler) Participants(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	participants, err := h.engine.GetParticipants(r.Context(), id, user.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ParticipantsResponseFromService(participants))
}

// Pending handles GET /api/invitations/stories/{id}/pending
func (h *InvitationHandler) Pending(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	pending, err := h.engine.GetPendingInvitations(r.Context(), id, user.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.PendingInvitationsResponseFromService(pending))
}
