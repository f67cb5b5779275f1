package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/onewordstory/internal/api/middleware"
	"github.com/mcoot/onewordstory/internal/api/request"
	"github.com/mcoot/onewordstory/internal/api/response"
	"github.com/mcoot/onewordstory/internal/services/story"
	"github.com/mcoot/onewordstory/internal/validation"
)

// StoryHandler handles story and turn endpoints
type StoryHandler struct {
	stories *story.Controller
	logger  *slog.Logger
}

// NewStoryHandler creates a new story handler
func NewStoryHandler(stories *story.Controller, logger *slog.Logger) *StoryHandler {
	return &StoryHandler{stories: stories, logger: logger}
}

// pathID returns the validated {id} path variable
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := mux.Vars(r)["id"]
	if verr := validation.ID(id); verr != nil {
		WriteError(w, verr)
		return "", false
	}
	return id, true
}

// List handles GET /api/stories
func (h *StoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	summaries, err := h.stories.ListStories(r.Context(), user.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	resp := response.StoriesResponse{Stories: make([]response.StorySummary, len(summaries))}
	for i := range summaries {
		resp.Stories[i] = response.StorySummaryFromService(&summaries[i])
	}
	response.JSON(w, http.StatusOK, resp)
}

// Create handles POST /api/stories
func (h *StoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateStoryRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if verr := validation.CreateStory(req.Title, req.InitialWord); verr != nil {
		WriteError(w, verr)
		return
	}

	summary, err := h.stories.CreateStory(r.Context(), user.ID, req.Title, req.InitialWord)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.StoryResponse{Story: response.StorySummaryFromService(summary)})
}

// Get handles GET /api/stories/{id}
func (h *StoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.stories.GetStory(r.Context(), id, user.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.StoryDetailResponse{Story: response.StoryDetailFromService(detail)})
}

// AddWord handles POST /api/stories/{id}/words
func (h *StoryHandler) AddWord(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req request.AddWordRequest
	if err := request.Decode(r, &req); err != nil {
		WriteError(w, NewInvalidRequestError("Invalid request body"))
		return
	}
	if verr := validation.Word(req.Word); verr != nil {
		WriteError(w, verr)
		return
	}

	word, err := h.stories.AddWord(r.Context(), id, user.ID, req.Word)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.WordResponse{Word: response.WordFromService(word)})
}

// End handles POST /api/stories/{id}/end
func (h *StoryHandler) End(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	endedBy, err := h.stories.EndStory(r.Context(), id, user.ID)
	if err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.EndStoryResponseFromService(endedBy))
}

// Delete handles DELETE /api/stories/{id}
func (h *StoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.stories.DeleteStory(r.Context(), id, user.ID); err != nil {
		writeError(h.logger, w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.MessageResponse{Message: "Story deleted successfully"})
}
