package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type PlazaHandler struct {
	plaza *service.PlazaService
}

func NewPlazaHandler(plaza *service.PlazaService) *PlazaHandler {
	return &PlazaHandler{plaza: plaza}
}

type SubmitPromptRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Params      datatypes.JSON `json:"params"`
}

type SubmitStoryRequest struct {
	Title   string         `json:"title"`
	Summary string         `json:"summary"`
	Content datatypes.JSON `json:"content"`
}

type MineResponse struct {
	Prompts []*domain.Prompt `json:"prompts"`
	Stories []*domain.Story  `json:"stories"`
}

func (h *PlazaHandler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	prompts, err := h.plaza.ListApprovedPrompts(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (h *PlazaHandler) ListStories(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	stories, err := h.plaza.ListApprovedStories(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (h *PlazaHandler) SubmitPrompt(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req SubmitPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	prompt, err := h.plaza.SubmitPrompt(r.Context(), identity.UserID, service.SubmitPromptInput{
		Title:       req.Title,
		Description: req.Description,
		Params:      req.Params,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, prompt)
}

func (h *PlazaHandler) SubmitStory(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req SubmitStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	story, err := h.plaza.SubmitStory(r.Context(), identity.UserID, service.SubmitStoryInput{
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, story)
}

// Mine shows the caller's own submissions regardless of status, including
// the rejection reason.
func (h *PlazaHandler) Mine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	mine, err := h.plaza.ListMine(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MineResponse{Prompts: mine.Prompts, Stories: mine.Stories})
}

func (h *PlazaHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, kind, id, ok := h.targetFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.plaza.Like(r.Context(), identity.UserID, kind, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PlazaHandler) Download(w http.ResponseWriter, r *http.Request) {
	identity, kind, id, ok := h.targetFromRequest(w, r)
	if !ok {
		return
	}

	if err := h.plaza.Download(r.Context(), identity.UserID, kind, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *PlazaHandler) targetFromRequest(w http.ResponseWriter, r *http.Request) (middleware.Identity, domain.SubmissionKind, uuid.UUID, bool) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return middleware.Identity{}, "", uuid.Nil, false
	}

	kind, ok := kindFromParam(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown submission type")
		return middleware.Identity{}, "", uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return middleware.Identity{}, "", uuid.Nil, false
	}

	return identity, kind, id, true
}

// kindFromParam accepts both the plural route segment and the singular kind.
func kindFromParam(param string) (domain.SubmissionKind, bool) {
	switch param {
	case "prompts", "prompt":
		return domain.KindPrompt, true
	case "stories", "story":
		return domain.KindStory, true
	}
	return "", false
}

func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	return page, pageSize
}
