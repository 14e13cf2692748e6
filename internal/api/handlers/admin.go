package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminHandler struct {
	moderation *service.ModerationService
}

func NewAdminHandler(moderation *service.ModerationService) *AdminHandler {
	return &AdminHandler{moderation: moderation}
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

func (h *AdminHandler) ListPendingPrompts(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	prompts, err := h.moderation.ListPendingPrompts(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (h *AdminHandler) ListPendingStories(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r)
	stories, err := h.moderation.ListPendingStories(r.Context(), page, pageSize)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stories)
}

func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}

	if err := h.moderation.Approve(r.Context(), kind, id); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := h.target(w, r)
	if !ok {
		return
	}

	var req RejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Reason == "" {
		writeError(w, http.StatusBadRequest, "reason is required")
		return
	}

	if err := h.moderation.Reject(r.Context(), kind, id, req.Reason); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *AdminHandler) target(w http.ResponseWriter, r *http.Request) (domain.SubmissionKind, uuid.UUID, bool) {
	kind, ok := kindFromParam(chi.URLParam(r, "type"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown submission type")
		return "", uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid uuid")
		return "", uuid.Nil, false
	}

	return kind, id, true
}
