package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
)

type ProfileHandler struct {
	accounts *service.AccountService
}

func NewProfileHandler(accounts *service.AccountService) *ProfileHandler {
	return &ProfileHandler{accounts: accounts}
}

type UpdateProfileRequest struct {
	Nickname   *string `json:"nickname"`
	AvatarSeed *string `json:"avatarSeed"`
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	user, err := h.accounts.GetUser(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApiUser(user))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Nickname == nil && req.AvatarSeed == nil {
		writeError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), identity.UserID, service.ProfileUpdate{
		Nickname:   req.Nickname,
		AvatarSeed: req.AvatarSeed,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApiUser(user))
}
