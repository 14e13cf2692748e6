package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/ratelimit"
	"github.com/rs/zerolog/log"
)

// ErrorResponse is the fixed envelope every failure returns.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError translates domain errors to the envelope at the boundary.
// Anything unrecognized is logged and reduced to a generic 500; internals
// never leak to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrAccountNotBound):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrSubmissionNotFound),
		errors.Is(err, domain.ErrCodeNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrAlreadyModerated),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrDuplicateReport):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrTooManyAttempts),
		errors.Is(err, ratelimit.ErrCooldownActive),
		errors.Is(err, ratelimit.ErrDailyLimitExceeded):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrCodeInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("unexpected error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// ApiUser is the client-visible user shape.
type ApiUser struct {
	UUID       string  `json:"uuid"`
	Username   *string `json:"username"`
	Nickname   string  `json:"nickname"`
	AvatarSeed string  `json:"avatarSeed"`
	Role       string  `json:"role"`
	IsBound    bool    `json:"isBound"`
	CreatedAt  string  `json:"createdAt"`
}

func toApiUser(u *domain.User) ApiUser {
	return ApiUser{
		UUID:       u.ID.String(),
		Username:   u.Username,
		Nickname:   u.Nickname,
		AvatarSeed: u.AvatarSeed,
		Role:       string(u.Role),
		IsBound:    u.IsBound,
		CreatedAt:  u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}
