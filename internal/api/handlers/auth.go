package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Caltsic/AIourstory-sub001/internal/api/middleware"
	"github.com/Caltsic/AIourstory-sub001/internal/domain"
	"github.com/Caltsic/AIourstory-sub001/internal/service"
	"github.com/google/uuid"
)

type AuthHandler struct {
	accounts     *service.AccountService
	verification *service.VerificationService
	tokens       *service.TokenService
}

func NewAuthHandler(accounts *service.AccountService, verification *service.VerificationService, tokens *service.TokenService) *AuthHandler {
	return &AuthHandler{accounts: accounts, verification: verification, tokens: tokens}
}

type SendCodeRequest struct {
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Code     string `json:"code"`
	Nickname string `json:"nickname"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type DeviceLoginRequest struct {
	DeviceID string `json:"deviceId"`
}

type AuthResponse struct {
	User         ApiUser `json:"user"`
	AccessToken  string  `json:"accessToken"`
	RefreshToken string  `json:"refreshToken"`
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	var req SendCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	purpose := domain.CodePurpose(req.Purpose)
	if req.Email == "" || !purpose.Valid() {
		writeError(w, http.StatusBadRequest, "email and a valid purpose are required")
		return
	}

	if err := h.verification.SendCode(r.Context(), req.Email, purpose); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" || req.Code == "" {
		writeError(w, http.StatusBadRequest, "email, password and code are required")
		return
	}

	// An authenticated register upgrades the calling device account in
	// place; the bearer token is optional here.
	var bindUserID *uuid.UUID
	if identity, ok := identityFromOptionalBearer(r, h.tokens); ok && !identity.IsBound {
		bindUserID = &identity.UserID
	}

	result, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Code:       req.Code,
		Nickname:   req.Nickname,
		BindUserID: bindUserID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Code == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "email, code and newPassword are required")
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	result, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthTokens{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	})
}

func (h *AuthHandler) DeviceLogin(w http.ResponseWriter, r *http.Request) {
	var req DeviceLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.DeviceID == "" {
		writeError(w, http.StatusBadRequest, "deviceId is required")
		return
	}

	result, err := h.accounts.DeviceLogin(r.Context(), req.DeviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(result *service.AuthResult) AuthResponse {
	return AuthResponse{
		User:         toApiUser(result.User),
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}

func identityFromOptionalBearer(r *http.Request, tokens *service.TokenService) (middleware.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
		return middleware.Identity{}, false
	}
	claims, err := tokens.VerifyAccessToken(authHeader[7:])
	if err != nil {
		return middleware.Identity{}, false
	}
	return middleware.Identity{
		UserID:  claims.UserID(),
		Role:    claims.Role,
		IsBound: claims.IsBound,
	}, true
}
