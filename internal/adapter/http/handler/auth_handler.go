package handler

import (
	"errors"
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
)

// AuthHandler handles registration and token endpoints.
type AuthHandler struct {
	users  UserService
	tokens TokenIssuer
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(users UserService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{
		users:  users,
		tokens: tokens,
	}
}

// Register creates a user together with an empty wallet.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, wallet, err := h.users.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to register user", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.UserFromDomain(user, wallet))
}

// Login exchanges credentials for an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, "invalid credentials", "")
			return
		}
		writeDomainError(w, r, "failed to authenticate", err)
		return
	}

	h.issue(w, r, user)
}

// Refresh issues a fresh token for the authenticated caller.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	user, err := h.users.GetUser(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "user no longer exists")
			return
		}
		writeDomainError(w, r, "failed to refresh token", err)
		return
	}

	h.issue(w, r, user)
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, user *domain.User) {
	token, err := h.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, r, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   "Bearer",
		ExpiresAt:   token.ExpiresAt,
	})
}
