package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

func TestAuthHandler_Register(t *testing.T) {
	var captured usecase.RegisterInput
	h := NewAuthHandler(&userServiceStub{
		registerFn: func(_ context.Context, input usecase.RegisterInput) (*domain.User, *domain.Wallet, error) {
			captured = input
			return &domain.User{ID: "u-1", Email: "ana@example.com", Username: "ana"}, &domain.Wallet{ID: "w-1"}, nil
		},
	}, &tokenIssuerStub{})

	rr := httptest.NewRecorder()
	h.Register(rr, authedRequest(http.MethodPost, "/api/v1/auth/register",
		`{"email":"Ana@Example.com","username":"ana","cpf":"12345678909","password":"Secret123!"}`, ""))

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Ana@Example.com", captured.Email)
	assert.Equal(t, "12345678909", captured.CPF)

	var resp dto.UserResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "u-1", resp.ID)
	assert.Equal(t, "w-1", resp.WalletID)
}

func TestAuthHandler_RegisterErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"duplicate", `{"email":"a@b.co"}`, domain.ErrUserExists, http.StatusConflict},
		{"invalid email", `{"email":"nope"}`, domain.ErrInvalidEmail, http.StatusBadRequest},
		{"malformed json", `{"email":`, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&userServiceStub{
				registerFn: func(context.Context, usecase.RegisterInput) (*domain.User, *domain.Wallet, error) {
					return nil, nil, tt.err
				},
			}, &tokenIssuerStub{})

			rr := httptest.NewRecorder()
			h.Register(rr, authedRequest(http.MethodPost, "/api/v1/auth/register", tt.body, ""))

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tokens := &tokenIssuerStub{}
	h := NewAuthHandler(&userServiceStub{
		authenticateFn: func(_ context.Context, email, password string) (*domain.User, error) {
			if email == "ana@example.com" && password == "Secret123!" {
				return &domain.User{ID: "u-1", Email: email}, nil
			}
			return nil, domain.ErrUnauthorized
		},
	}, tokens)

	rr := httptest.NewRecorder()
	h.Login(rr, authedRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"ana@example.com","password":"Secret123!"}`, ""))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp dto.TokenResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "token-u-1", resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)

	rr = httptest.NewRecorder()
	h.Login(rr, authedRequest(http.MethodPost, "/api/v1/auth/login", `{"email":"ana@example.com","password":"wrong"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Len(t, tokens.issued, 1)
}

func TestAuthHandler_Refresh(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		getUserFn: func(_ context.Context, id string) (*domain.User, error) {
			if id == "u-1" {
				return &domain.User{ID: "u-1"}, nil
			}
			return nil, domain.ErrUserNotFound
		},
	}, &tokenIssuerStub{})

	rr := httptest.NewRecorder()
	h.Refresh(rr, authedRequest(http.MethodPost, "/api/v1/auth/refresh", "", "u-1"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Refresh(rr, authedRequest(http.MethodPost, "/api/v1/auth/refresh", "", "u-gone"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.Refresh(rr, authedRequest(http.MethodPost, "/api/v1/auth/refresh", "", ""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
