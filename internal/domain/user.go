package domain

import (
	"context"
	"errors"
	"time"
)

// User represents a wallet owner.
type User struct {
	ID           string
	Email        string
	Username     string
	CPF          string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
}

type principalKey struct{}

// ContextWithPrincipal stores the authenticated caller in ctx.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated caller, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
