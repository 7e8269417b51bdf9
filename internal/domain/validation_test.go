package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	if err := ValidateEmail("USER@example.com"); err != nil {
		t.Fatalf("expected valid email, got %v", err)
	}

	if err := ValidateEmail("invalid-email"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()

	if err := ValidateUsername("wallet.user"); err != nil {
		t.Fatalf("expected valid username, got %v", err)
	}

	if err := ValidateUsername("   "); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername for blank, got %v", err)
	}

	if err := ValidateUsername("has space"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername for space, got %v", err)
	}

	if err := ValidateUsername(strings.Repeat("a", MaxUsernameLength+1)); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("expected ErrInvalidUsername for long name, got %v", err)
	}
}

func TestValidateCPF(t *testing.T) {
	t.Parallel()

	if err := ValidateCPF("12345678901"); err != nil {
		t.Fatalf("expected valid cpf, got %v", err)
	}

	for _, bad := range []string{"", "1234567890", "123456789012", "1234567890a"} {
		if err := ValidateCPF(bad); !errors.Is(err, ErrInvalidCPF) {
			t.Fatalf("expected ErrInvalidCPF for %q, got %v", bad, err)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	if err := ValidatePassword("StrongPass1"); err != nil {
		t.Fatalf("expected valid password, got %v", err)
	}

	if err := ValidatePassword("short1A"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for short password, got %v", err)
	}

	if err := ValidatePassword(strings.Repeat("A", MaxPasswordLength+1)); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for overly long password, got %v", err)
	}

	if err := ValidatePassword("alllowercase1"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing upper case, got %v", err)
	}

	if err := ValidatePassword("NoDigitsHere"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Fatalf("expected ErrPasswordTooWeak for missing digits, got %v", err)
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := ContextWithPrincipal(t.Context(), &Principal{UserID: "user-1", Email: "a@example.com"})

	p, ok := PrincipalFromContext(ctx)
	if !ok || p.UserID != "user-1" {
		t.Fatalf("expected principal in context, got %+v ok=%v", p, ok)
	}

	if _, ok := PrincipalFromContext(t.Context()); ok {
		t.Fatalf("expected no principal in empty context")
	}
}
