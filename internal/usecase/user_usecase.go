package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// UserUseCase handles registration and authentication.
type UserUseCase struct {
	uow        *UnitOfWork
	userRepo   UserRepository
	walletRepo WalletRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	metrics    *metrics.Metrics
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(
	uow *UnitOfWork,
	userRepo UserRepository,
	walletRepo WalletRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *UserUseCase {
	return &UserUseCase{
		uow:        uow,
		userRepo:   userRepo,
		walletRepo: walletRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		metrics:    metrics,
	}
}

// RegisterInput represents input for registering a user
type RegisterInput struct {
	Email    string
	Username string
	CPF      string
	Password string
}

// Register creates a user and its zero-balance wallet in one unit of work.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, *domain.Wallet, error) {
	email := domain.NormalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)
	cpf := strings.TrimSpace(input.CPF)

	if err := domain.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateUsername(username); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidateCPF(cpf); err != nil {
		return nil, nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, nil, err
	}

	// Check if user already exists
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, domain.ErrUserExists
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, err
	}

	hashedPassword, err := hashPassword(input.Password)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uc.idGen.Generate(),
		Email:        email,
		Username:     username,
		CPF:          cpf,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var wallet *domain.Wallet
	err = uc.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		if err := uc.userRepo.Create(ctx, tx, user); err != nil {
			return err
		}

		wallet = domain.NewWallet(uc.idGen.Generate(), user, now)
		if err := uc.walletRepo.Create(ctx, tx, wallet); err != nil {
			return err
		}

		if uc.outboxRepo == nil {
			return nil
		}

		event := domain.NewOutboxEvent(uc.idGen.Generate(), wallet.ID, domain.EventTypeWalletCreated, map[string]any{
			"wallet_id": wallet.ID,
			"user_id":   user.ID,
			"email":     user.Email,
		}, now)

		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, nil, err
	}

	if uc.metrics != nil {
		uc.metrics.WalletsCreated.Inc()
	}

	// Don't return hashed password
	user.PasswordHash = ""
	return user, wallet, nil
}

// Authenticate verifies user credentials
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.observeAuth("failure")
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := verifyPassword(user.PasswordHash, password); err != nil {
		uc.observeAuth("failure")
		return nil, domain.ErrUnauthorized
	}

	uc.observeAuth("success")

	user.PasswordHash = ""
	return user, nil
}

// GetUser retrieves a user by ID
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (uc *UserUseCase) observeAuth(status string) {
	if uc.metrics != nil {
		uc.metrics.AuthAttempts.WithLabelValues(status).Inc()
	}
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
