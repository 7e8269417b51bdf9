package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// UserRepository implements user persistence.
type UserRepository struct {
	queries *generated.Queries
}

// NewUserRepository creates a new user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return newUserRepository(pool)
}

func newUserRepository(db generated.DBTX) *UserRepository {
	return &UserRepository{queries: generated.New(db)}
}

// Create inserts a new user. A duplicate email or CPF yields domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, tx usecase.Tx, user *domain.User) error {
	queries, err := queriesFor(tx)
	if err != nil {
		return err
	}

	err = queries.CreateUser(ctx, generated.CreateUserParams{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		Cpf:          user.CPF,
		PasswordHash: user.PasswordHash,
		CreatedAt:    timeToPgTimestamptz(user.CreatedAt),
		UpdatedAt:    timeToPgTimestamptz(user.UpdatedAt),
	})
	if pgErrorCode(err) == pgErrUniqueViolation {
		return domain.ErrUserExists
	}

	return err
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return toUser(r.queries.GetUserByID(ctx, id))
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return toUser(r.queries.GetUserByEmail(ctx, email))
}

func toUser(row generated.User, err error) (*domain.User, error) {
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	return &domain.User{
		ID:           row.ID,
		Email:        row.Email,
		Username:     row.Username,
		CPF:          row.Cpf,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}, nil
}
