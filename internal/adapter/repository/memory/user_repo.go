package memory

import (
	"context"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// UserRepository implements usecase.UserRepository.
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create stages a user and claims its email and CPF.
func (r *UserRepository) Create(_ context.Context, tx usecase.Tx, user *domain.User) error {
	t, err := txFrom(tx)
	if err != nil {
		return err
	}

	emailKey := "email:" + user.Email
	cpfKey := "cpf:" + user.CPF

	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	_, emailTaken := s.userByEmail[user.Email]
	_, cpfTaken := s.userByCPF[user.CPF]
	_, emailClaimed := s.reserved[emailKey]
	_, cpfClaimed := s.reserved[cpfKey]
	if emailTaken || cpfTaken || emailClaimed || cpfClaimed {
		return domain.ErrUserExists
	}

	s.reserved[emailKey] = struct{}{}
	s.reserved[cpfKey] = struct{}{}
	t.reserved = append(t.reserved, emailKey, cpfKey)

	stored := *user
	t.users = append(t.users, &stored)

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	out := *u
	return &out, nil
}

// GetByEmail retrieves a user by normalized email.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.userByEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	out := *r.store.users[id]
	return &out, nil
}
