// Package memory provides process-local implementations of the usecase
// repositories. State lives in one Store; writes are staged on a Tx and
// published atomically on Commit.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// ErrTxClosed is returned when a committed or rolled back Tx is reused.
var ErrTxClosed = errors.New("memory: transaction already closed")

// Store holds committed state shared by all repositories of one process.
type Store struct {
	mu sync.RWMutex

	users        map[string]*domain.User
	userByEmail  map[string]string
	userByCPF    map[string]string
	wallets      map[string]*domain.Wallet
	walletByUser map[string]string
	records      map[string][]*domain.TransactionRecord
	seq          int64
	outbox       []*domain.OutboxEvent

	// reserved holds unique keys claimed by uncommitted transactions.
	reserved map[string]struct{}

	locksMu sync.Mutex
	locks   map[string]chan struct{}
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		users:        make(map[string]*domain.User),
		userByEmail:  make(map[string]string),
		userByCPF:    make(map[string]string),
		wallets:      make(map[string]*domain.Wallet),
		walletByUser: make(map[string]string),
		records:      make(map[string][]*domain.TransactionRecord),
		reserved:     make(map[string]struct{}),
		locks:        make(map[string]chan struct{}),
	}
}

func (s *Store) lockFor(walletID string) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	sem, ok := s.locks[walletID]
	if !ok {
		sem = make(chan struct{}, 1)
		s.locks[walletID] = sem
	}

	return sem
}

// TxManager implements usecase.TxManager.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin starts a new transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Tx{
		store:   m.store,
		held:    make(map[string]chan struct{}),
		wallets: make(map[string]*domain.Wallet),
	}, nil
}

// Tx stages writes until Commit. It holds the wallet locks it acquired
// until it is closed.
type Tx struct {
	store  *Store
	closed bool

	held     map[string]chan struct{}
	reserved []string

	wallets map[string]*domain.Wallet
	users   []*domain.User
	records []*domain.TransactionRecord
	events  []*domain.OutboxEvent
}

func txFrom(tx usecase.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil {
		return nil, errors.New("memory: foreign transaction")
	}
	if t.closed {
		return nil, ErrTxClosed
	}
	return t, nil
}

// lock acquires the wallet lock, waiting until it is free or ctx is done.
func (t *Tx) lock(ctx context.Context, walletID string) error {
	if _, ok := t.held[walletID]; ok {
		return nil
	}

	sem := t.store.lockFor(walletID)
	select {
	case sem <- struct{}{}:
		t.held[walletID] = sem
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// wallet returns the wallet as seen by this transaction.
func (t *Tx) wallet(id string) (*domain.Wallet, bool) {
	if w, ok := t.wallets[id]; ok {
		return w, true
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	w, ok := t.store.wallets[id]
	if !ok {
		return nil, false
	}

	return t.store.project(w), true
}

// Commit publishes every staged write at once.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return ErrTxClosed
	}
	defer t.close()

	if err := ctx.Err(); err != nil {
		return err
	}

	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range t.users {
		stored := *u
		s.users[u.ID] = &stored
		s.userByEmail[u.Email] = u.ID
		s.userByCPF[u.CPF] = u.ID
	}

	for id, w := range t.wallets {
		stored := *w
		s.wallets[id] = &stored
		s.walletByUser[w.UserID] = id
	}

	for _, r := range t.records {
		s.seq++
		r.Seq = s.seq
		stored := *r
		s.records[r.WalletID] = append(s.records[r.WalletID], &stored)
	}

	for _, e := range t.events {
		stored := *e
		s.outbox = append(s.outbox, &stored)
	}

	return nil
}

// Rollback discards staged writes. Rolling back a closed Tx is a no-op.
func (t *Tx) Rollback(_ context.Context) error {
	if t.closed {
		return nil
	}

	t.close()

	return nil
}

func (t *Tx) close() {
	t.closed = true

	if len(t.reserved) > 0 {
		t.store.mu.Lock()
		for _, key := range t.reserved {
			delete(t.store.reserved, key)
		}
		t.store.mu.Unlock()
	}

	for _, sem := range t.held {
		<-sem
	}

	t.held = nil
	t.reserved = nil
	t.wallets = nil
	t.users = nil
	t.records = nil
	t.events = nil
}

// project copies a committed wallet and fills the owner email.
// Caller must hold s.mu.
func (s *Store) project(w *domain.Wallet) *domain.Wallet {
	out := *w
	if u, ok := s.users[w.UserID]; ok {
		out.OwnerEmail = u.Email
	}
	return &out
}
