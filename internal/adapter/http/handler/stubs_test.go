package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/auth"
	"github.com/iho/gowallet/internal/usecase"
)

type userServiceStub struct {
	registerFn     func(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Wallet, error)
	authenticateFn func(ctx context.Context, email, password string) (*domain.User, error)
	getUserFn      func(ctx context.Context, id string) (*domain.User, error)
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, *domain.Wallet, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, email, password)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

type tokenIssuerStub struct {
	issued []*domain.User
}

func (s *tokenIssuerStub) Generate(user *domain.User) (*auth.Token, error) {
	s.issued = append(s.issued, user)
	return &auth.Token{AccessToken: "token-" + user.ID}, nil
}

type walletServiceStub struct {
	getFn func(ctx context.Context, userID string) (*domain.Wallet, error)
}

func (s *walletServiceStub) GetWalletByUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.getFn(ctx, userID)
}

type ledgerServiceStub struct {
	depositFn  func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
	withdrawFn func(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error)
	transferFn func(ctx context.Context, input usecase.TransferFromUserInput) (*domain.TransferResult, error)
}

func (s *ledgerServiceStub) DepositForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	return s.depositFn(ctx, userID, amount)
}

func (s *ledgerServiceStub) WithdrawForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	return s.withdrawFn(ctx, userID, amount)
}

func (s *ledgerServiceStub) TransferFromUser(ctx context.Context, input usecase.TransferFromUserInput) (*domain.TransferResult, error) {
	return s.transferFn(ctx, input)
}

type historyServiceStub struct {
	listFn func(ctx context.Context, userID, startDate, endDate string) ([]*domain.TransactionRecord, error)
}

func (s *historyServiceStub) ListTransactionsForUser(ctx context.Context, userID, startDate, endDate string) ([]*domain.TransactionRecord, error) {
	return s.listFn(ctx, userID, startDate, endDate)
}

type reconServiceStub struct {
	reconcileFn func(ctx context.Context, userID string) (*usecase.ReconciliationResult, error)
}

func (s *reconServiceStub) ReconcileUser(ctx context.Context, userID string) (*usecase.ReconciliationResult, error) {
	return s.reconcileFn(ctx, userID)
}

// authedRequest builds a request carrying the given caller.
func authedRequest(method, target, body, userID string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if userID != "" {
		ctx := domain.ContextWithPrincipal(req.Context(), &domain.Principal{UserID: userID, Email: userID + "@example.com"})
		req = req.WithContext(ctx)
	}
	return req
}

func testWallet(id, userID, balance string) *domain.Wallet {
	return &domain.Wallet{ID: id, UserID: userID, OwnerEmail: userID + "@example.com", Balance: decimal.RequireFromString(balance)}
}
