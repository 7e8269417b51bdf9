package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// LedgerUseCase mutates wallet balances and records every mutation.
type LedgerUseCase struct {
	uow        *UnitOfWork
	walletRepo WalletRepository
	txLog      TransactionLog
	outboxRepo OutboxRepository
	idGen      IDGenerator
	clock      *Clock
	cache      Cache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase. cache and metrics may be nil.
func NewLedgerUseCase(
	uow *UnitOfWork,
	walletRepo WalletRepository,
	txLog TransactionLog,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		uow:        uow,
		walletRepo: walletRepo,
		txLog:      txLog,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		clock:      NewClock(),
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
	}
}

// Deposit credits the wallet. The amount is truncated to two decimal places first.
func (uc *LedgerUseCase) Deposit(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	start := time.Now()

	amount = domain.QuantizeDeposit(amount)
	if err := domain.ValidateAmount(amount); err != nil {
		uc.fail(OperationDeposit, err)
		return nil, err
	}

	var wallet *domain.Wallet
	err := uc.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		if err := uc.lockWallet(ctx, tx, walletID); err != nil {
			return err
		}
		now := uc.clock.Now()

		w, err := uc.walletRepo.AdjustBalance(ctx, tx, walletID, amount, now)
		if err != nil {
			return err
		}

		record := &domain.TransactionRecord{
			ID:          uc.idGen.Generate(),
			WalletID:    w.ID,
			Amount:      amount,
			Kind:        domain.TransactionKindDeposit,
			Description: fmt.Sprintf("Deposit of %s", domain.FormatAmount(amount)),
			CreatedAt:   now,
		}
		if err := uc.txLog.Append(ctx, tx, record); err != nil {
			return err
		}

		if err := uc.emit(ctx, tx, w.ID, domain.EventTypeWalletDeposited, map[string]any{
			"wallet_id":      w.ID,
			"transaction_id": record.ID,
			"amount":         domain.FormatAmount(amount),
			"balance":        domain.FormatAmount(w.Balance),
		}, now); err != nil {
			return err
		}

		wallet = w
		return nil
	})
	if err != nil {
		uc.fail(OperationDeposit, err)
		return nil, err
	}

	uc.committed(ctx, OperationDeposit, amount, start, wallet)

	return wallet, nil
}

// Withdraw debits the wallet. Amounts with more than two decimal places are rejected.
func (uc *LedgerUseCase) Withdraw(ctx context.Context, walletID string, amount decimal.Decimal) (*domain.Wallet, error) {
	start := time.Now()

	if err := domain.ValidateAmount(amount); err != nil {
		uc.fail(OperationWithdraw, err)
		return nil, err
	}

	var wallet *domain.Wallet
	err := uc.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		if err := uc.lockWallet(ctx, tx, walletID); err != nil {
			return err
		}
		now := uc.clock.Now()

		w, err := uc.walletRepo.AdjustBalance(ctx, tx, walletID, amount.Neg(), now)
		if err != nil {
			return err
		}

		record := &domain.TransactionRecord{
			ID:          uc.idGen.Generate(),
			WalletID:    w.ID,
			Amount:      amount.Neg(),
			Kind:        domain.TransactionKindWithdrawal,
			Description: fmt.Sprintf("Withdrawal of %s", domain.FormatAmount(amount)),
			CreatedAt:   now,
		}
		if err := uc.txLog.Append(ctx, tx, record); err != nil {
			return err
		}

		if err := uc.emit(ctx, tx, w.ID, domain.EventTypeWalletWithdrawn, map[string]any{
			"wallet_id":      w.ID,
			"transaction_id": record.ID,
			"amount":         domain.FormatAmount(amount),
			"balance":        domain.FormatAmount(w.Balance),
		}, now); err != nil {
			return err
		}

		wallet = w
		return nil
	})
	if err != nil {
		uc.fail(OperationWithdraw, err)
		return nil, err
	}

	uc.committed(ctx, OperationWithdraw, amount, start, wallet)

	return wallet, nil
}

// Transfer moves funds between two wallets and records one TRANSFER entry on each.
func (uc *LedgerUseCase) Transfer(ctx context.Context, intent domain.TransferIntent) (*domain.TransferResult, error) {
	start := time.Now()

	if err := intent.Validate(); err != nil {
		uc.fail(OperationTransfer, err)
		return nil, err
	}

	// Sorted ids give every transfer the same lock order.
	walletIDs := []string{intent.SenderWalletID, intent.ReceiverWalletID}
	sort.Strings(walletIDs)

	var result *domain.TransferResult
	err := uc.uow.Do(ctx, func(ctx context.Context, tx Tx) error {
		wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, walletIDs)
		if err != nil {
			return err
		}

		if len(wallets) != len(walletIDs) {
			return domain.ErrWalletNotFound
		}

		var sender, receiver *domain.Wallet
		for _, w := range wallets {
			switch w.ID {
			case intent.SenderWalletID:
				sender = w
			case intent.ReceiverWalletID:
				receiver = w
			}
		}
		if sender == nil || receiver == nil {
			return domain.ErrWalletNotFound
		}

		// Advisory check on the locked snapshot; AdjustBalance re-checks atomically.
		if err := sender.ValidateDebit(intent.Amount); err != nil {
			return err
		}

		debitAt := uc.clock.Now()
		updatedSender, err := uc.walletRepo.AdjustBalance(ctx, tx, sender.ID, intent.Amount.Neg(), debitAt)
		if err != nil {
			return err
		}

		creditAt := uc.clock.Now()
		updatedReceiver, err := uc.walletRepo.AdjustBalance(ctx, tx, receiver.ID, intent.Amount, creditAt)
		if err != nil {
			return err
		}

		senderRecord := &domain.TransactionRecord{
			ID:          uc.idGen.Generate(),
			WalletID:    sender.ID,
			Amount:      intent.Amount.Neg(),
			Kind:        domain.TransactionKindTransfer,
			Description: intent.SenderDescription(receiver.Owner()),
			CreatedAt:   debitAt,
		}
		if err := uc.txLog.Append(ctx, tx, senderRecord); err != nil {
			return err
		}

		receiverRecord := &domain.TransactionRecord{
			ID:          uc.idGen.Generate(),
			WalletID:    receiver.ID,
			Amount:      intent.Amount,
			Kind:        domain.TransactionKindTransfer,
			Description: intent.ReceiverDescription(sender.Owner()),
			CreatedAt:   creditAt,
		}
		if err := uc.txLog.Append(ctx, tx, receiverRecord); err != nil {
			return err
		}

		if err := uc.emit(ctx, tx, sender.ID, domain.EventTypeTransferCompleted, map[string]any{
			"sender_wallet_id":   sender.ID,
			"receiver_wallet_id": receiver.ID,
			"amount":             domain.FormatAmount(intent.Amount),
			"description":        intent.Description,
			"sender_record_id":   senderRecord.ID,
			"receiver_record_id": receiverRecord.ID,
		}, creditAt); err != nil {
			return err
		}

		result = &domain.TransferResult{
			Sender:         updatedSender,
			Receiver:       updatedReceiver,
			SenderRecord:   senderRecord,
			ReceiverRecord: receiverRecord,
		}
		return nil
	})
	if err != nil {
		uc.fail(OperationTransfer, err)
		return nil, err
	}

	uc.committed(ctx, OperationTransfer, intent.Amount, start, result.Sender, result.Receiver)

	return result, nil
}

// DepositForUser deposits into the wallet owned by userID.
func (uc *LedgerUseCase) DepositForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.Deposit(ctx, wallet.ID, amount)
}

// WithdrawForUser withdraws from the wallet owned by userID.
func (uc *LedgerUseCase) WithdrawForUser(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Wallet, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.Withdraw(ctx, wallet.ID, amount)
}

// TransferFromUserInput represents a transfer initiated by an authenticated user.
type TransferFromUserInput struct {
	SenderUserID     string
	ReceiverWalletID string
	Amount           decimal.Decimal
	Description      string
}

// TransferFromUser transfers from the caller's wallet to the given receiver wallet.
func (uc *LedgerUseCase) TransferFromUser(ctx context.Context, input TransferFromUserInput) (*domain.TransferResult, error) {
	wallet, err := uc.walletRepo.GetByUserID(ctx, input.SenderUserID)
	if err != nil {
		return nil, err
	}

	return uc.Transfer(ctx, domain.TransferIntent{
		SenderWalletID:   wallet.ID,
		ReceiverWalletID: input.ReceiverWalletID,
		Amount:           input.Amount,
		Description:      input.Description,
	})
}

func (uc *LedgerUseCase) emit(ctx context.Context, tx Tx, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}

	event := domain.NewOutboxEvent(uc.idGen.Generate(), aggregateID, eventType, payload, now)

	return uc.outboxRepo.Create(ctx, tx, event)
}

func (uc *LedgerUseCase) committed(ctx context.Context, operation string, amount decimal.Decimal, start time.Time, wallets ...*domain.Wallet) {
	for _, w := range wallets {
		invalidateWallet(ctx, uc.cache, uc.logger, w.UserID)
	}

	uc.metrics.ObserveLedger(operation, amount.InexactFloat64(), time.Since(start).Seconds())

	evt := uc.logger.Info().
		Str("operation", operation).
		Str("amount", domain.FormatAmount(amount))
	for i, w := range wallets {
		evt = evt.Str(fmt.Sprintf("wallet_%d", i), w.ID)
	}
	evt.Msg("ledger operation committed")
}

// lockWallet holds the wallet's row lock for the rest of the unit, so the
// timestamp taken afterwards orders after every earlier writer's.
func (uc *LedgerUseCase) lockWallet(ctx context.Context, tx Tx, walletID string) error {
	wallets, err := uc.walletRepo.GetByIDsForUpdate(ctx, tx, []string{walletID})
	if err != nil {
		return err
	}
	if len(wallets) == 0 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (uc *LedgerUseCase) fail(operation string, err error) {
	uc.metrics.LedgerFailed(operation, errorType(err))

	uc.logger.Warn().
		Err(err).
		Str("operation", operation).
		Msg("ledger operation rejected")
}

func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrBalanceLimit):
		return "balance_limit"
	case errors.Is(err, domain.ErrSelfTransfer):
		return "self_transfer"
	case errors.Is(err, domain.ErrWalletNotFound):
		return "wallet_not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}

func invalidateWallet(ctx context.Context, cache Cache, logger zerolog.Logger, userID string) {
	if cache == nil || userID == "" {
		return
	}

	if err := cache.Delete(ctx, walletCacheKey(userID)); err != nil {
		logger.Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate wallet cache")
	}
}
