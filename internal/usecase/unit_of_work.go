package usecase

import (
	"context"
	"time"
)

// UnitOfWork runs a function inside one storage transaction.
// Wallet, log and outbox writes made through the same Tx commit or roll back together.
type UnitOfWork struct {
	txManager TxManager
	retrier   Retrier
	timeout   time.Duration
}

// NewUnitOfWork creates a UnitOfWork. retrier may be nil.
func NewUnitOfWork(txManager TxManager, retrier Retrier) *UnitOfWork {
	return &UnitOfWork{
		txManager: txManager,
		retrier:   retrier,
		timeout:   DefaultTransactionTimeout,
	}
}

// Do begins a transaction, calls fn and commits. Any error from fn or from
// Commit rolls back every write. Transient conflicts re-run the whole unit.
func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	run := func() error {
		tx, err := u.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer func() { _ = tx.Rollback(txCtx) }()

		if err := fn(txCtx, tx); err != nil {
			return err
		}

		return tx.Commit(txCtx)
	}

	if u.retrier == nil {
		return run()
	}

	return u.retrier.Retry(txCtx, run)
}
