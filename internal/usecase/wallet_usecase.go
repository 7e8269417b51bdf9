package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// WalletUseCase handles wallet lookups.
type WalletUseCase struct {
	walletRepo WalletRepository
	cache      Cache
	cacheTTL   time.Duration
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase. cache and metrics may be nil.
func NewWalletUseCase(
	walletRepo WalletRepository,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
	logger zerolog.Logger,
) *WalletUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultWalletCacheTTL
	}

	return &WalletUseCase{
		walletRepo: walletRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		metrics:    metrics,
		logger:     logger,
	}
}

// GetWallet retrieves a wallet by ID.
func (uc *WalletUseCase) GetWallet(ctx context.Context, id string) (*domain.Wallet, error) {
	return uc.walletRepo.GetByID(ctx, id)
}

// GetWalletByUser returns the wallet owned by userID, reading through the cache.
// Cache failures fall back to the store.
func (uc *WalletUseCase) GetWalletByUser(ctx context.Context, userID string) (*domain.Wallet, error) {
	key := walletCacheKey(userID)

	if uc.cache != nil {
		data, err := uc.cache.Get(ctx, key)
		switch {
		case err == nil:
			var wallet domain.Wallet
			if jsonErr := json.Unmarshal(data, &wallet); jsonErr == nil {
				uc.observeCache("hit")
				return &wallet, nil
			}
			uc.observeCache("corrupt")
		case errors.Is(err, ErrCacheMiss):
			uc.observeCache("miss")
		default:
			uc.observeCache("error")
			uc.logger.Warn().Err(err).Str("user_id", userID).Msg("wallet cache read failed")
		}
	}

	wallet, err := uc.walletRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if data, err := json.Marshal(wallet); err == nil {
			if err := uc.cache.Set(ctx, key, data, uc.cacheTTL); err != nil {
				uc.logger.Warn().Err(err).Str("user_id", userID).Msg("wallet cache write failed")
			}
		}
	}

	return wallet, nil
}

func (uc *WalletUseCase) observeCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheLookups.WithLabelValues(result).Inc()
	}
}
