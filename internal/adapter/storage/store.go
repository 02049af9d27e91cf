package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/config"
	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// Store owns accounts and transactions and is the only place balances are computed.
// Transactions are append-only, so a balance can always be recomputed from them.
type Store interface {
	// RecordTransaction provisions the account if it has never been seen, then
	// appends a new transaction to it. Inputs are assumed to be validated.
	RecordTransaction(ctx context.Context, accountID uuid.UUID, amount int64) (*domain.Transaction, error)

	// GetTransaction returns domain.ErrTransactionNotFound for unknown ids.
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)

	// GetAccountBalance sums the account's transactions. Unknown accounts read as 0.
	GetAccountBalance(ctx context.Context, accountID uuid.UUID) (int64, error)

	// ListTransactions returns the account's history newest first, or
	// domain.ErrAccountNotFound if the account was never provisioned.
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)

	// SeedAccount returns the id of the seed account, creating it on first use.
	SeedAccount(ctx context.Context) (uuid.UUID, error)

	Close() error
}

// Open builds the store selected by cfg.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, error) {
	backend := cfg.StorageBackend()
	log.Info("opening ledger store", zap.String("backend", backend))

	switch backend {
	case config.StoragePostgres:
		pool, err := ConnectDB(ctx, cfg.DatabaseURL, log)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(pool, log), nil
	case config.StorageBadger:
		return OpenBadgerStore(cfg.DatabasePath, log)
	case config.StorageMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
