package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// PostgresStore keeps the ledger in the accounts and transactions tables.
type PostgresStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPostgresStore(db *pgxpool.Pool, log *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, log: log}
}

// RecordTransaction provisions the account and appends the row in one SQL transaction.
func (r *PostgresStore) RecordTransaction(ctx context.Context, accountID uuid.UUID, amount int64) (*domain.Transaction, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := ensureAccount(ctx, tx, accountID, domain.AutoAccountName)
	if err != nil {
		return nil, err
	}

	rec := domain.Transaction{ID: uuid.New(), AccountID: accountID, Amount: amount}
	err = tx.QueryRow(ctx, `
		INSERT INTO transactions (id, account_id, amount, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING created_at`, rec.ID, accountID, amount).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if created {
		r.log.Debug("account auto-provisioned", zap.String("account_id", accountID.String()))
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}

func (r *PostgresStore) GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var rec domain.Transaction
	err := r.db.QueryRow(ctx,
		`SELECT id, account_id, amount, created_at FROM transactions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.AccountID, &rec.Amount, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return &rec, nil
}

func (r *PostgresStore) GetAccountBalance(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::BIGINT FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to sum balance: %w", err)
	}
	return balance, nil
}

// ListTransactions returns the full history, newest first.
func (r *PostgresStore) ListTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	exists, err := r.accountExists(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrAccountNotFound
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, account_id, amount, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, seq DESC`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	items := []domain.Transaction{}
	for rows.Next() {
		var rec domain.Transaction
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Amount, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		rec.CreatedAt = rec.CreatedAt.UTC()
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return items, nil
}

func (r *PostgresStore) Close() error {
	r.db.Close()
	return nil
}
