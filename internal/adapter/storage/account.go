package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// ensureAccount inserts the account unless it already exists and reports whether it
// created it. Concurrent recorders for the same new id both succeed.
func ensureAccount(ctx context.Context, tx pgx.Tx, id uuid.UUID, name string) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO accounts (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`, id, name)
	if err != nil {
		return false, fmt.Errorf("failed to provision account: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresStore) accountExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up account: %w", err)
	}
	return exists, nil
}

// SeedAccount reuses the Default account left by an earlier run, if any.
// uq_accounts_seed keeps concurrent starters on a single row.
func (r *PostgresStore) SeedAccount(ctx context.Context) (uuid.UUID, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO accounts (id, name) VALUES ($1, 'Default')
		 ON CONFLICT (name) WHERE name = 'Default' DO NOTHING`, uuid.New(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create seed account: %w", err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx,
		`SELECT id FROM accounts WHERE name = $1`, domain.SeedAccountName,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up seed account: %w", err)
	}

	if tag.RowsAffected() == 1 {
		r.log.Info("seed account created", zap.String("account_id", id.String()))
	}
	return id, nil
}
