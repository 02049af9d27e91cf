package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// Key layout:
//
//	account:<id>             -> Account JSON
//	tx:<id>                  -> Transaction JSON
//	account_tx:<id>:<seq>    -> transaction id, seq zero-padded so keys sort by insertion
//	meta:seed_account        -> seed account id
const (
	accountPrefix   = "account:"
	txPrefix        = "tx:"
	accountTxPrefix = "account_tx:"
	seedKey         = "meta:seed_account"
	seqKey          = "meta:tx_seq"

	// Badger transactions are optimistic; two writers provisioning the same
	// account conflict and the loser retries.
	maxConflictRetries = 5
)

// BadgerStore is the embedded durable ledger: one directory on local disk,
// one process at a time.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	log *zap.Logger
}

// OpenBadgerStore opens (or creates) the store directory at path.
func OpenBadgerStore(path string, log *zap.Logger) (*BadgerStore, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	opts := badger.DefaultOptions(path).WithLogger(badgerLogger{log.Sugar()})
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %s: %w", path, err)
	}

	store, err := NewBadgerStore(db, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info("badger store opened", zap.String("path", path))
	return store, nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB, log *zap.Logger) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(seqKey), 100)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq, log: log}, nil
}

func (s *BadgerStore) RecordTransaction(_ context.Context, accountID uuid.UUID, amount int64) (*domain.Transaction, error) {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		var rec *domain.Transaction
		rec, err = s.recordOnce(accountID, amount)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			return nil, err
		}
		s.log.Debug("record transaction conflict, retrying",
			zap.String("account_id", accountID.String()),
			zap.Int("attempt", attempt),
		)
	}
	return nil, fmt.Errorf("failed to record transaction: %w", err)
}

func (s *BadgerStore) recordOnce(accountID uuid.UUID, amount int64) (*domain.Transaction, error) {
	seq, err := s.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sequence: %w", err)
	}

	rec := domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := ensureBadgerAccount(txn, accountID, domain.AutoAccountName); err != nil {
			return err
		}

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if err := txn.Set(txKey(rec.ID), data); err != nil {
			return err
		}
		return txn.Set(accountTxKey(accountID, seq), []byte(rec.ID.String()))
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func ensureBadgerAccount(txn *badger.Txn, id uuid.UUID, name string) error {
	_, err := txn.Get(accountKey(id))
	if err == nil {
		return nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}

	data, err := json.Marshal(domain.Account{ID: id, Name: name})
	if err != nil {
		return err
	}
	return txn.Set(accountKey(id), data)
}

func (s *BadgerStore) GetTransaction(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	var rec domain.Transaction
	err := s.db.View(func(txn *badger.Txn) error {
		return getTx(txn, id, &rec)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &rec, nil
}

func (s *BadgerStore) GetAccountBalance(_ context.Context, accountID uuid.UUID) (int64, error) {
	var balance int64
	err := s.db.View(func(txn *badger.Txn) error {
		return eachAccountTx(txn, accountID, false, func(rec domain.Transaction) {
			balance += rec.Amount
		})
	})
	if err != nil {
		return 0, fmt.Errorf("failed to sum balance: %w", err)
	}
	return balance, nil
}

func (s *BadgerStore) ListTransactions(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	items := []domain.Transaction{}
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := txn.Get(accountKey(accountID)); err != nil {
			return err
		}
		return eachAccountTx(txn, accountID, true, func(rec domain.Transaction) {
			items = append(items, rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return items, nil
}

func (s *BadgerStore) SeedAccount(_ context.Context) (uuid.UUID, error) {
	var err error
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		var id uuid.UUID
		id, err = s.seedOnce()
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return uuid.Nil, fmt.Errorf("failed to seed account: %w", err)
}

func (s *BadgerStore) seedOnce() (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(seedKey))
		if err == nil {
			return item.Value(func(val []byte) error {
				id, err = uuid.ParseBytes(val)
				return err
			})
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id = uuid.New()
		if err := ensureBadgerAccount(txn, id, domain.SeedAccountName); err != nil {
			return err
		}
		return txn.Set([]byte(seedKey), []byte(id.String()))
	})
	return id, err
}

func (s *BadgerStore) Close() error {
	seqErr := s.seq.Release()
	dbErr := s.db.Close()
	return errors.Join(seqErr, dbErr)
}

// eachAccountTx walks the account's transactions in insertion order, or newest
// first when reverse is set.
func eachAccountTx(txn *badger.Txn, accountID uuid.UUID, reverse bool, fn func(domain.Transaction)) error {
	prefix := []byte(accountTxPrefix + accountID.String() + ":")

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	start := prefix
	if reverse {
		start = append(append([]byte{}, prefix...), 0xFF)
	}

	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		var id uuid.UUID
		err := it.Item().Value(func(val []byte) error {
			var err error
			id, err = uuid.ParseBytes(val)
			return err
		})
		if err != nil {
			return err
		}

		var rec domain.Transaction
		if err := getTx(txn, id, &rec); err != nil {
			return err
		}
		fn(rec)
	}
	return nil
}

func getTx(txn *badger.Txn, id uuid.UUID, rec *domain.Transaction) error {
	item, err := txn.Get(txKey(id))
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, rec)
	})
}

func accountKey(id uuid.UUID) []byte { return []byte(accountPrefix + id.String()) }

func txKey(id uuid.UUID) []byte { return []byte(txPrefix + id.String()) }

func accountTxKey(accountID uuid.UUID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s%s:%020d", accountTxPrefix, accountID, seq))
}

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
