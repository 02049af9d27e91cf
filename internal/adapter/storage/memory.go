package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// MemoryStore keeps the ledger in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu           sync.RWMutex
	accounts     map[uuid.UUID]domain.Account
	transactions map[uuid.UUID]domain.Transaction
	// byAccount holds transaction ids in insertion order.
	byAccount map[uuid.UUID][]uuid.UUID
	seedID    uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[uuid.UUID]domain.Account),
		transactions: make(map[uuid.UUID]domain.Transaction),
		byAccount:    make(map[uuid.UUID][]uuid.UUID),
	}
}

func (s *MemoryStore) RecordTransaction(_ context.Context, accountID uuid.UUID, amount int64) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ensureAccount(accountID, domain.AutoAccountName)

	tx := domain.Transaction{
		ID:        uuid.New(),
		AccountID: accountID,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	s.transactions[tx.ID] = tx
	s.byAccount[accountID] = append(s.byAccount[accountID], tx.ID)

	return &tx, nil
}

// ensureAccount must be called with mu held.
func (s *MemoryStore) ensureAccount(id uuid.UUID, name string) {
	if _, ok := s.accounts[id]; ok {
		return
	}
	s.accounts[id] = domain.Account{ID: id, Name: name}
}

func (s *MemoryStore) GetTransaction(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return &tx, nil
}

func (s *MemoryStore) GetAccountBalance(_ context.Context, accountID uuid.UUID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balance int64
	for _, id := range s.byAccount[accountID] {
		balance += s.transactions[id].Amount
	}
	return balance, nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, accountID uuid.UUID) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[accountID]; !ok {
		return nil, domain.ErrAccountNotFound
	}

	ids := s.byAccount[accountID]
	items := make([]domain.Transaction, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		items = append(items, s.transactions[ids[i]])
	}
	return items, nil
}

func (s *MemoryStore) SeedAccount(_ context.Context) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seedID == uuid.Nil {
		s.seedID = uuid.New()
		s.ensureAccount(s.seedID, domain.SeedAccountName)
	}
	return s.seedID, nil
}

func (s *MemoryStore) Close() error { return nil }
