package domain

import (
	"time"

	"github.com/google/uuid"
)

// Account names assigned by the store. Accounts carry no other attributes;
// the balance is always derived from their transactions.
const (
	SeedAccountName = "Default"
	AutoAccountName = "Auto"
)

// Account is a ledger account. It is created implicitly by the first
// transaction that references it, or once at startup as the seed account.
type Account struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Transaction is an immutable signed movement of integer units against one account.
// Deposits are positive, withdrawals negative.
type Transaction struct {
	ID        uuid.UUID `json:"transaction_id"`
	AccountID uuid.UUID `json:"account_id"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// Balance is the derived view of an account returned by the API.
type Balance struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
}
