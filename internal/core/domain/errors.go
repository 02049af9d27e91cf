package domain

import "errors"

// Wire codes returned in the "error" field of API responses.
const (
	CodeInvalidInput        = "INVALID_INPUT"
	CodeTransactionNotFound = "TRANSACTION_NOT_FOUND"
	CodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	CodeInternal            = "INTERNAL_ERROR"
)

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrAccountNotFound is only signalled by the history read path.
	// Balance reads treat unknown accounts as empty.
	ErrAccountNotFound = errors.New("account not found")
)

// Code maps a domain error to its wire code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	default:
		return CodeInternal
	}
}
