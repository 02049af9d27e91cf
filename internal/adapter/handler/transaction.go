package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/notifications"
)

var (
	transactionsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_transactions_recorded_total",
		Help: "Transactions appended to the ledger",
	})

	validationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_validation_failures_total",
			Help: "Rejected transaction requests by failing field",
		},
		[]string{"field"},
	)
)

// Ledger is the store surface the API needs.
type Ledger interface {
	RecordTransaction(ctx context.Context, accountID uuid.UUID, amount int64) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetAccountBalance(ctx context.Context, accountID uuid.UUID) (int64, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID) ([]domain.Transaction, error)
}

// Notifier receives an event for every recorded transaction.
type Notifier interface {
	Publish(event notifications.Event) bool
}

type TransactionHandler struct {
	Repo     Ledger
	Notifier Notifier // optional
	Log      *zap.Logger
}

// CreateTransaction validates the body completely before touching the store,
// so a rejected request never leaves a partial record.
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	req, verr := parseCreateTransaction(c.Get(fiber.HeaderContentType), c.Body())
	if verr != nil {
		fields := verr.Fields()
		if len(fields) == 0 {
			fields = []string{"body"}
		}
		for _, f := range fields {
			validationFailures.WithLabelValues(f).Inc()
		}
		h.Log.Warn("transaction rejected", zap.Strings("fields", fields), zap.Strings("form_errors", verr.Details.FormErrors))
		return respondInvalid(c, verr)
	}

	tx, err := h.Repo.RecordTransaction(c.UserContext(), req.AccountID, req.Amount)
	if err != nil {
		return err
	}
	transactionsRecorded.Inc()

	h.Log.Info("transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("account_id", tx.AccountID.String()),
		zap.Int64("amount", tx.Amount),
	)

	if h.Notifier != nil {
		h.Notifier.Publish(notifications.NewTransactionRecorded(*tx))
	}

	return c.Status(http.StatusCreated).JSON(tx)
}

// GetTransaction answers 404 for ids that are unknown or not UUIDs at all.
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, ok := parseID(c.Params("id"))
	if !ok {
		return respondNotFound(c, domain.ErrTransactionNotFound)
	}

	tx, err := h.Repo.GetTransaction(c.UserContext(), id)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return respondNotFound(c, err)
	}
	if err != nil {
		return err
	}

	return c.JSON(tx)
}

// ListTransactions returns an account's history, newest first.
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	raw := c.Query("account_id")
	if raw == "" {
		verr := newValidationError()
		verr.addField("account_id", msgRequired)
		return respondInvalid(c, verr)
	}

	accountID, ok := parseID(raw)
	if !ok {
		verr := newValidationError()
		verr.addField("account_id", msgInvalidUUID)
		return respondInvalid(c, verr)
	}

	items, err := h.Repo.ListTransactions(c.UserContext(), accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return respondNotFound(c, err)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"items": items})
}
