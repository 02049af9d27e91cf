package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

type AccountHandler struct {
	Repo          Ledger
	SeedAccountID uuid.UUID
}

// GetBalance always answers 200. Accounts that were never used, and ids that
// could never name an account, read as a zero balance.
func (h *AccountHandler) GetBalance(c *fiber.Ctx) error {
	raw := c.Params("id")

	id, ok := parseID(raw)
	if !ok {
		return c.JSON(domain.Balance{AccountID: raw, Balance: 0})
	}

	balance, err := h.Repo.GetAccountBalance(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(domain.Balance{AccountID: raw, Balance: balance})
}

// SeedAccount exposes the account created at startup for demos and tests.
func (h *AccountHandler) SeedAccount(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"account_id": h.SeedAccountID})
}
