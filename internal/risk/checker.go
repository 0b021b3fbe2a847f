// Package risk enforces the gateway's only two risk limits: a buy may
// not exceed the account's available balance, and a sell may not exceed
// the account's current holding. Both checks run inside the order
// engine's transaction, against the row it just locked.
package risk

import (
	"log/slog"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// Checker validates an order against an account or portfolio snapshot
// before it is committed.
type Checker struct {
	logger *slog.Logger
}

// NewChecker builds a Checker.
func NewChecker(logger *slog.Logger) *Checker {
	return &Checker{logger: logger.With("component", "risk")}
}

// CheckBuy rejects a buy whose notional exceeds the account's balance.
func (c *Checker) CheckBuy(account types.Account, notional int64) error {
	if notional > account.Balance {
		c.logger.Debug("buy rejected: insufficient balance",
			"user_id", account.UserID, "notional", notional, "balance", account.Balance)
		return apierr.New(apierr.NotEnoughFunds, "insufficient balance for buy")
	}
	return nil
}

// CheckSell rejects a sell against a holding that does not exist or
// does not cover the requested lot.
func (c *Checker) CheckSell(portfolio *types.Portfolio, lot int32) error {
	if portfolio == nil || lot > portfolio.Lot {
		return apierr.New(apierr.BadRequest, "insufficient holdings for sell")
	}
	return nil
}
