// Package orderengine implements the order-processing transaction: the
// cache-then-store reads, the portfolio upsert with its weighted-average
// price recompute, the append-only order insert, and the account
// debit/credit, all inside a single store transaction per order.
package orderengine

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/internal/cache"
	"github.com/fireorder/gateway/internal/risk"
	"github.com/fireorder/gateway/internal/store"
	"github.com/fireorder/gateway/pkg/types"
)

// Engine runs the order-processing transaction.
type Engine struct {
	store  *store.Store
	cache  *cache.Cache
	risk   *risk.Checker
	logger *slog.Logger
}

// New builds an Engine.
func New(st *store.Store, ch *cache.Cache, riskChecker *risk.Checker, logger *slog.Logger) *Engine {
	return &Engine{
		store:  st,
		cache:  ch,
		risk:   riskChecker,
		logger: logger.With("component", "orderengine"),
	}
}

// HandleOrder runs the full order-processing transaction for a single
// order form submitted by userID. On success it returns the rendered
// JSON {"status":"ok","message":"<order_id>"} envelope.
func (e *Engine) HandleOrder(ctx context.Context, form types.OrderForm, userID int32) (string, error) {
	side, ok := types.ParseSide(form.Side)
	if !ok {
		return "", apierr.New(apierr.BadRequest, "unsupported side")
	}
	expiry, ok := types.ParseExpiry(form.Expiry)
	if !ok {
		return "", apierr.New(apierr.BadRequest, "unknown expiry")
	}

	product, err := e.productFor(ctx, form.Symbol)
	if err != nil {
		return "", err
	}

	// accountFor only needs to resolve account_id and seed the cache; the
	// balance actually debited or credited is re-read under a row lock
	// inside the transaction below, so concurrent orders for the same
	// user never compute their new balance from a stale snapshot.
	if _, err := e.accountFor(ctx, userID); err != nil {
		return "", err
	}

	notional := form.Notional()

	order := types.Order{
		ProductSymbol: form.Symbol,
		ProductName:   product.Name,
		Side:          side,
		Price:         form.Price,
		Lot:           form.Lot,
		Expiry:        expiry,
		CreatedAt:     time.Now().UTC(),
		UserID:        userID,
		ProductID:     product.ProductID,
	}

	var (
		orderID        int32
		updatedAccount types.Account
	)

	err = e.store.WithTx(ctx, func(tx pgx.Tx) error {
		lockedAccount, err := e.store.AccountForUpdateTx(ctx, tx, userID)
		if err != nil {
			return err
		}

		existing, err := e.store.PortfolioForUpdateTx(ctx, tx, userID, form.Symbol)
		if err != nil {
			return err
		}

		switch side {
		case types.Buy:
			if err := e.risk.CheckBuy(*lockedAccount, notional); err != nil {
				return err
			}
			if err := e.applyBuyTx(ctx, tx, existing, product, userID, form, notional); err != nil {
				return err
			}
			updatedAccount = types.Account{
				AccountID:     lockedAccount.AccountID,
				UserID:        lockedAccount.UserID,
				Balance:       lockedAccount.Balance - notional,
				InvestedValue: lockedAccount.InvestedValue + notional,
			}
		case types.Sell:
			if err := e.risk.CheckSell(existing, form.Lot); err != nil {
				return err
			}
			costRemoved, err := e.applySellTx(ctx, tx, *existing, form)
			if err != nil {
				return err
			}
			updatedAccount = types.Account{
				AccountID:     lockedAccount.AccountID,
				UserID:        lockedAccount.UserID,
				Balance:       lockedAccount.Balance + notional,
				InvestedValue: lockedAccount.InvestedValue - costRemoved,
			}
		}

		id, err := e.store.InsertOrderTx(ctx, tx, order)
		if err != nil {
			return err
		}
		orderID = id

		return e.store.UpdateAccountTx(ctx, tx, updatedAccount)
	})
	if err != nil {
		return "", err
	}

	e.cache.SetAccount(ctx, updatedAccount)

	body, err := json.Marshal(types.OK(strconv.Itoa(int(orderID))))
	if err != nil {
		return "", apierr.Wrap(apierr.Serde, err)
	}
	return string(body), nil
}

func (e *Engine) productFor(ctx context.Context, symbol string) (*types.Product, error) {
	cached, err := e.cache.GetProduct(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	product, err := e.store.ProductBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}
	e.cache.SetProduct(ctx, *product)
	return product, nil
}

func (e *Engine) accountFor(ctx context.Context, userID int32) (*types.Account, error) {
	cached, err := e.cache.GetAccount(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	account, err := e.store.AccountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	e.cache.SetAccount(ctx, *account)
	return account, nil
}
