package orderengine

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// applyBuyTx upserts the (user, symbol) holding for a buy, using
// newHoldingFromBuy/accumulateBuy for the actual state computation.
func (e *Engine) applyBuyTx(ctx context.Context, tx pgx.Tx, existing *types.Portfolio, product *types.Product, userID int32, form types.OrderForm, notional int64) error {
	if existing == nil {
		p := newHoldingFromBuy(userID, product, form, notional)
		id, err := e.store.InsertPortfolioTx(ctx, tx, p)
		if err != nil {
			return err
		}
		if id != 0 {
			return nil
		}

		// Lost the insert race to a concurrent order for the same
		// (user, symbol): re-read under lock and fall onto the update
		// path instead.
		reread, err := e.store.PortfolioForUpdateTx(ctx, tx, userID, form.Symbol)
		if err != nil {
			return err
		}
		if reread == nil {
			return apierr.New(apierr.Database, "portfolio insert race unresolved")
		}
		return e.applyBuyTx(ctx, tx, reread, product, userID, form, notional)
	}

	updated := accumulateBuy(*existing, form, notional)
	return e.store.UpdatePortfolioTx(ctx, tx, updated)
}

// applySellTx reduces a holding for a sell and returns the cost basis
// removed, which the caller debits from the account's invested_value.
func (e *Engine) applySellTx(ctx context.Context, tx pgx.Tx, existing types.Portfolio, form types.OrderForm) (int64, error) {
	updated, costRemoved := reduceBySell(existing, form)
	if err := e.store.UpdatePortfolioTx(ctx, tx, updated); err != nil {
		return 0, err
	}
	return costRemoved, nil
}
