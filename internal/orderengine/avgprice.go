package orderengine

import (
	"github.com/shopspring/decimal"

	"github.com/fireorder/gateway/pkg/types"
)

// newHoldingFromBuy computes the portfolio state for a symbol a user has
// never held before: avg_price is simply the order's price.
func newHoldingFromBuy(userID int32, product *types.Product, form types.OrderForm, notional int64) types.Portfolio {
	return types.Portfolio{
		UserID:        userID,
		ProductID:     product.ProductID,
		ProductName:   product.Name,
		ProductSymbol: product.Symbol,
		Lot:           form.Lot,
		InvestedValue: notional,
		AvgPrice:      decimal.NewFromInt(int64(form.Price)),
	}
}

// accumulateBuy computes the new portfolio state after a buy fill
// against an existing holding: new_avg is the lot-weighted average of
// the existing holding and this fill,
//
//	new_avg = (order.price * order.lot + existing.avg_price * existing.lot) / new_lot
func accumulateBuy(existing types.Portfolio, form types.OrderForm, notional int64) types.Portfolio {
	orderPrice := decimal.NewFromInt(int64(form.Price))
	orderLot := decimal.NewFromInt(int64(form.Lot))
	existingLot := decimal.NewFromInt(int64(existing.Lot))

	newLot := existing.Lot + form.Lot
	newAvg := orderPrice.Mul(orderLot).
		Add(existing.AvgPrice.Mul(existingLot)).
		Div(decimal.NewFromInt(int64(newLot)))

	existing.Lot = newLot
	existing.InvestedValue += notional
	existing.AvgPrice = newAvg
	return existing
}

// reduceBySell computes the new portfolio state after a sell fill and
// the cost basis removed (avg_price * lot_sold * LotSize), which the
// caller debits from the account's invested_value to mirror the credit
// to its balance. avg_price is left unchanged for the remaining lots,
// per the standard average-cost accounting method.
func reduceBySell(existing types.Portfolio, form types.OrderForm) (types.Portfolio, int64) {
	sellLot := decimal.NewFromInt(int64(form.Lot))
	costRemoved := existing.AvgPrice.
		Mul(sellLot).
		Mul(decimal.NewFromInt(types.LotSize)).
		Round(0).
		IntPart()

	existing.Lot -= form.Lot
	existing.InvestedValue -= costRemoved
	if existing.Lot == 0 {
		existing.InvestedValue = 0
	}
	return existing, costRemoved
}
