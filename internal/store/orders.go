package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// InsertOrderTx appends an order to the ledger and returns its id.
// Orders are never updated or deleted after insertion.
func (s *Store) InsertOrderTx(ctx context.Context, tx pgx.Tx, o types.Order) (int32, error) {
	var id int32
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (product_symbol, product_name, side, price, lot, expiry, created_at, user_id, product_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING order_id`,
		o.ProductSymbol, o.ProductName, string(o.Side), o.Price, o.Lot, string(o.Expiry), o.CreatedAt, o.UserID, o.ProductID,
	).Scan(&id)
	if err != nil {
		return 0, apierr.Wrap(apierr.Database, err)
	}
	return id, nil
}

// OrdersByUserID lists every order a user has placed, for GET /order.
func (s *Store) OrdersByUserID(ctx context.Context, userID int32) ([]types.Order, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT order_id, product_symbol, product_name, side, price, lot, expiry, created_at, user_id, product_id
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	defer rows.Close()

	var out []types.Order
	for rows.Next() {
		var (
			o          types.Order
			side       string
			expiry     string
		)
		if err := rows.Scan(&o.OrderID, &o.ProductSymbol, &o.ProductName, &side, &o.Price, &o.Lot, &expiry, &o.CreatedAt, &o.UserID, &o.ProductID); err != nil {
			return nil, apierr.Wrap(apierr.Database, err)
		}
		if len(side) == 1 {
			o.Side = types.Side(side[0])
		}
		o.Expiry = types.Expiry(expiry)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return out, nil
}
