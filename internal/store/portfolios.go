package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// PortfolioForUpdateTx reads the (user_id, product_symbol) portfolio row
// and locks it for the remainder of the transaction, returning (nil,
// nil) when no such holding exists yet. This lock is what serializes
// concurrent orders against the same holding.
func (s *Store) PortfolioForUpdateTx(ctx context.Context, tx pgx.Tx, userID int32, symbol string) (*types.Portfolio, error) {
	var p types.Portfolio
	err := tx.QueryRow(ctx,
		`SELECT portfolio_id, user_id, product_id, product_name, product_symbol, lot, invested_value, avg_price
		 FROM portfolios WHERE user_id = $1 AND product_symbol = $2 FOR UPDATE`,
		userID, symbol,
	).Scan(&p.PortfolioID, &p.UserID, &p.ProductID, &p.ProductName, &p.ProductSymbol, &p.Lot, &p.InvestedValue, &p.AvgPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return &p, nil
}

// InsertPortfolioTx creates a new holding row. Because a concurrent
// order for the same (user_id, product_symbol) could have inserted its
// own first row between the caller's initial FOR UPDATE read (which saw
// no row) and this insert, the insert is guarded with ON CONFLICT DO
// NOTHING: a returned id of 0 means the caller lost that race and must
// re-read the row and fall onto the update path instead.
func (s *Store) InsertPortfolioTx(ctx context.Context, tx pgx.Tx, p types.Portfolio) (int32, error) {
	var id int32
	err := tx.QueryRow(ctx,
		`INSERT INTO portfolios (user_id, product_id, product_name, product_symbol, lot, invested_value, avg_price)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, product_symbol) DO NOTHING
		 RETURNING portfolio_id`,
		p.UserID, p.ProductID, p.ProductName, p.ProductSymbol, p.Lot, p.InvestedValue, p.AvgPrice,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, apierr.Wrap(apierr.Database, err)
	}
	return id, nil
}

// UpdatePortfolioTx persists a holding's new lot/invested_value/avg_price.
func (s *Store) UpdatePortfolioTx(ctx context.Context, tx pgx.Tx, p types.Portfolio) error {
	_, err := tx.Exec(ctx,
		`UPDATE portfolios SET lot = $1, invested_value = $2, avg_price = $3 WHERE portfolio_id = $4`,
		p.Lot, p.InvestedValue, p.AvgPrice, p.PortfolioID,
	)
	if err != nil {
		return apierr.Wrap(apierr.Database, err)
	}
	return nil
}

// PortfoliosByUserID lists every holding for GET /portfolio.
func (s *Store) PortfoliosByUserID(ctx context.Context, userID int32) ([]types.Portfolio, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT portfolio_id, user_id, product_id, product_name, product_symbol, lot, invested_value, avg_price
		 FROM portfolios WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	defer rows.Close()

	var out []types.Portfolio
	for rows.Next() {
		var p types.Portfolio
		if err := rows.Scan(&p.PortfolioID, &p.UserID, &p.ProductID, &p.ProductName, &p.ProductSymbol, &p.Lot, &p.InvestedValue, &p.AvgPrice); err != nil {
			return nil, apierr.Wrap(apierr.Database, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return out, nil
}
