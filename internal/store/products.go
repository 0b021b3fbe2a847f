package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// ProductBySymbol looks up a product by its trading symbol.
func (s *Store) ProductBySymbol(ctx context.Context, symbol string) (*types.Product, error) {
	var p types.Product
	err := s.pool.QueryRow(ctx,
		`SELECT product_id, symbol, name FROM products WHERE symbol = $1`,
		symbol,
	).Scan(&p.ProductID, &p.Symbol, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.New(apierr.NotFound, "product not found: "+symbol)
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return &p, nil
}
