package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// AccountByUserID looks up a user's cash account.
func (s *Store) AccountByUserID(ctx context.Context, userID int32) (*types.Account, error) {
	var a types.Account
	err := s.pool.QueryRow(ctx,
		`SELECT account_id, user_id, balance, invested_value FROM accounts WHERE user_id = $1`,
		userID,
	).Scan(&a.AccountID, &a.UserID, &a.Balance, &a.InvestedValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.New(apierr.NotFound, "account not found")
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return &a, nil
}

// AccountForUpdateTx re-reads a user's account row with a row lock held
// for the lifetime of tx, giving the caller an authoritative balance to
// debit or credit against instead of a pre-transaction cache snapshot.
func (s *Store) AccountForUpdateTx(ctx context.Context, tx pgx.Tx, userID int32) (*types.Account, error) {
	var a types.Account
	err := tx.QueryRow(ctx,
		`SELECT account_id, user_id, balance, invested_value FROM accounts WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&a.AccountID, &a.UserID, &a.Balance, &a.InvestedValue)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apierr.New(apierr.NotFound, "account not found")
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.Database, err)
	}
	return &a, nil
}

// UpdateAccountTx persists a new balance/invested_value for an account
// inside an existing transaction.
func (s *Store) UpdateAccountTx(ctx context.Context, tx pgx.Tx, a types.Account) error {
	_, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1, invested_value = $2 WHERE account_id = $3`,
		a.Balance, a.InvestedValue, a.AccountID,
	)
	if err != nil {
		return apierr.Wrap(apierr.Database, err)
	}
	return nil
}
