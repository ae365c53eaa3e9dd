package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Transactor hands out transactions from the connection pool. Services own
// the transaction boundary; repositories only join transactions they are
// given.
type Transactor struct {
	pool Pool
}

// NewTransactor wraps pool as a ports.DBTransactor.
func NewTransactor(pool Pool) *Transactor {
	return &Transactor{pool: pool}
}

// Begin opens a transaction on the pool.
func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return t.pool.Begin(ctx)
}
