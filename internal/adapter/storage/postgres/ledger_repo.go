package postgres

import (
	"context"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LedgerRepo implements ports.LedgerRepository. Entries are append-only;
// there are deliberately no update or delete methods.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

const ledgerColumns = `id, account_id, order_id, direction, kind, amount::text, balance_before::text, balance_after::text, remark, created_at`

// Create appends a ledger entry within a database transaction.
func (r *LedgerRepo) Create(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, account_id, order_id, direction, kind, amount, balance_before, balance_after, remark, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		e.ID, e.AccountID, e.OrderID, e.Direction, e.Kind,
		bigToNumeric(e.Amount), bigToNumeric(e.BalanceBefore), bigToNumeric(e.BalanceAfter),
		e.Remark, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

// ListByAccount fetches the most recent entries for an account.
func (r *LedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()
	return r.collectEntries(rows)
}

// ListByOrder fetches all entries linked to an order, oldest first.
func (r *LedgerRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE order_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by order: %w", err)
	}
	defer rows.Close()
	return r.collectEntries(rows)
}

func (r *LedgerRepo) collectEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	var entries []domain.LedgerEntry
	for rows.Next() {
		var (
			e                     domain.LedgerEntry
			amount, before, after string
		)
		err := rows.Scan(
			&e.ID, &e.AccountID, &e.OrderID, &e.Direction, &e.Kind,
			&amount, &before, &after, &e.Remark, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if e.Amount, err = bigFromNumeric(amount); err != nil {
			return nil, err
		}
		if e.BalanceBefore, err = bigFromNumeric(before); err != nil {
			return nil, err
		}
		if e.BalanceAfter, err = bigFromNumeric(after); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}
	return entries, nil
}
