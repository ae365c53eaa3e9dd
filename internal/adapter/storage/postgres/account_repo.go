package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AccountRepo implements ports.AccountRepository.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, merchant_id, token, balance::text, created_at, updated_at`

// Create inserts a new account within a database transaction.
func (r *AccountRepo) Create(ctx context.Context, tx pgx.Tx, a *domain.Account) error {
	query := `INSERT INTO accounts (id, merchant_id, token, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		a.ID, a.MerchantID, a.Token, bigToNumeric(a.Balance),
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByMerchantToken fetches an account without locking.
func (r *AccountRepo) GetByMerchantToken(ctx context.Context, merchantID uuid.UUID, token string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE merchant_id = $1 AND token = $2`
	return r.scanAccount(r.pool.QueryRow(ctx, query, merchantID, token))
}

// GetByMerchantTokenForUpdate fetches an account with a row lock. Concurrent
// postings to the same account serialize on this lock.
func (r *AccountRepo) GetByMerchantTokenForUpdate(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, token string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE merchant_id = $1 AND token = $2 FOR UPDATE`
	return r.scanAccount(tx.QueryRow(ctx, query, merchantID, token))
}

// UpdateBalance writes the derived balance within a database transaction.
func (r *AccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance *big.Int) error {
	query := `UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, bigToNumeric(balance), accountID)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %s", accountID)
	}
	return nil
}

func (r *AccountRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	a := &domain.Account{}
	var balance string
	err := row.Scan(&a.ID, &a.MerchantID, &a.Token, &balance, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	if a.Balance, err = bigFromNumeric(balance); err != nil {
		return nil, fmt.Errorf("scan account balance: %w", err)
	}
	return a, nil
}
