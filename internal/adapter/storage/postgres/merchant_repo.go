package postgres

import (
	"context"
	"errors"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepo implements ports.MerchantRepository.
type MerchantRepo struct {
	pool Pool
}

// NewMerchantRepo creates a new MerchantRepo.
func NewMerchantRepo(pool Pool) *MerchantRepo {
	return &MerchantRepo{pool: pool}
}

const merchantColumns = `id, merchant_no, name, deposit_key_enc, withdraw_key_enc, status, created_at, updated_at`

// Create inserts a new merchant into the database.
func (r *MerchantRepo) Create(ctx context.Context, m *domain.Merchant) error {
	query := `INSERT INTO merchants (id, merchant_no, name, deposit_key_enc, withdraw_key_enc, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.MerchantNo, m.Name, m.DepositKeyEnc, m.WithdrawKeyEnc,
		m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert merchant: %w", err)
	}
	return nil
}

// GetByID fetches a merchant by its UUID.
func (r *MerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE id = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, id))
}

// GetByMerchantNo fetches a merchant by its public merchant number.
func (r *MerchantRepo) GetByMerchantNo(ctx context.Context, merchantNo string) (*domain.Merchant, error) {
	query := `SELECT ` + merchantColumns + ` FROM merchants WHERE merchant_no = $1`
	return r.scanMerchant(r.pool.QueryRow(ctx, query, merchantNo))
}

func (r *MerchantRepo) scanMerchant(row pgx.Row) (*domain.Merchant, error) {
	m := &domain.Merchant{}
	err := row.Scan(
		&m.ID, &m.MerchantNo, &m.Name, &m.DepositKeyEnc, &m.WithdrawKeyEnc,
		&m.Status, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan merchant: %w", err)
	}
	return m, nil
}
