package postgres

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddressRepo implements ports.DepositAddressRepository.
type AddressRepo struct {
	pool Pool
}

// NewAddressRepo creates a new AddressRepo.
func NewAddressRepo(pool Pool) *AddressRepo {
	return &AddressRepo{pool: pool}
}

const addressColumns = `id, merchant_id, chain, token, address, private_key_enc, status, total_received::text, last_activity_at, created_at, updated_at`

// Create inserts a new deposit address.
func (r *AddressRepo) Create(ctx context.Context, a *domain.DepositAddress) error {
	query := `INSERT INTO deposit_addresses (id, merchant_id, chain, token, address, private_key_enc, status, total_received, last_activity_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.MerchantID, a.Chain, a.Token, a.Address, a.PrivateKeyEnc,
		a.Status, bigToNumeric(a.TotalReceived), a.LastActivityAt,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert deposit address: %w", err)
	}
	return nil
}

// GetByAddress fetches a deposit address by its on-chain address.
func (r *AddressRepo) GetByAddress(ctx context.Context, chain, address string) (*domain.DepositAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM deposit_addresses WHERE chain = $1 AND address = $2`
	return r.scanAddress(r.pool.QueryRow(ctx, query, chain, address))
}

// AcquireAvailable locks one AVAILABLE address for the (merchant, chain,
// token) triple, or returns nil when none exists. SKIP LOCKED keeps
// concurrent allocations from fighting over the same row.
func (r *AddressRepo) AcquireAvailable(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, chain, token string) (*domain.DepositAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM deposit_addresses
		WHERE merchant_id = $1 AND chain = $2 AND token = $3 AND status = 'AVAILABLE'
		ORDER BY created_at ASC LIMIT 1
		FOR UPDATE SKIP LOCKED`
	return r.scanAddress(tx.QueryRow(ctx, query, merchantID, chain, token))
}

// ListActiveByChain returns all non-disabled addresses on a chain, the set
// the scanner watches.
func (r *AddressRepo) ListActiveByChain(ctx context.Context, chain string) ([]domain.DepositAddress, error) {
	query := `SELECT ` + addressColumns + ` FROM deposit_addresses
		WHERE chain = $1 AND status != 'DISABLED'
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, chain)
	if err != nil {
		return nil, fmt.Errorf("list active addresses: %w", err)
	}
	defer rows.Close()

	var addrs []domain.DepositAddress
	for rows.Next() {
		var (
			a        domain.DepositAddress
			received string
		)
		err := rows.Scan(
			&a.ID, &a.MerchantID, &a.Chain, &a.Token, &a.Address, &a.PrivateKeyEnc,
			&a.Status, &received, &a.LastActivityAt, &a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		if a.TotalReceived, err = bigFromNumeric(received); err != nil {
			return nil, err
		}
		addrs = append(addrs, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}
	return addrs, nil
}

// UpdateStatus changes the assignment status within a transaction.
func (r *AddressRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.AddressStatus) error {
	query := `UPDATE deposit_addresses SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := tx.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update address status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("deposit address not found: %s", id)
	}
	return nil
}

// RecordActivity adds to the cumulative received amount and stamps the
// last activity time.
func (r *AddressRepo) RecordActivity(ctx context.Context, id uuid.UUID, received *big.Int, at time.Time) error {
	query := `UPDATE deposit_addresses
		SET total_received = total_received + $1, last_activity_at = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.pool.Exec(ctx, query, bigToNumeric(received), at, id)
	if err != nil {
		return fmt.Errorf("record address activity: %w", err)
	}
	return nil
}

func (r *AddressRepo) scanAddress(row pgx.Row) (*domain.DepositAddress, error) {
	a := &domain.DepositAddress{}
	var received string
	err := row.Scan(
		&a.ID, &a.MerchantID, &a.Chain, &a.Token, &a.Address, &a.PrivateKeyEnc,
		&a.Status, &received, &a.LastActivityAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan deposit address: %w", err)
	}
	if a.TotalReceived, err = bigFromNumeric(received); err != nil {
		return nil, fmt.Errorf("scan address total_received: %w", err)
	}
	return a, nil
}
