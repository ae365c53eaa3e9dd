package postgres

import (
	"context"
	"errors"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// HotWalletRepo implements ports.HotWalletRepository.
type HotWalletRepo struct {
	pool Pool
}

// NewHotWalletRepo creates a new HotWalletRepo.
func NewHotWalletRepo(pool Pool) *HotWalletRepo {
	return &HotWalletRepo{pool: pool}
}

// Create inserts a new hot wallet.
func (r *HotWalletRepo) Create(ctx context.Context, w *domain.HotWallet) error {
	query := `INSERT INTO hot_wallets (id, chain, address, private_key_enc, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, w.ID, w.Chain, w.Address, w.PrivateKeyEnc, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert hot wallet: %w", err)
	}
	return nil
}

// GetByChain fetches the hot wallet for a chain.
func (r *HotWalletRepo) GetByChain(ctx context.Context, chain string) (*domain.HotWallet, error) {
	query := `SELECT id, chain, address, private_key_enc, created_at FROM hot_wallets WHERE chain = $1`

	w := &domain.HotWallet{}
	err := r.pool.QueryRow(ctx, query, chain).Scan(&w.ID, &w.Chain, &w.Address, &w.PrivateKeyEnc, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get hot wallet: %w", err)
	}
	return w, nil
}
