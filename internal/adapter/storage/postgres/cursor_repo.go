package postgres

import (
	"context"
	"errors"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// CursorRepo implements ports.ChainCursorRepository.
type CursorRepo struct {
	pool Pool
}

// NewCursorRepo creates a new CursorRepo.
func NewCursorRepo(pool Pool) *CursorRepo {
	return &CursorRepo{pool: pool}
}

// Get fetches the cursor for a chain, or nil when the chain has never been
// scanned.
func (r *CursorRepo) Get(ctx context.Context, chain string) (*domain.ChainCursor, error) {
	query := `SELECT chain, height, last_scanned_at, scan_lag, updated_at FROM chain_cursors WHERE chain = $1`

	c := &domain.ChainCursor{}
	err := r.pool.QueryRow(ctx, query, chain).Scan(
		&c.Chain, &c.Height, &c.LastScannedAt, &c.ScanLag, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chain cursor: %w", err)
	}
	return c, nil
}

// Upsert writes the cursor position for a chain.
func (r *CursorRepo) Upsert(ctx context.Context, c *domain.ChainCursor) error {
	query := `INSERT INTO chain_cursors (chain, height, last_scanned_at, scan_lag, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (chain) DO UPDATE
		SET height = EXCLUDED.height, last_scanned_at = EXCLUDED.last_scanned_at, scan_lag = EXCLUDED.scan_lag, updated_at = NOW()`

	_, err := r.pool.Exec(ctx, query, c.Chain, c.Height, c.LastScannedAt, c.ScanLag)
	if err != nil {
		return fmt.Errorf("upsert chain cursor: %w", err)
	}
	return nil
}
