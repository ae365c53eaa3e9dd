package postgres

import (
	"context"
	"errors"
	"fmt"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CollectRepo implements ports.CollectTaskRepository.
type CollectRepo struct {
	pool Pool
}

// NewCollectRepo creates a new CollectRepo.
func NewCollectRepo(pool Pool) *CollectRepo {
	return &CollectRepo{pool: pool}
}

const collectColumns = `id, address_id, from_address, to_address, chain, token, amount::text, status, tx_hash, gas_used::text, retry_count, last_error, created_at, updated_at`

// Create inserts a new collect task.
func (r *CollectRepo) Create(ctx context.Context, t *domain.CollectTask) error {
	query := `INSERT INTO collect_tasks (id, address_id, from_address, to_address, chain, token, amount, status, tx_hash, gas_used, retry_count, last_error, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		t.ID, t.AddressID, t.FromAddress, t.ToAddress, t.Chain, t.Token,
		bigToNumeric(t.Amount), t.Status, t.TxHash, nullableBigToNumeric(t.GasUsed),
		t.RetryCount, t.LastError, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert collect task: %w", err)
	}
	return nil
}

// GetByID fetches a collect task by UUID.
func (r *CollectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.CollectTask, error) {
	query := `SELECT ` + collectColumns + ` FROM collect_tasks WHERE id = $1`
	return r.scanTask(r.pool.QueryRow(ctx, query, id))
}

// Update rewrites the mutable fields of a collect task.
func (r *CollectRepo) Update(ctx context.Context, t *domain.CollectTask) error {
	query := `UPDATE collect_tasks
		SET status = $1, tx_hash = $2, gas_used = $3, retry_count = $4, last_error = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		t.Status, t.TxHash, nullableBigToNumeric(t.GasUsed), t.RetryCount, t.LastError, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update collect task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("collect task not found: %s", t.ID)
	}
	return nil
}

// HasInFlight reports whether the address already has a PENDING or
// PROCESSING task.
func (r *CollectRepo) HasInFlight(ctx context.Context, addressID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM collect_tasks WHERE address_id = $1 AND status IN ('PENDING', 'PROCESSING'))`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, addressID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check in-flight collect task: %w", err)
	}
	return exists, nil
}

// ListRetryable returns FAILED tasks on a chain still under the retry cap.
func (r *CollectRepo) ListRetryable(ctx context.Context, chain string, maxRetries int32, limit int) ([]domain.CollectTask, error) {
	query := `SELECT ` + collectColumns + ` FROM collect_tasks
		WHERE chain = $1 AND status = 'FAILED' AND retry_count < $2
		ORDER BY updated_at ASC LIMIT $3`

	rows, err := r.pool.Query(ctx, query, chain, maxRetries, limit)
	if err != nil {
		return nil, fmt.Errorf("list retryable collect tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.CollectTask
	for rows.Next() {
		var (
			t       domain.CollectTask
			amount  string
			gasUsed *string
		)
		err := rows.Scan(
			&t.ID, &t.AddressID, &t.FromAddress, &t.ToAddress, &t.Chain, &t.Token,
			&amount, &t.Status, &t.TxHash, &gasUsed,
			&t.RetryCount, &t.LastError, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan collect task row: %w", err)
		}
		if t.Amount, err = bigFromNumeric(amount); err != nil {
			return nil, err
		}
		if t.GasUsed, err = nullableBigFromNumeric(gasUsed); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collect task rows: %w", err)
	}
	return tasks, nil
}

func (r *CollectRepo) scanTask(row pgx.Row) (*domain.CollectTask, error) {
	t := &domain.CollectTask{}
	var (
		amount  string
		gasUsed *string
	)
	err := row.Scan(
		&t.ID, &t.AddressID, &t.FromAddress, &t.ToAddress, &t.Chain, &t.Token,
		&amount, &t.Status, &t.TxHash, &gasUsed,
		&t.RetryCount, &t.LastError, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan collect task: %w", err)
	}
	if t.Amount, err = bigFromNumeric(amount); err != nil {
		return nil, err
	}
	if t.GasUsed, err = nullableBigFromNumeric(gasUsed); err != nil {
		return nil, err
	}
	return t, nil
}
