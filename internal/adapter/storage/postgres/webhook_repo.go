package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

// NewWebhookRepo creates a new WebhookRepo.
func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

const webhookColumns = `id, order_id, merchant_id, url, payload, signature, attempt, status, next_retry_at, last_http_status, last_error, created_at, updated_at`

const webhookInsert = `INSERT INTO webhook_deliveries (id, order_id, merchant_id, url, payload, signature, attempt, status, next_retry_at, last_http_status, last_error, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Create inserts a new webhook delivery record.
func (r *WebhookRepo) Create(ctx context.Context, d *domain.WebhookDelivery) error {
	_, err := r.pool.Exec(ctx, webhookInsert,
		d.ID, d.OrderID, d.MerchantID, d.URL, d.Payload, d.Signature,
		d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}

// CreateTx inserts a delivery inside a caller-owned transaction, so the
// row commits together with the order transition that produced it.
func (r *WebhookRepo) CreateTx(ctx context.Context, tx pgx.Tx, d *domain.WebhookDelivery) error {
	_, err := tx.Exec(ctx, webhookInsert,
		d.ID, d.OrderID, d.MerchantID, d.URL, d.Payload, d.Signature,
		d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook delivery: %w", err)
	}
	return nil
}

// Update rewrites the retry state of a delivery.
func (r *WebhookRepo) Update(ctx context.Context, d *domain.WebhookDelivery) error {
	query := `UPDATE webhook_deliveries
		SET attempt = $1, status = $2, next_retry_at = $3, last_http_status = $4, last_error = $5, updated_at = NOW()
		WHERE id = $6`

	tag, err := r.pool.Exec(ctx, query,
		d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update webhook delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("webhook delivery not found: %s", d.ID)
	}
	return nil
}

// GetByID fetches a delivery by UUID.
func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_deliveries WHERE id = $1`

	d := &domain.WebhookDelivery{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.OrderID, &d.MerchantID, &d.URL, &d.Payload, &d.Signature,
		&d.Attempt, &d.Status, &d.NextRetryAt, &d.LastHTTP, &d.LastError,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook delivery: %w", err)
	}
	return d, nil
}

// ListDue returns PENDING deliveries whose next attempt time has passed.
func (r *WebhookRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhook_deliveries
		WHERE status = 'PENDING' AND (next_retry_at IS NULL OR next_retry_at <= $1)
		ORDER BY created_at ASC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due webhook deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []domain.WebhookDelivery
	for rows.Next() {
		var d domain.WebhookDelivery
		err := rows.Scan(
			&d.ID, &d.OrderID, &d.MerchantID, &d.URL, &d.Payload, &d.Signature,
			&d.Attempt, &d.Status, &d.NextRetryAt, &d.LastHTTP, &d.LastError,
			&d.CreatedAt, &d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan webhook delivery row: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook delivery rows: %w", err)
	}
	return deliveries, nil
}
