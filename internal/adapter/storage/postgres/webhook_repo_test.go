package postgres

import (
	"context"
	"testing"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDelivery() *domain.WebhookDelivery {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WebhookDelivery{
		ID:         uuid.New(),
		OrderID:    uuid.New(),
		MerchantID: uuid.New(),
		URL:        "https://merchant.example.com/notify",
		Payload:    `{"order_no":"D20260823120000ABCD","status":"SUCCESS"}`,
		Signature:  "deadbeef",
		Attempt:    0,
		Status:     domain.WebhookStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func deliveryColumnNames() []string {
	return []string{"id", "order_id", "merchant_id", "url", "payload", "signature", "attempt", "status", "next_retry_at", "last_http_status", "last_error", "created_at", "updated_at"}
}

func deliveryRow(d *domain.WebhookDelivery) *pgxmock.Rows {
	return pgxmock.NewRows(deliveryColumnNames()).AddRow(
		d.ID, d.OrderID, d.MerchantID, d.URL, d.Payload, d.Signature,
		d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError,
		d.CreatedAt, d.UpdatedAt,
	)
}

func TestWebhookRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	d := newTestDelivery()

	mock.ExpectExec("INSERT INTO webhook_deliveries").
		WithArgs(
			d.ID, d.OrderID, d.MerchantID, d.URL, d.Payload, d.Signature,
			d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError,
			d.CreatedAt, d.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	d := newTestDelivery()
	d.Attempt = 1
	next := time.Now().UTC().Add(domain.WebhookRetrySchedule[0])
	d.NextRetryAt = &next
	httpStatus := 500
	d.LastHTTP = &httpStatus

	mock.ExpectExec("UPDATE webhook_deliveries").
		WithArgs(d.Attempt, d.Status, d.NextRetryAt, d.LastHTTP, d.LastError, d.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.Update(context.Background(), d)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookRepo_ListDue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewWebhookRepo(mock)
	d := newTestDelivery()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM webhook_deliveries .+next_retry_at IS NULL OR next_retry_at <=").
		WithArgs(now, 50).
		WillReturnRows(deliveryRow(d))

	due, err := repo.ListDue(context.Background(), now, 50)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, d.ID, due[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
