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

func newTestMerchant() *domain.Merchant {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Merchant{
		ID:             uuid.New(),
		MerchantNo:     "M2026001",
		Name:           "Acme Shop",
		DepositKeyEnc:  "enc:deposit",
		WithdrawKeyEnc: "enc:withdraw",
		Status:         domain.MerchantStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func merchantRow(m *domain.Merchant) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "merchant_no", "name", "deposit_key_enc", "withdraw_key_enc", "status", "created_at", "updated_at"}).
		AddRow(m.ID, m.MerchantNo, m.Name, m.DepositKeyEnc, m.WithdrawKeyEnc, m.Status, m.CreatedAt, m.UpdatedAt)
}

func TestMerchantRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	merchant := newTestMerchant()

	mock.ExpectExec("INSERT INTO merchants").
		WithArgs(
			merchant.ID, merchant.MerchantNo, merchant.Name,
			merchant.DepositKeyEnc, merchant.WithdrawKeyEnc,
			merchant.Status, merchant.CreatedAt, merchant.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), merchant)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetByMerchantNo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)
	merchant := newTestMerchant()

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE merchant_no").
		WithArgs(merchant.MerchantNo).
		WillReturnRows(merchantRow(merchant))

	result, err := repo.GetByMerchantNo(context.Background(), merchant.MerchantNo)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, merchant.Name, result.Name)
	assert.True(t, result.IsActive())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMerchantRepo_GetByMerchantNo_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewMerchantRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM merchants WHERE merchant_no").
		WithArgs("M_MISSING").
		WillReturnRows(pgxmock.NewRows([]string{"id", "merchant_no", "name", "deposit_key_enc", "withdraw_key_enc", "status", "created_at", "updated_at"}))

	result, err := repo.GetByMerchantNo(context.Background(), "M_MISSING")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}
