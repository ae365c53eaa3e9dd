package postgres

import (
	"context"
	"math/big"
	"testing"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newTestDeposit(merchantID uuid.UUID) *domain.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	expires := now.Add(30 * time.Minute)
	return &domain.Order{
		ID:              uuid.New(),
		OrderNo:         "D20260823120000ABCD",
		OutTradeNo:      "SHOP-001",
		MerchantID:      merchantID,
		Kind:            domain.OrderKindDeposit,
		Chain:           domain.ChainEthereum,
		Token:           "usdt",
		RequestedAmount: big.NewInt(100_000_000),
		SettledAmount:   big.NewInt(0),
		Fee:             big.NewInt(0),
		NetAmount:       big.NewInt(0),
		Status:          domain.OrderStatusPending,
		WalletAddress:   "0x9aE4cB4b9d5c8f2b3c17a1bBfD1a3E22f94b0001",
		Confirmations:   0,
		RequiredConfs:   12,
		CallbackURL:     "https://merchant.example.com/notify",
		ExpiresAt:       &expires,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func orderColumnNames() []string {
	return []string{"id", "order_no", "out_trade_no", "merchant_id", "order_type", "chain", "token",
		"requested_amount", "settled_amount", "fee", "net_amount",
		"status", "wallet_address", "tx_hash", "confirmations", "required_confirmations", "block_height",
		"callback_url", "extra_data", "fail_reason", "scan_misses",
		"expires_at", "detected_at", "completed_at", "created_at", "updated_at"}
}

func orderRow(o *domain.Order) *pgxmock.Rows {
	return pgxmock.NewRows(orderColumnNames()).AddRow(
		o.ID, o.OrderNo, o.OutTradeNo, o.MerchantID, o.Kind, o.Chain, o.Token,
		o.RequestedAmount.String(), o.SettledAmount.String(), o.Fee.String(), o.NetAmount.String(),
		o.Status, o.WalletAddress, o.TxHash, o.Confirmations, o.RequiredConfs, o.BlockHeight,
		o.CallbackURL, o.ExtraData, o.FailReason, o.ScanMisses,
		o.ExpiresAt, o.DetectedAt, o.CompletedAt, o.CreatedAt, o.UpdatedAt,
	)
}

func TestOrderRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			order.ID, order.OrderNo, order.OutTradeNo, order.MerchantID, order.Kind, order.Chain, order.Token,
			order.RequestedAmount.String(), order.SettledAmount.String(), order.Fee.String(), order.NetAmount.String(),
			order.Status, order.WalletAddress, order.TxHash, order.Confirmations, order.RequiredConfs, order.BlockHeight,
			order.CallbackURL, order.ExtraData, order.FailReason, order.ScanMisses,
			order.ExpiresAt, order.DetectedAt, order.CompletedAt, order.CreatedAt, order.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), dbTx, order)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(order.ID).
		WillReturnRows(orderRow(order))

	result, err := repo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, order.OrderNo, result.OrderNo)
	assert.Equal(t, 0, result.RequestedAmount.Cmp(big.NewInt(100_000_000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(orderColumnNames()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByIDForUpdate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM orders WHERE id .+ FOR UPDATE").
		WithArgs(order.ID).
		WillReturnRows(orderRow(order))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.GetByIDForUpdate(context.Background(), dbTx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, order.ID, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_GetByOutTradeNo(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())

	mock.ExpectQuery("SELECT .+ FROM orders WHERE merchant_id .+ AND out_trade_no .+ AND order_type").
		WithArgs(order.MerchantID, order.OutTradeNo, domain.OrderKindDeposit).
		WillReturnRows(orderRow(order))

	result, err := repo.GetByOutTradeNo(context.Background(), order.MerchantID, order.OutTradeNo, domain.OrderKindDeposit)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, order.OutTradeNo, result.OutTradeNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())
	order.Status = domain.OrderStatusDetected
	order.SettledAmount = big.NewInt(100_000_000)
	order.TxHash = strPtr("0xabc123")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(
			order.SettledAmount.String(), order.Fee.String(), order.NetAmount.String(), order.Status,
			order.TxHash, order.Confirmations, order.BlockHeight, order.FailReason, order.ScanMisses,
			order.DetectedAt, order.CompletedAt, order.ID,
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), dbTx, order)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_Update_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Update(context.Background(), dbTx, order)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_ListExpiredPendingDeposits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT .+ FROM orders .+ expires_at <=").
		WithArgs(now, 100).
		WillReturnRows(orderRow(order))

	orders, err := repo.ListExpiredPendingDeposits(context.Background(), now, 100)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.OrderNo, orders[0].OrderNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepo_ClaimPendingWithdrawals(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewOrderRepo(mock)
	order := newTestDeposit(uuid.New())
	order.Kind = domain.OrderKindWithdrawal
	order.ExpiresAt = nil

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM orders .+ FOR UPDATE SKIP LOCKED").
		WithArgs(10).
		WillReturnRows(orderRow(order))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	orders, err := repo.ClaimPendingWithdrawals(context.Background(), dbTx, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderKindWithdrawal, orders[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}
