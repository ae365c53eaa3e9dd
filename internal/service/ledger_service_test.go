package service

import (
	"context"
	"math/big"
	"testing"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/internal/core/ports/mocks"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newLedgerFixture(t *testing.T) (*LedgerServiceImpl, *mocks.MockAccountRepository, *mocks.MockLedgerRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	ledgerRepo := mocks.NewMockLedgerRepository(ctrl)
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	svc := NewLedgerService(accountRepo, ledgerRepo, pool, zerolog.Nop())
	return svc, accountRepo, ledgerRepo, pool
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestLedgerService_Post_Credit(t *testing.T) {
	svc, accountRepo, ledgerRepo, pool := newLedgerFixture(t)
	ctx := context.Background()
	merchantID := uuid.New()
	account := &domain.Account{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Token:      "USDT",
		Balance:    big.NewInt(100_000_000),
	}

	pool.ExpectBegin()
	pool.ExpectCommit()

	accountRepo.EXPECT().
		GetByMerchantTokenForUpdate(ctx, gomock.Any(), merchantID, "USDT").
		Return(account, nil)

	var created *domain.LedgerEntry
	ledgerRepo.EXPECT().
		Create(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ interface{}, e *domain.LedgerEntry) error {
			created = e
			return nil
		})
	accountRepo.EXPECT().
		UpdateBalance(ctx, gomock.Any(), account.ID, big.NewInt(150_000_000)).
		Return(nil)

	entry, err := svc.Post(ctx, ports.PostRequest{
		MerchantID: merchantID,
		Token:      "USDT",
		Direction:  domain.EntryDirectionCredit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     big.NewInt(50_000_000),
		Remark:     "deposit D20240216120000AABB",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "100000000", entry.BalanceBefore.String())
	assert.Equal(t, "150000000", entry.BalanceAfter.String())
	assert.True(t, entry.Consistent())
	require.NotNil(t, entry.Remark)
	assert.Equal(t, "deposit D20240216120000AABB", *entry.Remark)
	require.NoError(t, pool.ExpectationsWereMet())
}

func TestLedgerService_PostTx_Debit_InsufficientBalance(t *testing.T) {
	svc, accountRepo, _, pool := newLedgerFixture(t)
	ctx := context.Background()
	merchantID := uuid.New()
	account := &domain.Account{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Token:      "USDT",
		Balance:    big.NewInt(30_000_000),
	}

	pool.ExpectBegin()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	accountRepo.EXPECT().
		GetByMerchantTokenForUpdate(ctx, tx, merchantID, "USDT").
		Return(account, nil)

	_, err = svc.PostTx(ctx, tx, ports.PostRequest{
		MerchantID: merchantID,
		Token:      "USDT",
		Direction:  domain.EntryDirectionDebit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     big.NewInt(50_000_000),
	})
	assertAppErrorCode(t, err, "PAY_001")
}

func TestLedgerService_PostTx_Debit_MissingAccount(t *testing.T) {
	svc, accountRepo, _, pool := newLedgerFixture(t)
	ctx := context.Background()
	merchantID := uuid.New()

	pool.ExpectBegin()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	accountRepo.EXPECT().
		GetByMerchantTokenForUpdate(ctx, tx, merchantID, "USDT").
		Return(nil, nil)

	_, err = svc.PostTx(ctx, tx, ports.PostRequest{
		MerchantID: merchantID,
		Token:      "USDT",
		Direction:  domain.EntryDirectionDebit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     big.NewInt(1),
	})
	assertAppErrorCode(t, err, "PAY_001")
}

func TestLedgerService_PostTx_FirstCredit_CreatesAccount(t *testing.T) {
	svc, accountRepo, ledgerRepo, pool := newLedgerFixture(t)
	ctx := context.Background()
	merchantID := uuid.New()

	pool.ExpectBegin()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	accountRepo.EXPECT().
		GetByMerchantTokenForUpdate(ctx, tx, merchantID, "USDT").
		Return(nil, nil)
	accountRepo.EXPECT().
		Create(ctx, tx, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ interface{}, a *domain.Account) error {
			assert.Equal(t, merchantID, a.MerchantID)
			assert.Equal(t, "USDT", a.Token)
			assert.Zero(t, a.Balance.Sign())
			return nil
		})
	ledgerRepo.EXPECT().Create(ctx, tx, gomock.Any()).Return(nil)
	accountRepo.EXPECT().
		UpdateBalance(ctx, tx, gomock.Any(), big.NewInt(25)).
		Return(nil)

	entry, err := svc.PostTx(ctx, tx, ports.PostRequest{
		MerchantID: merchantID,
		Token:      "USDT",
		Direction:  domain.EntryDirectionCredit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     big.NewInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "0", entry.BalanceBefore.String())
	assert.Equal(t, "25", entry.BalanceAfter.String())
}

func TestLedgerService_PostTx_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, _, pool := newLedgerFixture(t)
	ctx := context.Background()

	pool.ExpectBegin()
	tx, err := pool.Begin(ctx)
	require.NoError(t, err)

	for _, amount := range []*big.Int{nil, big.NewInt(0), big.NewInt(-5)} {
		_, err := svc.PostTx(ctx, tx, ports.PostRequest{
			MerchantID: uuid.New(),
			Token:      "USDT",
			Direction:  domain.EntryDirectionCredit,
			Kind:       domain.EntryKindPrincipal,
			Amount:     amount,
		})
		assertAppErrorCode(t, err, "PAY_002")
	}
}

func TestLedgerService_Balance_MissingAccountIsZero(t *testing.T) {
	svc, accountRepo, _, _ := newLedgerFixture(t)
	ctx := context.Background()
	merchantID := uuid.New()

	accountRepo.EXPECT().
		GetByMerchantToken(ctx, merchantID, "USDT").
		Return(nil, nil)

	balance, err := svc.Balance(ctx, merchantID, "USDT")
	require.NoError(t, err)
	assert.Zero(t, balance.Sign())
}
