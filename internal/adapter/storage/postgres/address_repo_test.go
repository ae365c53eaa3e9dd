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

func newTestAddress() *domain.DepositAddress {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.DepositAddress{
		ID:            uuid.New(),
		MerchantID:    uuid.New(),
		Chain:         domain.ChainEthereum,
		Token:         "usdt",
		Address:       "0x52908400098527886E0F7030069857D2E4169EE7",
		PrivateKeyEnc: "enc:key",
		Status:        domain.AddressStatusAvailable,
		TotalReceived: big.NewInt(0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func addressColumnNames() []string {
	return []string{"id", "merchant_id", "chain", "token", "address", "private_key_enc", "status", "total_received", "last_activity_at", "created_at", "updated_at"}
}

func addressRow(a *domain.DepositAddress) *pgxmock.Rows {
	return pgxmock.NewRows(addressColumnNames()).AddRow(
		a.ID, a.MerchantID, a.Chain, a.Token, a.Address, a.PrivateKeyEnc,
		a.Status, a.TotalReceived.String(), a.LastActivityAt, a.CreatedAt, a.UpdatedAt,
	)
}

func TestAddressRepo_GetByAddress(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAddressRepo(mock)
	addr := newTestAddress()

	mock.ExpectQuery("SELECT .+ FROM deposit_addresses WHERE chain .+ AND address").
		WithArgs(addr.Chain, addr.Address).
		WillReturnRows(addressRow(addr))

	result, err := repo.GetByAddress(context.Background(), addr.Chain, addr.Address)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, addr.Address, result.Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepo_GetByAddress_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAddressRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM deposit_addresses WHERE chain .+ AND address").
		WithArgs(domain.ChainEthereum, "0xdead").
		WillReturnRows(pgxmock.NewRows(addressColumnNames()))

	result, err := repo.GetByAddress(context.Background(), domain.ChainEthereum, "0xdead")
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepo_AcquireAvailable(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAddressRepo(mock)
	addr := newTestAddress()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .+ FROM deposit_addresses .+ FOR UPDATE SKIP LOCKED").
		WithArgs(addr.MerchantID, addr.Chain, addr.Token).
		WillReturnRows(addressRow(addr))

	dbTx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	result, err := repo.AcquireAvailable(context.Background(), dbTx, addr.MerchantID, addr.Chain, addr.Token)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, domain.AddressStatusAvailable, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepo_ListActiveByChain(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAddressRepo(mock)
	addr := newTestAddress()

	mock.ExpectQuery("SELECT .+ FROM deposit_addresses .+ status != 'DISABLED'").
		WithArgs(domain.ChainEthereum).
		WillReturnRows(addressRow(addr))

	addrs, err := repo.ListActiveByChain(context.Background(), domain.ChainEthereum)
	require.NoError(t, err)
	require.Len(t, addrs, 1)
	assert.Equal(t, addr.Address, addrs[0].Address)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddressRepo_RecordActivity(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewAddressRepo(mock)
	addr := newTestAddress()
	at := time.Now().UTC()

	mock.ExpectExec("UPDATE deposit_addresses").
		WithArgs("100000000", at, addr.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.RecordActivity(context.Background(), addr.ID, big.NewInt(100_000_000), at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
