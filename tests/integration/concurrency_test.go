package integration

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"testing"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentDeposits_DistinctAddressAmountPairs(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	merchant := app.seedMerchant(t, "M30001")

	const workers = 8
	results := make([]*ports.CreateDepositResponse, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = app.depositSvc.CreateDeposit(ctx, ports.CreateDepositRequest{
				MerchantID: merchant.ID,
				OutTradeNo: fmt.Sprintf("inv-par-%d", i),
				Chain:      testChain,
				Token:      testToken,
				Amount:     "100",
			})
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "deposit %d", i)
		require.NotNil(t, results[i])
		assert.Equal(t, domain.OrderStatusPending, results[i].Order.Status)

		// No two open deposits may share an address and payable amount,
		// otherwise their on-chain transfers would be indistinguishable.
		key := results[i].WalletAddress + "/" + results[i].PayAmount.String()
		assert.False(t, seen[key], "duplicate slot %s", key)
		seen[key] = true
	}
}

func TestConcurrentLedgerPosts_SerializedBalance(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	merchant := app.seedMerchant(t, "M30002")

	const posts = 50
	var wg sync.WaitGroup
	for i := 0; i < posts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := app.ledgerSvc.Post(ctx, ports.PostRequest{
				MerchantID: merchant.ID,
				Token:      testToken,
				Direction:  domain.EntryDirectionCredit,
				Kind:       domain.EntryKindPrincipal,
				Amount:     big.NewInt(1),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	balance, err := app.ledgerSvc.Balance(ctx, merchant.ID, testToken)
	require.NoError(t, err)
	assert.Equal(t, int64(posts), balance.Int64())

	// Every entry must chain off the previous one: postings serialized,
	// no lost updates.
	entries := app.ledger.all()
	require.Len(t, entries, posts)
	for i, e := range entries {
		assert.True(t, e.Consistent(), "entry %d inconsistent", i)
		if i > 0 {
			assert.Zero(t, e.BalanceBefore.Cmp(entries[i-1].BalanceAfter),
				"entry %d does not chain off entry %d", i, i-1)
		}
	}
}

func TestConcurrentWithdrawals_NoOverdraft(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	merchant := app.seedMerchant(t, "M30003")

	// 100 USDT funds at most three 30 USDT withdrawals.
	_, err := app.ledgerSvc.Post(ctx, ports.PostRequest{
		MerchantID: merchant.ID,
		Token:      testToken,
		Direction:  domain.EntryDirectionCredit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     big.NewInt(100000000),
		Remark:     "test funding",
	})
	require.NoError(t, err)

	const workers = 10
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = app.withdrawalSvc.CreateWithdrawal(ctx, ports.CreateWithdrawalRequest{
				MerchantID: merchant.ID,
				OutTradeNo: fmt.Sprintf("wd-par-%d", i),
				Chain:      testChain,
				Token:      testToken,
				Amount:     "30",
				ToAddress:  "0x000000000000000000000000000000000000dead",
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 3, succeeded)

	balance, err := app.ledgerSvc.Balance(ctx, merchant.ID, testToken)
	require.NoError(t, err)
	assert.Equal(t, "10000000", balance.String())
	assert.True(t, balance.Sign() >= 0)

	// One funding credit plus one debit per accepted withdrawal; the
	// rejected ones left nothing behind.
	entries := app.ledger.all()
	assert.Len(t, entries, 1+succeeded)
	for i, e := range entries {
		assert.True(t, e.Consistent(), "entry %d inconsistent", i)
	}
}

func TestConcurrentTransferRegistration_SingleDetection(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	merchant := app.seedMerchant(t, "M30004")

	created, err := app.depositSvc.CreateDeposit(ctx, ports.CreateDepositRequest{
		MerchantID: merchant.ID,
		OutTradeNo: "inv-race-1",
		Chain:      testChain,
		Token:      testToken,
		Amount:     "60",
	})
	require.NoError(t, err)

	transfer := domain.IncomingTransfer{
		Chain:       testChain,
		TxHash:      "0xbbbb000000000000000000000000000000000000000000000000000000000001",
		To:          created.WalletAddress,
		Token:       testToken,
		Amount:      new(big.Int).Set(created.PayAmount),
		BlockHeight: 2001,
	}

	// The scanner may report the same transfer more than once; detection
	// must happen exactly once.
	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, app.depositSvc.RegisterTransfer(ctx, transfer))
		}()
	}
	wg.Wait()

	order, err := app.orders.GetByID(ctx, created.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDetected, order.Status)
	require.NotNil(t, order.TxHash)
	assert.Equal(t, transfer.TxHash, *order.TxHash)

	// Concurrent confirmation passes credit the ledger exactly once.
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, app.depositSvc.ConfirmDeposit(ctx, order.ID, 2))
		}()
	}
	wg.Wait()

	order, err = app.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusSuccess, order.Status)

	entries, err := app.ledger.ListByOrder(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.EntryDirectionCredit, entries[0].Direction)
	assert.Zero(t, entries[0].Amount.Cmp(created.PayAmount))

	balance, err := app.ledgerSvc.Balance(ctx, merchant.ID, testToken)
	require.NoError(t, err)
	assert.Zero(t, balance.Cmp(created.PayAmount))
}
