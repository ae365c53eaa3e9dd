package domain

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerchant_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status MerchantStatus
		want   bool
	}{
		{"active", MerchantStatusActive, true},
		{"suspended", MerchantStatusSuspended, false},
		{"deactivated", MerchantStatusDeactivated, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Merchant{Status: tt.status}
			assert.Equal(t, tt.want, m.IsActive())
		})
	}
}

func TestOrder_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status OrderStatus
		want   bool
	}{
		{"pending", OrderStatusPending, false},
		{"detected", OrderStatusDetected, false},
		{"confirming", OrderStatusConfirming, false},
		{"processing", OrderStatusProcessing, false},
		{"success", OrderStatusSuccess, true},
		{"expired", OrderStatusExpired, true},
		{"failed", OrderStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Status: tt.status}
			assert.Equal(t, tt.want, o.IsTerminal())
		})
	}
}

func TestOrder_CanTransition_Deposit(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to detected", OrderStatusPending, OrderStatusDetected, true},
		{"pending to expired", OrderStatusPending, OrderStatusExpired, true},
		{"pending to success", OrderStatusPending, OrderStatusSuccess, false},
		{"detected to confirming", OrderStatusDetected, OrderStatusConfirming, true},
		{"detected to success", OrderStatusDetected, OrderStatusSuccess, true},
		{"confirming to success", OrderStatusConfirming, OrderStatusSuccess, true},
		{"confirming to failed", OrderStatusConfirming, OrderStatusFailed, true},
		{"success is terminal", OrderStatusSuccess, OrderStatusFailed, false},
		{"expired is terminal", OrderStatusExpired, OrderStatusDetected, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Kind: OrderKindDeposit, Status: tt.from}
			assert.Equal(t, tt.want, o.CanTransition(tt.to))
		})
	}
}

func TestOrder_CanTransition_Withdrawal(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"pending to failed", OrderStatusPending, OrderStatusFailed, true},
		{"pending to success", OrderStatusPending, OrderStatusSuccess, false},
		{"processing to success", OrderStatusProcessing, OrderStatusSuccess, true},
		{"processing to failed", OrderStatusProcessing, OrderStatusFailed, true},
		{"withdrawal never expires", OrderStatusPending, OrderStatusExpired, false},
		{"failed is terminal", OrderStatusFailed, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{Kind: OrderKindWithdrawal, Status: tt.from}
			assert.Equal(t, tt.want, o.CanTransition(tt.to))
		})
	}
}

func TestOrder_Expired_ExactBoundary(t *testing.T) {
	deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	o := &Order{
		Kind:      OrderKindDeposit,
		Status:    OrderStatusPending,
		ExpiresAt: &deadline,
	}

	assert.False(t, o.Expired(deadline.Add(-time.Nanosecond)))
	assert.True(t, o.Expired(deadline), "expiry is inclusive at the exact instant")
	assert.True(t, o.Expired(deadline.Add(time.Second)))

	// A detected order no longer expires.
	o.Status = OrderStatusDetected
	assert.False(t, o.Expired(deadline.Add(time.Hour)))
}

func TestLedgerEntry_Signed(t *testing.T) {
	credit := &LedgerEntry{Direction: EntryDirectionCredit, Amount: big.NewInt(100)}
	debit := &LedgerEntry{Direction: EntryDirectionDebit, Amount: big.NewInt(100)}

	assert.Equal(t, int64(100), credit.Signed().Int64())
	assert.Equal(t, int64(-100), debit.Signed().Int64())
}

func TestLedgerEntry_Consistent(t *testing.T) {
	ok := &LedgerEntry{
		Direction:     EntryDirectionDebit,
		Amount:        big.NewInt(30),
		BalanceBefore: big.NewInt(100),
		BalanceAfter:  big.NewInt(70),
	}
	assert.True(t, ok.Consistent())

	bad := &LedgerEntry{
		Direction:     EntryDirectionCredit,
		Amount:        big.NewInt(30),
		BalanceBefore: big.NewInt(100),
		BalanceAfter:  big.NewInt(120),
	}
	assert.False(t, bad.Consistent())
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int
		want     string
		wantErr  bool
	}{
		{"whole", "100", 6, "100000000", false},
		{"fractional", "1.5", 6, "1500000", false},
		{"full precision", "0.000001", 6, "1", false},
		{"eighteen decimals", "2.5", 18, "2500000000000000000", false},
		{"leading dot", ".5", 6, "500000", false},
		{"zero", "0", 6, "0", false},
		{"too many decimals", "0.0000001", 6, "", true},
		{"negative", "-1", 6, "", true},
		{"garbage", "12x4", 6, "", true},
		{"empty", "", 6, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		units    *big.Int
		decimals int
		want     string
	}{
		{"whole", big.NewInt(100000000), 6, "100"},
		{"fractional", big.NewInt(1500000), 6, "1.5"},
		{"sub unit", big.NewInt(1), 6, "0.000001"},
		{"zero", big.NewInt(0), 6, "0"},
		{"negative", big.NewInt(-1500000), 6, "-1.5"},
		{"nil", nil, 6, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(tt.units, tt.decimals))
		})
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, s := range []string{"0.1", "123456.654321", "1", "0.000001"} {
		units, err := ParseUnits(s, 6)
		require.NoError(t, err)
		assert.Equal(t, s, FormatUnits(units, 6))
	}
}

func TestComputeFee(t *testing.T) {
	amount := big.NewInt(100_000_000) // 100 USDT at 6 decimals

	// 0.5% + 1 USDT fixed
	fee := ComputeFee(amount, 50, big.NewInt(1_000_000))
	assert.Equal(t, int64(1_500_000), fee.Int64())

	// percentage only
	fee = ComputeFee(amount, 100, nil)
	assert.Equal(t, int64(1_000_000), fee.Int64())

	// zero fee
	fee = ComputeFee(amount, 0, nil)
	assert.Equal(t, int64(0), fee.Int64())
}

func TestWebhookRetrySchedule(t *testing.T) {
	want := []time.Duration{
		time.Minute,
		5 * time.Minute,
		15 * time.Minute,
		time.Hour,
		6 * time.Hour,
	}
	assert.Equal(t, want, WebhookRetrySchedule)
}
