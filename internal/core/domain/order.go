package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// OrderKind represents the direction of an order.
type OrderKind string

const (
	OrderKindDeposit    OrderKind = "DEPOSIT"
	OrderKindWithdrawal OrderKind = "WITHDRAWAL"
)

// OrderStatus represents the lifecycle state of an order.
//
// Deposit:    PENDING -> DETECTED -> CONFIRMING -> SUCCESS | EXPIRED | FAILED
// Withdrawal: PENDING -> PROCESSING -> SUCCESS | FAILED
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusDetected   OrderStatus = "DETECTED"
	OrderStatusConfirming OrderStatus = "CONFIRMING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusSuccess    OrderStatus = "SUCCESS"
	OrderStatusExpired    OrderStatus = "EXPIRED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

// Failure reason codes recorded on terminal FAILED orders.
const (
	FailReasonReorged           = "reorged"
	FailReasonBroadcastRejected = "broadcast_rejected"
	FailReasonInsufficientFunds = "insufficient_balance"
	FailReasonStuck             = "stuck"
	FailReasonForceFailed       = "force_failed"
)

// Order unifies deposit and withdrawal records. Amounts are integer base
// units of the token (wei, sun, 10^-6 USDT) and map to NUMERIC columns.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	OrderNo         string      `json:"order_no"`
	OutTradeNo      string      `json:"out_trade_no"`
	MerchantID      uuid.UUID   `json:"merchant_id"`
	Kind            OrderKind   `json:"order_type"`
	Chain           string      `json:"chain"`
	Token           string      `json:"token"`
	RequestedAmount *big.Int    `json:"requested_amount"`
	SettledAmount   *big.Int    `json:"settled_amount"`
	Fee             *big.Int    `json:"fee"`
	NetAmount       *big.Int    `json:"net_amount"`
	Status          OrderStatus `json:"status"`
	WalletAddress   string      `json:"wallet_address"` // deposit address, or withdrawal destination
	TxHash          *string     `json:"tx_hash,omitempty"`
	Confirmations   int64       `json:"confirmations"`
	RequiredConfs   int64       `json:"required_confirmations"`
	BlockHeight     *int64      `json:"block_height,omitempty"` // height the tx was observed at
	CallbackURL     string      `json:"callback_url"`
	ExtraData       *string     `json:"extra_data,omitempty"`
	FailReason      *string     `json:"fail_reason,omitempty"`
	ScanMisses      int32       `json:"-"` // consecutive re-scans that failed to find the tx
	ExpiresAt       *time.Time  `json:"expires_at,omitempty"` // deposits only
	DetectedAt      *time.Time  `json:"detected_at,omitempty"`
	CompletedAt     *time.Time  `json:"completed_at,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// IsTerminal returns true if the order is in a final state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusSuccess ||
		o.Status == OrderStatusExpired ||
		o.Status == OrderStatusFailed
}

// CanTransition reports whether moving to the target state is legal for
// this order's kind and current state.
func (o *Order) CanTransition(to OrderStatus) bool {
	if o.IsTerminal() {
		return false
	}
	switch o.Kind {
	case OrderKindDeposit:
		switch o.Status {
		case OrderStatusPending:
			return to == OrderStatusDetected || to == OrderStatusExpired || to == OrderStatusFailed
		case OrderStatusDetected:
			return to == OrderStatusConfirming || to == OrderStatusSuccess || to == OrderStatusFailed
		case OrderStatusConfirming:
			return to == OrderStatusSuccess || to == OrderStatusFailed
		}
	case OrderKindWithdrawal:
		switch o.Status {
		case OrderStatusPending:
			return to == OrderStatusProcessing || to == OrderStatusFailed
		case OrderStatusProcessing:
			return to == OrderStatusSuccess || to == OrderStatusFailed
		}
	}
	return false
}

// Expired reports whether a pending deposit has passed its deadline.
// The boundary is inclusive: an order expires at the exact deadline instant.
func (o *Order) Expired(now time.Time) bool {
	return o.Kind == OrderKindDeposit &&
		o.Status == OrderStatusPending &&
		o.ExpiresAt != nil &&
		!now.Before(*o.ExpiresAt)
}
