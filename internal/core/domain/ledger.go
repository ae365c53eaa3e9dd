package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// EntryDirection is the side of a double-entry posting.
type EntryDirection string

const (
	EntryDirectionCredit EntryDirection = "CREDIT"
	EntryDirectionDebit  EntryDirection = "DEBIT"
)

// EntryKind classifies what a ledger posting represents.
type EntryKind string

const (
	EntryKindPrincipal  EntryKind = "PRINCIPAL"
	EntryKindFee        EntryKind = "FEE"
	EntryKindAdjustment EntryKind = "ADJUSTMENT"
)

// Account is a merchant's balance bucket for one token. The balance column
// is derived state: it always equals the BalanceAfter of the account's
// latest ledger entry.
type Account struct {
	ID         uuid.UUID `json:"id"`
	MerchantID uuid.UUID `json:"merchant_id"`
	Token      string    `json:"token"`
	Balance    *big.Int  `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// LedgerEntry is an append-only double-entry posting. Entries are never
// updated or deleted; corrections are new compensating entries referencing
// the same order.
type LedgerEntry struct {
	ID            uuid.UUID      `json:"id"`
	AccountID     uuid.UUID      `json:"account_id"`
	OrderID       *uuid.UUID     `json:"order_id,omitempty"`
	Direction     EntryDirection `json:"direction"`
	Kind          EntryKind      `json:"kind"`
	Amount        *big.Int       `json:"amount"` // always positive
	BalanceBefore *big.Int       `json:"balance_before"`
	BalanceAfter  *big.Int       `json:"balance_after"`
	Remark        *string        `json:"remark,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Signed returns the entry amount with its direction applied.
func (e *LedgerEntry) Signed() *big.Int {
	if e.Direction == EntryDirectionDebit {
		return new(big.Int).Neg(e.Amount)
	}
	return new(big.Int).Set(e.Amount)
}

// Consistent verifies balance_after = balance_before +/- amount.
func (e *LedgerEntry) Consistent() bool {
	want := new(big.Int).Add(e.BalanceBefore, e.Signed())
	return e.BalanceAfter.Cmp(want) == 0
}
