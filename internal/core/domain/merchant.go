package domain

import (
	"time"

	"github.com/google/uuid"
)

// MerchantStatus represents the state of a merchant account.
type MerchantStatus string

const (
	MerchantStatusActive      MerchantStatus = "ACTIVE"
	MerchantStatusSuspended   MerchantStatus = "SUSPENDED"
	MerchantStatusDeactivated MerchantStatus = "DEACTIVATED"
)

// Merchant represents a registered merchant. Deposit and withdrawal
// operations are signed with separate secrets.
type Merchant struct {
	ID             uuid.UUID      `json:"id"`
	MerchantNo     string         `json:"merchant_no"`
	Name           string         `json:"name"`
	DepositKeyEnc  string         `json:"-"` // keystore ciphertext, never expose
	WithdrawKeyEnc string         `json:"-"`
	Status         MerchantStatus `json:"status"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsActive returns true if the merchant account is active.
func (m *Merchant) IsActive() bool {
	return m.Status == MerchantStatusActive
}
