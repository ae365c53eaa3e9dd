package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// AddressStatus represents the assignment state of a deposit address.
type AddressStatus string

const (
	AddressStatusAvailable AddressStatus = "AVAILABLE"
	AddressStatusAssigned  AddressStatus = "ASSIGNED"
	AddressStatusLocked    AddressStatus = "LOCKED" // in-flight collect task
	AddressStatusDisabled  AddressStatus = "DISABLED"
)

// DepositAddress belongs to exactly one (merchant, chain, token) triple.
// Addresses are created lazily and never deleted or reassigned across
// merchants.
type DepositAddress struct {
	ID              uuid.UUID     `json:"id"`
	MerchantID      uuid.UUID     `json:"merchant_id"`
	Chain           string        `json:"chain"`
	Token           string        `json:"token"`
	Address         string        `json:"address"`
	PrivateKeyEnc   string        `json:"-"` // keystore ciphertext, never expose
	Status          AddressStatus `json:"status"`
	TotalReceived   *big.Int      `json:"total_received"`
	LastActivityAt  *time.Time    `json:"last_activity_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
