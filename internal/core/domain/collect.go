package domain

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// CollectStatus represents the state of one sweep attempt.
type CollectStatus string

const (
	CollectStatusPending    CollectStatus = "PENDING"
	CollectStatusProcessing CollectStatus = "PROCESSING"
	CollectStatusSuccess    CollectStatus = "SUCCESS"
	CollectStatusFailed     CollectStatus = "FAILED"
	CollectStatusSkipped    CollectStatus = "SKIPPED" // retry cap reached, needs manual intervention
)

// CollectTask models one attempt to sweep a deposit address balance into
// the collection wallet. Sweeps never touch the merchant ledger.
type CollectTask struct {
	ID          uuid.UUID     `json:"id"`
	AddressID   uuid.UUID     `json:"address_id"`
	FromAddress string        `json:"from_address"`
	ToAddress   string        `json:"to_address"`
	Chain       string        `json:"chain"`
	Token       string        `json:"token"`
	Amount      *big.Int      `json:"amount"`
	Status      CollectStatus `json:"status"`
	TxHash      *string       `json:"tx_hash,omitempty"`
	GasUsed     *big.Int      `json:"gas_used,omitempty"`
	RetryCount  int32         `json:"retry_count"`
	LastError   *string       `json:"last_error,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HotWallet is a per-chain custody wallet used as the gas source for
// top-ups and as the withdrawal spending address.
type HotWallet struct {
	ID            uuid.UUID `json:"id"`
	Chain         string    `json:"chain"`
	Address       string    `json:"address"`
	PrivateKeyEnc string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}
