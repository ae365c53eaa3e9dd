package domain

import (
	"math/big"
	"time"
)

// Supported chain codes.
const (
	ChainEthereum = "ethereum"
	ChainTron     = "tron"
)

// ChainCursor tracks the last fully scanned block height for one chain.
// It is owned exclusively by that chain's scanner and only rewinds on an
// explicit reorg rollback.
type ChainCursor struct {
	Chain         string    `json:"chain"`
	Height        int64     `json:"height"`
	LastScannedAt time.Time `json:"last_scanned_at"`
	ScanLag       int64     `json:"scan_lag"` // tip height minus cursor at last scan
	UpdatedAt     time.Time `json:"updated_at"`
}

// IncomingTransfer is one observed on-chain transfer into a watched
// address, ordered by block height then in-block index.
type IncomingTransfer struct {
	Chain         string
	TxHash        string
	From          string
	To            string
	Token         string
	Amount        *big.Int
	BlockHeight   int64
	LogIndex      uint
	Confirmations int64
}
