package ports

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"crypto-settlement-gateway/internal/core/domain"
)

// Sentinel errors for the chain boundary. Workers treat ErrRPCUnavailable
// as transient and retry on the next tick.
var (
	ErrRPCUnavailable = errors.New("chain rpc unavailable")
	ErrTxNotFound     = errors.New("transaction not found on chain")
)

// BroadcastRejectedError carries the chain-side rejection detail. A rejected
// broadcast does not prove the transaction was not accepted; callers must
// reconcile via subsequent scans.
type BroadcastRejectedError struct {
	Chain  string
	Detail string
}

func (e *BroadcastRejectedError) Error() string {
	return fmt.Sprintf("broadcast rejected by %s: %s", e.Chain, e.Detail)
}

// TransferRequest describes an outbound transfer to sign and broadcast.
type TransferRequest struct {
	Token  string // empty for the native asset
	From   string
	To     string
	Amount *big.Int
}

// ChainAdapter is the uniform capability set over one chain's RPC surface.
// New chains are added by implementing this interface and registering the
// adapter, never by modifying dispatch logic.
type ChainAdapter interface {
	// Chain returns the chain code this adapter serves.
	Chain() string
	// CurrentHeight returns the chain tip height. Fails with
	// ErrRPCUnavailable on network or timeout errors.
	CurrentHeight(ctx context.Context) (int64, error)
	// ScanAddress lists transfers into address between fromHeight and
	// toHeight inclusive, ascending by block height then in-block index.
	// Idempotent for identical inputs.
	ScanAddress(ctx context.Context, address, token string, fromHeight, toHeight int64) ([]domain.IncomingTransfer, error)
	// Balance returns the token balance of address in base units.
	Balance(ctx context.Context, address, token string) (*big.Int, error)
	// NativeBalance returns the gas-asset balance of address.
	NativeBalance(ctx context.Context, address string) (*big.Int, error)
	// SignTransfer builds and signs a transfer with the given raw private
	// key, returning the signed bytes and the transaction hash they will
	// carry on chain. The hash is known before broadcast so callers can
	// persist it first. The key is owned by the caller, which zeroizes it
	// after use.
	SignTransfer(ctx context.Context, req TransferRequest, privateKey []byte) ([]byte, string, error)
	// Broadcast submits a signed transaction, returning its hash. Fails
	// with *BroadcastRejectedError when the chain refuses it.
	Broadcast(ctx context.Context, signedTx []byte) (string, error)
	// EstimateFee estimates the native cost of one transfer of token.
	EstimateFee(ctx context.Context, token string) (*big.Int, error)
	// TransactionConfirmations returns the confirmation depth of txHash,
	// or ErrTxNotFound when the chain no longer knows the transaction.
	TransactionConfirmations(ctx context.Context, txHash string) (int64, error)
	// RequiredConfirmations is the chain's configured finality threshold.
	RequiredConfirmations() int64
	// ValidateAddress reports whether address is well formed for the chain.
	ValidateAddress(address string) bool
	// GenerateDepositKey creates a fresh keypair, returning the address and
	// raw private key bytes.
	GenerateDepositKey() (address string, privateKey []byte, err error)
}
