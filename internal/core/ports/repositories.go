package ports

import (
	"context"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MerchantRepository defines persistence operations for merchants.
type MerchantRepository interface {
	Create(ctx context.Context, merchant *domain.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error)
	GetByMerchantNo(ctx context.Context, merchantNo string) (*domain.Merchant, error)
}

// AccountRepository defines persistence for merchant balance accounts.
// Methods accepting pgx.Tx run inside transaction blocks for pessimistic locking.
type AccountRepository interface {
	Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error
	GetByMerchantToken(ctx context.Context, merchantID uuid.UUID, token string) (*domain.Account, error)
	GetByMerchantTokenForUpdate(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, token string) (*domain.Account, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance *big.Int) error
}

// LedgerRepository defines append-only persistence for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerEntry, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.LedgerEntry, error)
}

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error)
	GetByOrderNo(ctx context.Context, merchantID uuid.UUID, orderNo string) (*domain.Order, error)
	GetByOutTradeNo(ctx context.Context, merchantID uuid.UUID, outTradeNo string, kind domain.OrderKind) (*domain.Order, error)
	GetByAddressTxHash(ctx context.Context, address, txHash string) (*domain.Order, error)
	Update(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	// ListOpenDepositsByChain returns non-terminal deposit orders on a chain,
	// used by the scanner to match incoming transfers and track confirmations.
	ListOpenDepositsByChain(ctx context.Context, chain string) ([]domain.Order, error)
	// ListBroadcastWithdrawalsByChain returns PROCESSING withdrawals with a
	// transaction hash, awaiting confirmation depth.
	ListBroadcastWithdrawalsByChain(ctx context.Context, chain string) ([]domain.Order, error)
	// ListExpiredPendingDeposits returns PENDING deposits whose deadline has
	// passed as of now (inclusive).
	ListExpiredPendingDeposits(ctx context.Context, now time.Time, limit int) ([]domain.Order, error)
	// ClaimPendingWithdrawals locks and returns up to limit PENDING
	// withdrawals for dispatch, skipping rows locked by other dispatchers.
	ClaimPendingWithdrawals(ctx context.Context, tx pgx.Tx, limit int) ([]domain.Order, error)
}

// DepositAddressRepository defines persistence for deposit addresses.
type DepositAddressRepository interface {
	Create(ctx context.Context, addr *domain.DepositAddress) error
	GetByAddress(ctx context.Context, chain, address string) (*domain.DepositAddress, error)
	// AcquireAvailable locks and returns one AVAILABLE address for the triple,
	// or nil when none exists (caller then generates a new one).
	AcquireAvailable(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, chain, token string) (*domain.DepositAddress, error)
	ListActiveByChain(ctx context.Context, chain string) ([]domain.DepositAddress, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.AddressStatus) error
	RecordActivity(ctx context.Context, id uuid.UUID, received *big.Int, at time.Time) error
}

// ChainCursorRepository defines persistence for per-chain scan cursors.
type ChainCursorRepository interface {
	Get(ctx context.Context, chain string) (*domain.ChainCursor, error)
	Upsert(ctx context.Context, cursor *domain.ChainCursor) error
}

// CollectTaskRepository defines persistence for sweep tasks.
type CollectTaskRepository interface {
	Create(ctx context.Context, task *domain.CollectTask) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CollectTask, error)
	Update(ctx context.Context, task *domain.CollectTask) error
	// HasInFlight reports whether the address already has a PENDING or
	// PROCESSING task.
	HasInFlight(ctx context.Context, addressID uuid.UUID) (bool, error)
	ListRetryable(ctx context.Context, chain string, maxRetries int32, limit int) ([]domain.CollectTask, error)
}

// WebhookRepository defines persistence for webhook deliveries.
type WebhookRepository interface {
	Create(ctx context.Context, delivery *domain.WebhookDelivery) error
	// CreateTx inserts the delivery inside a caller-owned transaction.
	CreateTx(ctx context.Context, tx pgx.Tx, delivery *domain.WebhookDelivery) error
	Update(ctx context.Context, delivery *domain.WebhookDelivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error)
}

// HotWalletRepository defines persistence for custody hot wallets.
type HotWalletRepository interface {
	Create(ctx context.Context, wallet *domain.HotWallet) error
	GetByChain(ctx context.Context, chain string) (*domain.HotWallet, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
