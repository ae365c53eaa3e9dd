package ports

import (
	"context"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SignatureService handles HMAC-SHA256 signing and verification over the
// payment API's ordered field concatenation.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
}

// Keystore encrypts private key material and merchant secrets at rest. The
// master key is supplied externally and never persisted with ciphertext.
type Keystore interface {
	Encrypt(plaintext []byte) (string, error)
	// Decrypt returns a short-lived plaintext buffer. Callers must zeroize
	// it as soon as the secret has been used.
	Decrypt(ciphertext string) ([]byte, error)
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

// TokenService handles admin JWT operations for privileged actions.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, merchantNo string, nonce string, ttl time.Duration) (bool, error)
}

// AmountSlotStore reserves unique payment amounts so that concurrent
// deposits to the same address remain distinguishable on chain.
type AmountSlotStore interface {
	// AcquireUnique returns the first free amount at or above the requested
	// one, stepping by one base unit, and holds the slot for ttl.
	AcquireUnique(ctx context.Context, chain, address string, amount *big.Int, ttl time.Duration) (*big.Int, error)
	Release(ctx context.Context, chain, address string, amount *big.Int) error
}

// RateProvider resolves foreign-currency amounts into settlement token
// base units. Rate acquisition itself is external; this port only consumes
// a resolved rate.
type RateProvider interface {
	Convert(ctx context.Context, currency, token, amount string) (*big.Int, error)
}

// --- Service Ports (Business Logic) ---

// PostRequest describes one ledger posting.
type PostRequest struct {
	MerchantID uuid.UUID
	Token      string
	OrderID    *uuid.UUID
	Direction  domain.EntryDirection
	Kind       domain.EntryKind
	Amount     *big.Int
	Remark     string
}

// LedgerService is the single authority for balance mutations.
type LedgerService interface {
	// Post opens its own transaction and posts one entry atomically.
	Post(ctx context.Context, req PostRequest) (*domain.LedgerEntry, error)
	// PostTx posts inside a caller-owned transaction so order transitions
	// and their postings commit together.
	PostTx(ctx context.Context, tx pgx.Tx, req PostRequest) (*domain.LedgerEntry, error)
	Balance(ctx context.Context, merchantID uuid.UUID, token string) (*big.Int, error)
}

// CreateDepositRequest holds validated input for deposit creation.
type CreateDepositRequest struct {
	MerchantID  uuid.UUID
	OutTradeNo  string
	Chain       string
	Token       string
	Amount      string // decimal, in token units
	Currency    string // non-empty when Amount is a foreign-currency value
	CallbackURL string
	ExtraData   *string
}

// CreateDepositResponse is returned to the merchant on deposit creation.
type CreateDepositResponse struct {
	Order         *domain.Order
	WalletAddress string
	PayAmount     *big.Int // unique settlement amount the payer must send
	ExpiresAt     time.Time
}

// DepositService drives the deposit order lifecycle.
type DepositService interface {
	CreateDeposit(ctx context.Context, req CreateDepositRequest) (*CreateDepositResponse, error)
	// RegisterTransfer handles a scanner-discovered transfer into a watched
	// address: first sight moves the order to DETECTED, repeats update the
	// confirmation count. Idempotent per (address, txHash).
	RegisterTransfer(ctx context.Context, transfer domain.IncomingTransfer) error
	// ConfirmDeposit re-evaluates one order's confirmation depth and credits
	// the ledger exactly once when the threshold is reached.
	ConfirmDeposit(ctx context.Context, orderID uuid.UUID, confirmations int64) error
	// FailReorged reverses a deposit lost to a chain reorganization.
	FailReorged(ctx context.Context, orderID uuid.UUID) error
	// ExpireDue transitions overdue PENDING deposits to EXPIRED, returning
	// the number expired.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

// CreateWithdrawalRequest holds validated input for withdrawal creation.
type CreateWithdrawalRequest struct {
	MerchantID  uuid.UUID
	OutTradeNo  string
	Chain       string
	Token       string
	Amount      string // decimal, in token units
	ToAddress   string
	CallbackURL string
	ExtraData   *string
}

// WithdrawalService drives the withdrawal order lifecycle.
type WithdrawalService interface {
	CreateWithdrawal(ctx context.Context, req CreateWithdrawalRequest) (*domain.Order, error)
	// DispatchDue claims pending withdrawals, reserves funds and broadcasts,
	// returning the number dispatched.
	DispatchDue(ctx context.Context) (int, error)
	// ConfirmWithdrawal finalizes a PROCESSING order once its transaction
	// reaches the required depth.
	ConfirmWithdrawal(ctx context.Context, orderID uuid.UUID, confirmations int64) error
	// FailStuck reverses the reservation of a PROCESSING order whose
	// transaction is absent or rejected.
	FailStuck(ctx context.Context, orderID uuid.UUID, reason string) error
	// ForceComplete finalizes a withdrawal by privileged manual action. It
	// goes through the same ledger path as automatic completion.
	ForceComplete(ctx context.Context, orderNo string, operator string) error
}

// OrderQueryService serves merchant order lookups across both kinds.
type OrderQueryService interface {
	GetByOrderNo(ctx context.Context, merchantID uuid.UUID, orderNo string) (*domain.Order, error)
	GetByOutTradeNo(ctx context.Context, merchantID uuid.UUID, outTradeNo string, kind domain.OrderKind) (*domain.Order, error)
}

// WebhookDispatcher enqueues and delivers signed order notifications,
// at least once.
type WebhookDispatcher interface {
	Enqueue(ctx context.Context, order *domain.Order) error
	// EnqueueTx persists the delivery inside the caller's transaction so a
	// terminal order transition and its notification commit together.
	EnqueueTx(ctx context.Context, tx pgx.Tx, order *domain.Order) error
	// Resend resets a permanently failed delivery for another attempt.
	Resend(ctx context.Context, deliveryID uuid.UUID) error
}
