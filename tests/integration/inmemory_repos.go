package integration

import (
	"context"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory repository implementations backed by mutex-guarded maps. They
// ignore the pgx.Tx arguments; transactional atomicity is approximated by
// the memTransactor's global lock, which serializes whole transactions the
// way row locks serialize them in PostgreSQL.

// --- Merchant Repo ---

type memMerchantRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.Merchant
}

func newMemMerchantRepo() *memMerchantRepo {
	return &memMerchantRepo{byID: make(map[uuid.UUID]domain.Merchant)}
}

func (r *memMerchantRepo) Create(ctx context.Context, merchant *domain.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[merchant.ID] = *merchant
	return nil
}

func (r *memMerchantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if m, ok := r.byID[id]; ok {
		cp := m
		return &cp, nil
	}
	return nil, nil
}

func (r *memMerchantRepo) GetByMerchantNo(ctx context.Context, merchantNo string) (*domain.Merchant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.byID {
		if m.MerchantNo == merchantNo {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

// --- Account Repo ---

type memAccountRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byID: make(map[uuid.UUID]domain.Account)}
}

func (r *memAccountRepo) Create(ctx context.Context, tx pgx.Tx, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *account
	cp.Balance = new(big.Int).Set(account.Balance)
	r.byID[account.ID] = cp
	return nil
}

func (r *memAccountRepo) GetByMerchantToken(ctx context.Context, merchantID uuid.UUID, token string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(merchantID, token), nil
}

func (r *memAccountRepo) GetByMerchantTokenForUpdate(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, token string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.find(merchantID, token), nil
}

func (r *memAccountRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, balance *big.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acct, ok := r.byID[accountID]
	if !ok {
		return pgx.ErrNoRows
	}
	acct.Balance = new(big.Int).Set(balance)
	acct.UpdatedAt = time.Now().UTC()
	r.byID[accountID] = acct
	return nil
}

func (r *memAccountRepo) find(merchantID uuid.UUID, token string) *domain.Account {
	for _, a := range r.byID {
		if a.MerchantID == merchantID && a.Token == token {
			cp := a
			cp.Balance = new(big.Int).Set(a.Balance)
			return &cp
		}
	}
	return nil
}

// --- Ledger Repo ---

type memLedgerRepo struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{}
}

func (r *memLedgerRepo) Create(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memLedgerRepo) ListByAccount(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].AccountID == accountID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LedgerEntry
	for _, e := range r.entries {
		if e.OrderID != nil && *e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) all() []domain.LedgerEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.LedgerEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// --- Order Repo ---

type memOrderRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{byID: make(map[uuid.UUID]domain.Order)}
}

func (r *memOrderRepo) Create(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[order.ID] = *order
	return nil
}

func (r *memOrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if o, ok := r.byID[id]; ok {
		cp := o
		return &cp, nil
	}
	return nil, nil
}

func (r *memOrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *memOrderRepo) GetByOrderNo(ctx context.Context, merchantID uuid.UUID, orderNo string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.byID {
		if o.OrderNo == orderNo && (merchantID == uuid.Nil || o.MerchantID == merchantID) {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetByOutTradeNo(ctx context.Context, merchantID uuid.UUID, outTradeNo string, kind domain.OrderKind) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.byID {
		if o.MerchantID == merchantID && o.OutTradeNo == outTradeNo && o.Kind == kind {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetByAddressTxHash(ctx context.Context, address, txHash string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.byID {
		if strings.EqualFold(o.WalletAddress, address) && o.TxHash != nil && *o.TxHash == txHash {
			cp := o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) Update(ctx context.Context, tx pgx.Tx, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[order.ID]; !ok {
		return pgx.ErrNoRows
	}
	order.UpdatedAt = time.Now().UTC()
	r.byID[order.ID] = *order
	return nil
}

func (r *memOrderRepo) ListOpenDepositsByChain(ctx context.Context, chain string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.byID {
		if o.Kind == domain.OrderKindDeposit && o.Chain == chain && !o.IsTerminal() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListBroadcastWithdrawalsByChain(ctx context.Context, chain string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.byID {
		if o.Kind == domain.OrderKindWithdrawal && o.Chain == chain &&
			o.Status == domain.OrderStatusProcessing && o.TxHash != nil {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *memOrderRepo) ListExpiredPendingDeposits(ctx context.Context, now time.Time, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.byID {
		if o.Kind == domain.OrderKindDeposit && o.Status == domain.OrderStatusPending &&
			o.ExpiresAt != nil && !o.ExpiresAt.After(now) {
			out = append(out, o)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (r *memOrderRepo) ClaimPendingWithdrawals(ctx context.Context, tx pgx.Tx, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Order
	for _, o := range r.byID {
		if o.Kind == domain.OrderKindWithdrawal && o.Status == domain.OrderStatusPending {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Deposit Address Repo ---

type memAddressRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.DepositAddress
}

func newMemAddressRepo() *memAddressRepo {
	return &memAddressRepo{byID: make(map[uuid.UUID]domain.DepositAddress)}
}

func (r *memAddressRepo) Create(ctx context.Context, addr *domain.DepositAddress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[addr.ID] = *addr
	return nil
}

func (r *memAddressRepo) GetByAddress(ctx context.Context, chain, address string) (*domain.DepositAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if a.Chain == chain && strings.EqualFold(a.Address, address) {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAddressRepo) AcquireAvailable(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, chain, token string) (*domain.DepositAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.byID {
		if a.MerchantID == merchantID && a.Chain == chain && a.Token == token &&
			a.Status == domain.AddressStatusAvailable {
			cp := a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memAddressRepo) ListActiveByChain(ctx context.Context, chain string) ([]domain.DepositAddress, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.DepositAddress
	for _, a := range r.byID {
		if a.Chain == chain && a.Status != domain.AddressStatusDisabled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAddressRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.AddressStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	a.Status = status
	a.UpdatedAt = time.Now().UTC()
	r.byID[id] = a
	return nil
}

func (r *memAddressRepo) RecordActivity(ctx context.Context, id uuid.UUID, received *big.Int, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	if a.TotalReceived == nil {
		a.TotalReceived = big.NewInt(0)
	}
	a.TotalReceived = new(big.Int).Add(a.TotalReceived, received)
	activity := at
	a.LastActivityAt = &activity
	r.byID[id] = a
	return nil
}

// --- Webhook Repo ---

type memWebhookRepo struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]domain.WebhookDelivery
}

func newMemWebhookRepo() *memWebhookRepo {
	return &memWebhookRepo{byID: make(map[uuid.UUID]domain.WebhookDelivery)}
}

func (r *memWebhookRepo) Create(ctx context.Context, delivery *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[delivery.ID] = *delivery
	return nil
}

func (r *memWebhookRepo) CreateTx(ctx context.Context, tx pgx.Tx, delivery *domain.WebhookDelivery) error {
	return r.Create(ctx, delivery)
}

func (r *memWebhookRepo) Update(ctx context.Context, delivery *domain.WebhookDelivery) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[delivery.ID]; !ok {
		return pgx.ErrNoRows
	}
	delivery.UpdatedAt = time.Now().UTC()
	r.byID[delivery.ID] = *delivery
	return nil
}

func (r *memWebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.byID[id]; ok {
		cp := d
		return &cp, nil
	}
	return nil, nil
}

func (r *memWebhookRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.WebhookDelivery, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.WebhookDelivery
	for _, d := range r.byID {
		if d.Status == domain.WebhookStatusPending &&
			(d.NextRetryAt == nil || !d.NextRetryAt.After(now)) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- Hot Wallet Repo ---

type memHotWalletRepo struct {
	mu      sync.RWMutex
	byChain map[string]domain.HotWallet
}

func newMemHotWalletRepo() *memHotWalletRepo {
	return &memHotWalletRepo{byChain: make(map[string]domain.HotWallet)}
}

func (r *memHotWalletRepo) Create(ctx context.Context, wallet *domain.HotWallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byChain[wallet.Chain] = *wallet
	return nil
}

func (r *memHotWalletRepo) GetByChain(ctx context.Context, chain string) (*domain.HotWallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if w, ok := r.byChain[chain]; ok {
		cp := w
		return &cp, nil
	}
	return nil, nil
}

// --- Chain Cursor Repo ---

type memCursorRepo struct {
	mu      sync.RWMutex
	byChain map[string]domain.ChainCursor
}

func newMemCursorRepo() *memCursorRepo {
	return &memCursorRepo{byChain: make(map[string]domain.ChainCursor)}
}

func (r *memCursorRepo) Get(ctx context.Context, chain string) (*domain.ChainCursor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.byChain[chain]; ok {
		cp := c
		return &cp, nil
	}
	return nil, nil
}

func (r *memCursorRepo) Upsert(ctx context.Context, cursor *domain.ChainCursor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byChain[cursor.Chain] = *cursor
	return nil
}

// --- Transactor ---

// memTransactor serializes transactions with one global mutex, standing in
// for the row locks that FOR UPDATE takes in PostgreSQL.
type memTransactor struct {
	mu sync.Mutex
}

func newMemTransactor() *memTransactor {
	return &memTransactor{}
}

func (t *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	t.mu.Lock()
	return &memTx{release: &t.mu}, nil
}

// memTx holds the transactor lock until Commit or Rollback, whichever
// comes first. All statement-level methods are no-ops; the repos apply
// writes immediately.
type memTx struct {
	mu      sync.Mutex
	release *sync.Mutex
}

func (t *memTx) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.release != nil {
		t.release.Unlock()
		t.release = nil
	}
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) Commit(ctx context.Context) error          { t.finish(); return nil }
func (t *memTx) Rollback(ctx context.Context) error        { t.finish(); return nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *memTx) Conn() *pgx.Conn { return nil }
