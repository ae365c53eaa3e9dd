package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-settlement-gateway/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

const orderColumns = `id, order_no, out_trade_no, merchant_id, order_type, chain, token,
		requested_amount::text, settled_amount::text, fee::text, net_amount::text,
		status, wallet_address, tx_hash, confirmations, required_confirmations, block_height,
		callback_url, extra_data, fail_reason, scan_misses,
		expires_at, detected_at, completed_at, created_at, updated_at`

// Create inserts a new order within a database transaction, so ledger
// postings tied to the creation commit with it.
func (r *OrderRepo) Create(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	query := `INSERT INTO orders (id, order_no, out_trade_no, merchant_id, order_type, chain, token,
		requested_amount, settled_amount, fee, net_amount,
		status, wallet_address, tx_hash, confirmations, required_confirmations, block_height,
		callback_url, extra_data, fail_reason, scan_misses,
		expires_at, detected_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`

	_, err := tx.Exec(ctx, query,
		o.ID, o.OrderNo, o.OutTradeNo, o.MerchantID, o.Kind, o.Chain, o.Token,
		bigToNumeric(o.RequestedAmount), bigToNumeric(o.SettledAmount), bigToNumeric(o.Fee), bigToNumeric(o.NetAmount),
		o.Status, o.WalletAddress, o.TxHash, o.Confirmations, o.RequiredConfs, o.BlockHeight,
		o.CallbackURL, o.ExtraData, o.FailReason, o.ScanMisses,
		o.ExpiresAt, o.DetectedAt, o.CompletedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// GetByID fetches an order by UUID.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	return r.scanOrder(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches an order with a row lock. State transitions for
// the same order serialize on this lock.
func (r *OrderRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	return r.scanOrder(tx.QueryRow(ctx, query, id))
}

// GetByOrderNo fetches an order by system order number, scoped to a
// merchant. The zero merchant id skips the scope for privileged lookups.
func (r *OrderRepo) GetByOrderNo(ctx context.Context, merchantID uuid.UUID, orderNo string) (*domain.Order, error) {
	if merchantID == uuid.Nil {
		query := `SELECT ` + orderColumns + ` FROM orders WHERE order_no = $1`
		return r.scanOrder(r.pool.QueryRow(ctx, query, orderNo))
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE merchant_id = $1 AND order_no = $2`
	return r.scanOrder(r.pool.QueryRow(ctx, query, merchantID, orderNo))
}

// GetByOutTradeNo fetches an order by the merchant's own reference and kind.
func (r *OrderRepo) GetByOutTradeNo(ctx context.Context, merchantID uuid.UUID, outTradeNo string, kind domain.OrderKind) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE merchant_id = $1 AND out_trade_no = $2 AND order_type = $3`
	return r.scanOrder(r.pool.QueryRow(ctx, query, merchantID, outTradeNo, kind))
}

// GetByAddressTxHash fetches the deposit order already recorded for a
// (address, txHash) pair, if any.
func (r *OrderRepo) GetByAddressTxHash(ctx context.Context, address, txHash string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE wallet_address = $1 AND tx_hash = $2`
	return r.scanOrder(r.pool.QueryRow(ctx, query, address, txHash))
}

// Update rewrites the mutable fields of an order within a transaction.
func (r *OrderRepo) Update(ctx context.Context, tx pgx.Tx, o *domain.Order) error {
	query := `UPDATE orders SET
		settled_amount = $1, fee = $2, net_amount = $3, status = $4,
		tx_hash = $5, confirmations = $6, block_height = $7, fail_reason = $8, scan_misses = $9,
		detected_at = $10, completed_at = $11, updated_at = NOW()
		WHERE id = $12`

	tag, err := tx.Exec(ctx, query,
		bigToNumeric(o.SettledAmount), bigToNumeric(o.Fee), bigToNumeric(o.NetAmount), o.Status,
		o.TxHash, o.Confirmations, o.BlockHeight, o.FailReason, o.ScanMisses,
		o.DetectedAt, o.CompletedAt, o.ID,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order not found: %s", o.ID)
	}
	return nil
}

// ListOpenDepositsByChain returns non-terminal deposit orders on a chain.
func (r *OrderRepo) ListOpenDepositsByChain(ctx context.Context, chain string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE chain = $1 AND order_type = 'DEPOSIT' AND status IN ('PENDING', 'DETECTED', 'CONFIRMING')
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, chain)
	if err != nil {
		return nil, fmt.Errorf("list open deposits: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

// ListBroadcastWithdrawalsByChain returns PROCESSING withdrawals that have a
// transaction hash awaiting confirmation depth.
func (r *OrderRepo) ListBroadcastWithdrawalsByChain(ctx context.Context, chain string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE chain = $1 AND order_type = 'WITHDRAWAL' AND status = 'PROCESSING' AND tx_hash IS NOT NULL
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, chain)
	if err != nil {
		return nil, fmt.Errorf("list broadcast withdrawals: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

// ListExpiredPendingDeposits returns PENDING deposits whose deadline has
// passed as of now, inclusive.
func (r *OrderRepo) ListExpiredPendingDeposits(ctx context.Context, now time.Time, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE order_type = 'DEPOSIT' AND status = 'PENDING' AND expires_at <= $1
		ORDER BY expires_at ASC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list expired deposits: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

// ClaimPendingWithdrawals locks up to limit PENDING withdrawals for
// dispatch. SKIP LOCKED keeps concurrent dispatchers from claiming the
// same rows.
func (r *OrderRepo) ClaimPendingWithdrawals(ctx context.Context, tx pgx.Tx, limit int) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE order_type = 'WITHDRAWAL' AND status = 'PENDING'
		ORDER BY created_at ASC LIMIT $1
		FOR UPDATE SKIP LOCKED`

	rows, err := tx.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("claim pending withdrawals: %w", err)
	}
	defer rows.Close()
	return r.collectOrders(rows)
}

func setOrderAmounts(o *domain.Order, requested, settled, fee, net string) error {
	var err error
	if o.RequestedAmount, err = bigFromNumeric(requested); err != nil {
		return fmt.Errorf("scan order requested_amount: %w", err)
	}
	if o.SettledAmount, err = bigFromNumeric(settled); err != nil {
		return fmt.Errorf("scan order settled_amount: %w", err)
	}
	if o.Fee, err = bigFromNumeric(fee); err != nil {
		return fmt.Errorf("scan order fee: %w", err)
	}
	if o.NetAmount, err = bigFromNumeric(net); err != nil {
		return fmt.Errorf("scan order net_amount: %w", err)
	}
	return nil
}

func (r *OrderRepo) scanOrder(row pgx.Row) (*domain.Order, error) {
	o := &domain.Order{}
	var requested, settled, fee, net string
	err := row.Scan(
		&o.ID, &o.OrderNo, &o.OutTradeNo, &o.MerchantID, &o.Kind, &o.Chain, &o.Token,
		&requested, &settled, &fee, &net,
		&o.Status, &o.WalletAddress, &o.TxHash, &o.Confirmations, &o.RequiredConfs, &o.BlockHeight,
		&o.CallbackURL, &o.ExtraData, &o.FailReason, &o.ScanMisses,
		&o.ExpiresAt, &o.DetectedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if err := setOrderAmounts(o, requested, settled, fee, net); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepo) collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var (
			o                         domain.Order
			requested, settled, f, net string
		)
		err := rows.Scan(
			&o.ID, &o.OrderNo, &o.OutTradeNo, &o.MerchantID, &o.Kind, &o.Chain, &o.Token,
			&requested, &settled, &f, &net,
			&o.Status, &o.WalletAddress, &o.TxHash, &o.Confirmations, &o.RequiredConfs, &o.BlockHeight,
			&o.CallbackURL, &o.ExtraData, &o.FailReason, &o.ScanMisses,
			&o.ExpiresAt, &o.DetectedAt, &o.CompletedAt, &o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		if err := setOrderAmounts(&o, requested, settled, f, net); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	return orders, nil
}
