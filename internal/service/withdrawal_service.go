package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// dispatchBatchSize bounds how many withdrawals one dispatch pass claims.
const dispatchBatchSize = 10

// WithdrawalServiceImpl implements ports.WithdrawalService. Funds are
// reserved by a ledger debit in the same transaction that creates the
// order; failure paths reverse that reservation with credits.
type WithdrawalServiceImpl struct {
	merchantRepo  ports.MerchantRepository
	orderRepo     ports.OrderRepository
	hotWalletRepo ports.HotWalletRepository
	ledgerSvc     ports.LedgerService
	webhooks      ports.WebhookDispatcher
	keystore      ports.Keystore
	chains        AdapterRegistry
	transactor    ports.DBTransactor
	decimals      map[string]int
	feeBps        int64
	feeFixed      map[string]*big.Int
	log           zerolog.Logger
}

// NewWithdrawalService creates a new WithdrawalServiceImpl.
func NewWithdrawalService(
	merchantRepo ports.MerchantRepository,
	orderRepo ports.OrderRepository,
	hotWalletRepo ports.HotWalletRepository,
	ledgerSvc ports.LedgerService,
	webhooks ports.WebhookDispatcher,
	keystore ports.Keystore,
	chains AdapterRegistry,
	transactor ports.DBTransactor,
	decimals map[string]int,
	feeBps int64,
	feeFixed map[string]*big.Int,
	log zerolog.Logger,
) *WithdrawalServiceImpl {
	return &WithdrawalServiceImpl{
		merchantRepo:  merchantRepo,
		orderRepo:     orderRepo,
		hotWalletRepo: hotWalletRepo,
		ledgerSvc:     ledgerSvc,
		webhooks:      webhooks,
		keystore:      keystore,
		chains:        chains,
		transactor:    transactor,
		decimals:      decimals,
		feeBps:        feeBps,
		feeFixed:      feeFixed,
		log:           log,
	}
}

// CreateWithdrawal validates the request and opens a PENDING order with the
// reservation debit. When the balance cannot cover amount plus fee, the
// whole transaction rolls back and no ledger entries survive.
func (s *WithdrawalServiceImpl) CreateWithdrawal(ctx context.Context, req ports.CreateWithdrawalRequest) (*domain.Order, error) {
	merchant, err := s.merchantRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get merchant: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("merchant")
	}
	if !merchant.IsActive() {
		return nil, apperror.ErrMerchantSuspended()
	}

	adapter := s.chains.Get(req.Chain)
	if adapter == nil {
		return nil, apperror.ErrUnsupportedChain(req.Chain)
	}
	decimals, ok := s.decimals[req.Token]
	if !ok {
		return nil, apperror.ErrUnsupportedToken(req.Token)
	}
	if !adapter.ValidateAddress(req.ToAddress) {
		return nil, apperror.ErrInvalidAddress()
	}

	amount, err := domain.ParseUnits(req.Amount, decimals)
	if err != nil || amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	fee := domain.ComputeFee(amount, s.feeBps, s.feeFixed[req.Token])

	existing, err := s.orderRepo.GetByOutTradeNo(ctx, req.MerchantID, req.OutTradeNo, domain.OrderKindWithdrawal)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check out_trade_no: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateOrder()
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:              uuid.New(),
		OrderNo:         newOrderNo("W"),
		OutTradeNo:      req.OutTradeNo,
		MerchantID:      req.MerchantID,
		Kind:            domain.OrderKindWithdrawal,
		Chain:           req.Chain,
		Token:           req.Token,
		RequestedAmount: amount,
		SettledAmount:   big.NewInt(0),
		Fee:             fee,
		NetAmount:       amount,
		Status:          domain.OrderStatusPending,
		WalletAddress:   req.ToAddress,
		RequiredConfs:   adapter.RequiredConfirmations(),
		CallbackURL:     req.CallbackURL,
		ExtraData:       req.ExtraData,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Reservation: debit principal and fee with the order creation, one
	// transaction. An insufficient balance aborts before any row lands.
	_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
		MerchantID: req.MerchantID,
		Token:      req.Token,
		OrderID:    &order.ID,
		Direction:  domain.EntryDirectionDebit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     amount,
		Remark:     "withdrawal " + order.OrderNo,
	})
	if err != nil {
		return nil, err
	}
	if fee.Sign() > 0 {
		_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
			MerchantID: req.MerchantID,
			Token:      req.Token,
			OrderID:    &order.ID,
			Direction:  domain.EntryDirectionDebit,
			Kind:       domain.EntryKindFee,
			Amount:     fee,
			Remark:     "withdrawal fee " + order.OrderNo,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("order_no", order.OrderNo).
		Str("merchant_id", req.MerchantID.String()).
		Str("amount", amount.String()).
		Str("fee", fee.String()).
		Msg("withdrawal order created")

	return order, nil
}

// DispatchDue claims PENDING withdrawals, signs and broadcasts them from
// the hot wallet. A chain-side rejection fails the order and reverses the
// reservation. A transient error before signing returns the order to
// PENDING; once the transaction hash is persisted the order stays
// PROCESSING and the scanner reconciles it by hash.
func (s *WithdrawalServiceImpl) DispatchDue(ctx context.Context) (int, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	claimed, err := s.orderRepo.ClaimPendingWithdrawals(ctx, dbTx, dispatchBatchSize)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("claim withdrawals: %w", err))
	}
	for i := range claimed {
		claimed[i].Status = domain.OrderStatusProcessing
		if err := s.orderRepo.Update(ctx, dbTx, &claimed[i]); err != nil {
			return 0, apperror.InternalError(fmt.Errorf("mark processing: %w", err))
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	dispatched := 0
	for i := range claimed {
		if err := s.broadcastOne(ctx, &claimed[i]); err != nil {
			s.log.Warn().Err(err).Str("order_no", claimed[i].OrderNo).Msg("withdrawal broadcast failed")
			continue
		}
		dispatched++
	}
	return dispatched, nil
}

func (s *WithdrawalServiceImpl) broadcastOne(ctx context.Context, order *domain.Order) error {
	adapter := s.chains.Get(order.Chain)
	if adapter == nil {
		return s.failWithReversal(ctx, order.ID, domain.FailReasonBroadcastRejected)
	}

	hotWallet, err := s.hotWalletRepo.GetByChain(ctx, order.Chain)
	if err != nil || hotWallet == nil {
		return s.requeue(ctx, order.ID, fmt.Errorf("hot wallet unavailable: %w", err))
	}

	privateKey, err := s.keystore.Decrypt(hotWallet.PrivateKeyEnc)
	if err != nil {
		return s.requeue(ctx, order.ID, apperror.ErrKeystoreFailure(err))
	}
	signed, txHash, err := adapter.SignTransfer(ctx, ports.TransferRequest{
		Token:  order.Token,
		From:   hotWallet.Address,
		To:     order.WalletAddress,
		Amount: order.RequestedAmount,
	}, privateKey)
	Zeroize(privateKey)
	if err != nil {
		return s.requeue(ctx, order.ID, fmt.Errorf("sign transfer: %w", err))
	}

	// The hash is known before broadcast. Persisting it first means a crash
	// or RPC error after the chain accepted the transaction is reconciled by
	// the scanner through the hash, never by a second broadcast of the same
	// funds.
	if err := s.recordTxHash(ctx, order.ID, txHash); err != nil {
		return err
	}

	if _, err := adapter.Broadcast(ctx, signed); err != nil {
		var rejected *ports.BroadcastRejectedError
		if errors.As(err, &rejected) {
			s.log.Warn().Str("order_no", order.OrderNo).Str("detail", rejected.Detail).Msg("broadcast rejected")
			return s.failWithReversal(ctx, order.ID, domain.FailReasonBroadcastRejected)
		}
		// Transient: the order stays PROCESSING with its hash. The scanner
		// either finds the transaction on chain or fails it as stuck.
		return fmt.Errorf("broadcast: %w", err)
	}

	s.log.Info().Str("order_no", order.OrderNo).Str("tx_hash", txHash).Msg("withdrawal broadcast")
	return nil
}

func (s *WithdrawalServiceImpl) recordTxHash(ctx context.Context, orderID uuid.UUID, txHash string) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil || locked == nil {
		return apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	locked.TxHash = &txHash
	if err := s.orderRepo.Update(ctx, dbTx, locked); err != nil {
		return apperror.InternalError(fmt.Errorf("record tx hash: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// ConfirmWithdrawal finalizes a PROCESSING order once its transaction
// reaches the required depth. The reservation already holds the debit, so
// completion touches no balances.
func (s *WithdrawalServiceImpl) ConfirmWithdrawal(ctx context.Context, orderID uuid.UUID, confirmations int64) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order == nil {
		return apperror.ErrNotFound("order")
	}
	if order.Status != domain.OrderStatusProcessing || order.TxHash == nil {
		return nil
	}

	order.Confirmations = confirmations
	order.ScanMisses = 0
	if confirmations >= order.RequiredConfs {
		now := time.Now().UTC()
		order.Status = domain.OrderStatusSuccess
		order.SettledAmount = order.RequestedAmount
		order.CompletedAt = &now
	}
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if order.Status == domain.OrderStatusSuccess {
		if err := s.webhooks.EnqueueTx(ctx, dbTx, order); err != nil {
			return apperror.InternalError(fmt.Errorf("enqueue webhook: %w", err))
		}
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	if order.Status == domain.OrderStatusSuccess {
		s.log.Info().Str("order_no", order.OrderNo).Msg("withdrawal settled")
	}
	return nil
}

// FailStuck fails a PROCESSING order and reverses its reservation.
func (s *WithdrawalServiceImpl) FailStuck(ctx context.Context, orderID uuid.UUID, reason string) error {
	return s.failWithReversal(ctx, orderID, reason)
}

// ForceComplete finalizes a withdrawal by privileged manual action, going
// through the same completion path as automatic settlement.
func (s *WithdrawalServiceImpl) ForceComplete(ctx context.Context, orderNo string, operator string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, uuid.Nil, orderNo)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get order: %w", err))
	}
	if order == nil || order.Kind != domain.OrderKindWithdrawal {
		return apperror.ErrNotFound("order")
	}
	if order.IsTerminal() {
		return apperror.ErrInvalidStateTransition(string(order.Status), string(domain.OrderStatusSuccess))
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	locked, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, order.ID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if locked == nil || locked.IsTerminal() {
		return nil
	}

	now := time.Now().UTC()
	locked.Status = domain.OrderStatusSuccess
	locked.SettledAmount = locked.RequestedAmount
	locked.CompletedAt = &now
	if err := s.orderRepo.Update(ctx, dbTx, locked); err != nil {
		return apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := s.webhooks.EnqueueTx(ctx, dbTx, locked); err != nil {
		return apperror.InternalError(fmt.Errorf("enqueue webhook: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("order_no", orderNo).
		Str("operator", operator).
		Msg("withdrawal force completed")
	return nil
}

// failWithReversal fails the order and credits back the reserved principal
// and fee, netting the reservation to zero.
func (s *WithdrawalServiceImpl) failWithReversal(ctx context.Context, orderID uuid.UUID, reason string) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order == nil || order.IsTerminal() {
		return nil
	}

	_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
		MerchantID: order.MerchantID,
		Token:      order.Token,
		OrderID:    &order.ID,
		Direction:  domain.EntryDirectionCredit,
		Kind:       domain.EntryKindAdjustment,
		Amount:     order.RequestedAmount,
		Remark:     "withdrawal reversal " + order.OrderNo,
	})
	if err != nil {
		return err
	}
	if order.Fee.Sign() > 0 {
		_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
			MerchantID: order.MerchantID,
			Token:      order.Token,
			OrderID:    &order.ID,
			Direction:  domain.EntryDirectionCredit,
			Kind:       domain.EntryKindAdjustment,
			Amount:     order.Fee,
			Remark:     "withdrawal fee reversal " + order.OrderNo,
		})
		if err != nil {
			return err
		}
	}

	order.Status = domain.OrderStatusFailed
	order.FailReason = &reason
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := s.webhooks.EnqueueTx(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("enqueue webhook: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Warn().Str("order_no", order.OrderNo).Str("reason", reason).Msg("withdrawal failed, reservation reversed")
	return nil
}

// requeue returns a claimed order to PENDING after a transient failure.
func (s *WithdrawalServiceImpl) requeue(ctx context.Context, orderID uuid.UUID, cause error) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil || order == nil {
		return apperror.InternalError(fmt.Errorf("lock order: %w", err))
	}
	if order.Status != domain.OrderStatusProcessing || order.TxHash != nil {
		return cause
	}

	order.Status = domain.OrderStatusPending
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("requeue order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return cause
}
