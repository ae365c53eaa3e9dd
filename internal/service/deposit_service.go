package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// slotGrace keeps an amount slot alive a little past order expiry so a
// payment landing at the boundary still matches unambiguously.
const slotGrace = 10 * time.Minute

// AdapterRegistry resolves chain adapters by chain code.
type AdapterRegistry interface {
	Get(chain string) ports.ChainAdapter
}

// DepositServiceImpl implements ports.DepositService.
type DepositServiceImpl struct {
	merchantRepo ports.MerchantRepository
	orderRepo    ports.OrderRepository
	addressRepo  ports.DepositAddressRepository
	ledgerSvc    ports.LedgerService
	webhooks     ports.WebhookDispatcher
	amountSlots  ports.AmountSlotStore
	rates        ports.RateProvider
	keystore     ports.Keystore
	chains       AdapterRegistry
	transactor   ports.DBTransactor
	decimals     map[string]int
	feeBps       int64
	expiry       time.Duration
	log          zerolog.Logger
}

// NewDepositService creates a new DepositServiceImpl.
func NewDepositService(
	merchantRepo ports.MerchantRepository,
	orderRepo ports.OrderRepository,
	addressRepo ports.DepositAddressRepository,
	ledgerSvc ports.LedgerService,
	webhooks ports.WebhookDispatcher,
	amountSlots ports.AmountSlotStore,
	rates ports.RateProvider,
	keystore ports.Keystore,
	chains AdapterRegistry,
	transactor ports.DBTransactor,
	decimals map[string]int,
	feeBps int64,
	expiry time.Duration,
	log zerolog.Logger,
) *DepositServiceImpl {
	return &DepositServiceImpl{
		merchantRepo: merchantRepo,
		orderRepo:    orderRepo,
		addressRepo:  addressRepo,
		ledgerSvc:    ledgerSvc,
		webhooks:     webhooks,
		amountSlots:  amountSlots,
		rates:        rates,
		keystore:     keystore,
		chains:       chains,
		transactor:   transactor,
		decimals:     decimals,
		feeBps:       feeBps,
		expiry:       expiry,
		log:          log,
	}
}

// CreateDeposit validates the request, allocates a deposit address with a
// unique settlement amount and opens a PENDING order.
func (s *DepositServiceImpl) CreateDeposit(ctx context.Context, req ports.CreateDepositRequest) (*ports.CreateDepositResponse, error) {
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

	amount, err := s.resolveAmount(ctx, req.Currency, req.Token, req.Amount, decimals)
	if err != nil {
		return nil, err
	}

	existing, err := s.orderRepo.GetByOutTradeNo(ctx, req.MerchantID, req.OutTradeNo, domain.OrderKindDeposit)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check out_trade_no: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrDuplicateOrder()
	}

	address, err := s.allocateAddress(ctx, req.MerchantID, req.Chain, req.Token, adapter)
	if err != nil {
		return nil, err
	}

	payAmount, err := s.amountSlots.AcquireUnique(ctx, req.Chain, address.Address, amount, s.expiry+slotGrace)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("acquire amount slot: %w", err))
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)
	order := &domain.Order{
		ID:              uuid.New(),
		OrderNo:         newOrderNo("D"),
		OutTradeNo:      req.OutTradeNo,
		MerchantID:      req.MerchantID,
		Kind:            domain.OrderKindDeposit,
		Chain:           req.Chain,
		Token:           req.Token,
		RequestedAmount: payAmount,
		SettledAmount:   big.NewInt(0),
		Fee:             big.NewInt(0),
		NetAmount:       big.NewInt(0),
		Status:          domain.OrderStatusPending,
		WalletAddress:   address.Address,
		RequiredConfs:   adapter.RequiredConfirmations(),
		CallbackURL:     req.CallbackURL,
		ExtraData:       req.ExtraData,
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.createOrder(ctx, order); err != nil {
		if slotErr := s.amountSlots.Release(ctx, req.Chain, address.Address, payAmount); slotErr != nil {
			s.log.Warn().Err(slotErr).Str("address", address.Address).Msg("failed to release amount slot")
		}
		return nil, err
	}

	s.log.Info().
		Str("order_no", order.OrderNo).
		Str("merchant_id", req.MerchantID.String()).
		Str("chain", req.Chain).
		Str("pay_amount", payAmount.String()).
		Msg("deposit order created")

	return &ports.CreateDepositResponse{
		Order:         order,
		WalletAddress: address.Address,
		PayAmount:     payAmount,
		ExpiresAt:     expiresAt,
	}, nil
}

// RegisterTransfer handles one scanner-discovered transfer. It matches an
// open PENDING order on the address, preferring an exact amount match, and
// moves it to DETECTED with the actual amount received. A transfer into a
// watched address with no open order books a fresh DETECTED order for the
// address owner. Idempotent per (address, txHash).
func (s *DepositServiceImpl) RegisterTransfer(ctx context.Context, transfer domain.IncomingTransfer) error {
	seen, err := s.orderRepo.GetByAddressTxHash(ctx, transfer.To, transfer.TxHash)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("check tx seen: %w", err))
	}
	if seen != nil {
		return nil
	}

	order, err := s.matchOpenDeposit(ctx, transfer)
	if err != nil {
		return err
	}
	if order == nil {
		return s.registerUnsolicited(ctx, transfer)
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
	if locked == nil || locked.Status != domain.OrderStatusPending {
		return nil
	}

	now := time.Now().UTC()
	fee := domain.ComputeFee(transfer.Amount, s.feeBps, nil)
	locked.Status = domain.OrderStatusDetected
	locked.SettledAmount = transfer.Amount
	locked.Fee = fee
	locked.NetAmount = new(big.Int).Sub(transfer.Amount, fee)
	locked.TxHash = &transfer.TxHash
	locked.BlockHeight = &transfer.BlockHeight
	locked.Confirmations = transfer.Confirmations
	locked.DetectedAt = &now

	if err := s.orderRepo.Update(ctx, dbTx, locked); err != nil {
		return apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("order_no", locked.OrderNo).
		Str("tx_hash", transfer.TxHash).
		Msg("deposit detected on chain")

	return s.recordActivity(ctx, transfer)
}

// ConfirmDeposit re-evaluates confirmation depth, crediting the ledger
// exactly once when the threshold is reached.
func (s *DepositServiceImpl) ConfirmDeposit(ctx context.Context, orderID uuid.UUID, confirmations int64) error {
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
	if order.IsTerminal() {
		return nil
	}
	if order.Status != domain.OrderStatusDetected && order.Status != domain.OrderStatusConfirming {
		return nil
	}

	order.Confirmations = confirmations
	order.ScanMisses = 0

	if confirmations < order.RequiredConfs {
		order.Status = domain.OrderStatusConfirming
		if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
			return apperror.InternalError(fmt.Errorf("update order: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		return nil
	}

	now := time.Now().UTC()
	order.Status = domain.OrderStatusSuccess
	order.CompletedAt = &now

	// Credit, state change and notification commit together.
	_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
		MerchantID: order.MerchantID,
		Token:      order.Token,
		OrderID:    &order.ID,
		Direction:  domain.EntryDirectionCredit,
		Kind:       domain.EntryKindPrincipal,
		Amount:     order.NetAmount,
		Remark:     "deposit " + order.OrderNo,
	})
	if err != nil {
		return err
	}
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("update order: %w", err))
	}
	if err := s.webhooks.EnqueueTx(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("enqueue webhook: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.releaseSlot(ctx, order)

	s.log.Info().
		Str("order_no", order.OrderNo).
		Int64("confirmations", confirmations).
		Str("net_amount", order.NetAmount.String()).
		Msg("deposit settled")
	return nil
}

// FailReorged fails a deposit lost to a chain reorganization, posting a
// compensating entry when the credit already landed.
func (s *DepositServiceImpl) FailReorged(ctx context.Context, orderID uuid.UUID) error {
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
	if order.Status == domain.OrderStatusFailed {
		return nil
	}

	if order.Status == domain.OrderStatusSuccess {
		_, err = s.ledgerSvc.PostTx(ctx, dbTx, ports.PostRequest{
			MerchantID: order.MerchantID,
			Token:      order.Token,
			OrderID:    &order.ID,
			Direction:  domain.EntryDirectionDebit,
			Kind:       domain.EntryKindAdjustment,
			Amount:     order.NetAmount,
			Remark:     "reorg reversal " + order.OrderNo,
		})
		if err != nil {
			return err
		}
	}

	reason := domain.FailReasonReorged
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

	s.releaseSlot(ctx, order)

	s.log.Warn().Str("order_no", order.OrderNo).Msg("deposit failed on chain reorg")
	return nil
}

// ExpireDue transitions overdue PENDING deposits to EXPIRED. The boundary
// is inclusive: an order expires at exactly its deadline.
func (s *DepositServiceImpl) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.orderRepo.ListExpiredPendingDeposits(ctx, now, 100)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("list expired deposits: %w", err))
	}

	expired := 0
	for i := range due {
		if err := s.expireOne(ctx, due[i].ID); err != nil {
			s.log.Warn().Err(err).Str("order_no", due[i].OrderNo).Msg("failed to expire deposit")
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *DepositServiceImpl) expireOne(ctx context.Context, orderID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}
	if order == nil || order.Status != domain.OrderStatusPending {
		return nil
	}

	order.Status = domain.OrderStatusExpired
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if err := s.webhooks.EnqueueTx(ctx, dbTx, order); err != nil {
		return fmt.Errorf("enqueue webhook: %w", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	s.releaseSlot(ctx, order)
	return nil
}

func (s *DepositServiceImpl) createOrder(ctx context.Context, order *domain.Order) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.orderRepo.Create(ctx, dbTx, order); err != nil {
		return apperror.InternalError(fmt.Errorf("create order: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (s *DepositServiceImpl) resolveAmount(ctx context.Context, currency, token, amount string, decimals int) (*big.Int, error) {
	if currency != "" && !strings.EqualFold(currency, token) {
		return s.rates.Convert(ctx, currency, token, amount)
	}
	units, err := domain.ParseUnits(amount, decimals)
	if err != nil || units.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}
	return units, nil
}

// allocateAddress hands out an AVAILABLE address for the triple, minting a
// fresh keypair when the pool is empty.
func (s *DepositServiceImpl) allocateAddress(ctx context.Context, merchantID uuid.UUID, chainCode, token string, adapter ports.ChainAdapter) (*domain.DepositAddress, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	address, err := s.addressRepo.AcquireAvailable(ctx, dbTx, merchantID, chainCode, token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("acquire address: %w", err))
	}
	if address != nil {
		if err := s.addressRepo.UpdateStatus(ctx, dbTx, address.ID, domain.AddressStatusAssigned); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("assign address: %w", err))
		}
		if err := dbTx.Commit(ctx); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
		}
		return address, nil
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	addr, privateKey, err := adapter.GenerateDepositKey()
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate deposit key: %w", err))
	}
	defer Zeroize(privateKey)

	keyEnc, err := s.keystore.Encrypt(privateKey)
	if err != nil {
		return nil, apperror.ErrKeystoreFailure(err)
	}

	now := time.Now().UTC()
	address = &domain.DepositAddress{
		ID:            uuid.New(),
		MerchantID:    merchantID,
		Chain:         chainCode,
		Token:         token,
		Address:       addr,
		PrivateKeyEnc: keyEnc,
		Status:        domain.AddressStatusAssigned,
		TotalReceived: big.NewInt(0),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create address: %w", err))
	}

	s.log.Info().Str("chain", chainCode).Str("address", addr).Msg("deposit address minted")
	return address, nil
}

// matchOpenDeposit picks the open order a transfer belongs to. An exact
// amount match wins; otherwise the payer under- or overpaid and the most
// recent open order on the address takes the transfer.
func (s *DepositServiceImpl) matchOpenDeposit(ctx context.Context, transfer domain.IncomingTransfer) (*domain.Order, error) {
	open, err := s.orderRepo.ListOpenDepositsByChain(ctx, transfer.Chain)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list open deposits: %w", err))
	}
	var newest *domain.Order
	for i := range open {
		o := &open[i]
		if o.Status != domain.OrderStatusPending || !strings.EqualFold(o.WalletAddress, transfer.To) {
			continue
		}
		if o.RequestedAmount.Cmp(transfer.Amount) == 0 {
			return o, nil
		}
		if newest == nil || o.CreatedAt.After(newest.CreatedAt) {
			newest = o
		}
	}
	return newest, nil
}

// registerUnsolicited books a transfer into a watched address that has no
// open order. The funds arrived and must be accounted for, so a DETECTED
// order is opened for the address owner over the actual amount.
func (s *DepositServiceImpl) registerUnsolicited(ctx context.Context, transfer domain.IncomingTransfer) error {
	address, err := s.addressRepo.GetByAddress(ctx, transfer.Chain, transfer.To)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("get address: %w", err))
	}
	if address == nil {
		s.log.Warn().
			Str("chain", transfer.Chain).
			Str("address", transfer.To).
			Str("tx_hash", transfer.TxHash).
			Str("amount", transfer.Amount.String()).
			Msg("transfer into unknown address")
		return nil
	}

	adapter := s.chains.Get(transfer.Chain)
	if adapter == nil {
		return apperror.ErrUnsupportedChain(transfer.Chain)
	}

	now := time.Now().UTC()
	fee := domain.ComputeFee(transfer.Amount, s.feeBps, nil)
	orderNo := newOrderNo("D")
	order := &domain.Order{
		ID:              uuid.New(),
		OrderNo:         orderNo,
		OutTradeNo:      orderNo,
		MerchantID:      address.MerchantID,
		Kind:            domain.OrderKindDeposit,
		Chain:           transfer.Chain,
		Token:           address.Token,
		RequestedAmount: transfer.Amount,
		SettledAmount:   transfer.Amount,
		Fee:             fee,
		NetAmount:       new(big.Int).Sub(transfer.Amount, fee),
		Status:          domain.OrderStatusDetected,
		WalletAddress:   address.Address,
		RequiredConfs:   adapter.RequiredConfirmations(),
		TxHash:          &transfer.TxHash,
		BlockHeight:     &transfer.BlockHeight,
		Confirmations:   transfer.Confirmations,
		DetectedAt:      &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.createOrder(ctx, order); err != nil {
		return err
	}

	s.log.Info().
		Str("order_no", order.OrderNo).
		Str("address", transfer.To).
		Str("tx_hash", transfer.TxHash).
		Str("amount", transfer.Amount.String()).
		Msg("unsolicited deposit booked")

	return s.recordActivity(ctx, transfer)
}

func (s *DepositServiceImpl) recordActivity(ctx context.Context, transfer domain.IncomingTransfer) error {
	address, err := s.addressRepo.GetByAddress(ctx, transfer.Chain, transfer.To)
	if err != nil || address == nil {
		return nil
	}
	if err := s.addressRepo.RecordActivity(ctx, address.ID, transfer.Amount, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("address", transfer.To).Msg("failed to record address activity")
	}
	return nil
}

func (s *DepositServiceImpl) releaseSlot(ctx context.Context, order *domain.Order) {
	if err := s.amountSlots.Release(ctx, order.Chain, order.WalletAddress, order.RequestedAmount); err != nil {
		s.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("failed to release amount slot")
	}
}

// newOrderNo builds a sortable order number: kind prefix, UTC timestamp,
// random suffix.
func newOrderNo(prefix string) string {
	suffix := make([]byte, 4)
	_, _ = rand.Read(suffix)
	return prefix + time.Now().UTC().Format("20060102150405") + strings.ToUpper(hex.EncodeToString(suffix))
}
