package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxScanBlocks caps one scan pass so a scanner far behind the tip catches
// up in bounded batches.
const maxScanBlocks = 200

// ScannerService drives block scanning and confirmation tracking for one
// chain. Each chain runs its own scanner; the cursor is owned exclusively
// by it.
type ScannerService struct {
	adapter        ports.ChainAdapter
	deposits       ports.DepositService
	withdrawals    ports.WithdrawalService
	orderRepo      ports.OrderRepository
	addressRepo    ports.DepositAddressRepository
	cursorRepo     ports.ChainCursorRepository
	transactor     ports.DBTransactor
	safetyLag      int64
	reorgTolerance int32
	interval       time.Duration
	log            zerolog.Logger
}

// NewScannerService creates a scanner for one chain adapter.
func NewScannerService(
	adapter ports.ChainAdapter,
	deposits ports.DepositService,
	withdrawals ports.WithdrawalService,
	orderRepo ports.OrderRepository,
	addressRepo ports.DepositAddressRepository,
	cursorRepo ports.ChainCursorRepository,
	transactor ports.DBTransactor,
	safetyLag int64,
	reorgTolerance int32,
	interval time.Duration,
	log zerolog.Logger,
) *ScannerService {
	return &ScannerService{
		adapter:        adapter,
		deposits:       deposits,
		withdrawals:    withdrawals,
		orderRepo:      orderRepo,
		addressRepo:    addressRepo,
		cursorRepo:     cursorRepo,
		transactor:     transactor,
		safetyLag:      safetyLag,
		reorgTolerance: reorgTolerance,
		interval:       interval,
		log:            log.With().Str("chain", adapter.Chain()).Logger(),
	}
}

// Run ticks the scanner until ctx is cancelled.
func (s *ScannerService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ScanOnce(ctx); err != nil {
				s.log.Error().Err(err).Msg("scan pass failed")
			}
			s.TrackConfirmations(ctx)
		}
	}
}

// ScanOnce scans the next block range behind the safety lag and advances
// the cursor only when every address in the range scanned cleanly. A
// partial failure leaves the cursor untouched so the range is rescanned.
func (s *ScannerService) ScanOnce(ctx context.Context) error {
	chain := s.adapter.Chain()

	tip, err := s.adapter.CurrentHeight(ctx)
	if err != nil {
		return fmt.Errorf("current height: %w", err)
	}
	target := tip - s.safetyLag
	if target < 0 {
		return nil
	}

	cursor, err := s.cursorRepo.Get(ctx, chain)
	if err != nil {
		return fmt.Errorf("get cursor: %w", err)
	}
	if cursor == nil {
		// First run: start at the current safe height, no backfill.
		cursor = &domain.ChainCursor{Chain: chain, Height: target}
		cursor.LastScannedAt = time.Now().UTC()
		cursor.UpdatedAt = cursor.LastScannedAt
		if err := s.cursorRepo.Upsert(ctx, cursor); err != nil {
			return fmt.Errorf("init cursor: %w", err)
		}
		s.log.Info().Int64("height", target).Msg("scan cursor initialized")
		return nil
	}

	from := cursor.Height + 1
	to := target
	if to < from {
		return nil
	}
	if to-from+1 > maxScanBlocks {
		to = from + maxScanBlocks - 1
	}

	addresses, err := s.addressRepo.ListActiveByChain(ctx, chain)
	if err != nil {
		return fmt.Errorf("list addresses: %w", err)
	}

	for i := range addresses {
		addr := &addresses[i]
		transfers, err := s.adapter.ScanAddress(ctx, addr.Address, addr.Token, from, to)
		if err != nil {
			return fmt.Errorf("scan %s [%d,%d]: %w", addr.Address, from, to, err)
		}
		for _, transfer := range transfers {
			if err := s.deposits.RegisterTransfer(ctx, transfer); err != nil {
				return fmt.Errorf("register transfer %s: %w", transfer.TxHash, err)
			}
		}
	}

	now := time.Now().UTC()
	cursor.Height = to
	cursor.ScanLag = tip - to
	cursor.LastScannedAt = now
	cursor.UpdatedAt = now
	if err := s.cursorRepo.Upsert(ctx, cursor); err != nil {
		return fmt.Errorf("advance cursor: %w", err)
	}

	s.log.Debug().
		Int64("from", from).
		Int64("to", to).
		Int64("lag", cursor.ScanLag).
		Int("addresses", len(addresses)).
		Msg("block range scanned")
	return nil
}

// TrackConfirmations re-checks the confirmation depth of every open order
// with a known transaction hash, on both sides of the ledger.
func (s *ScannerService) TrackConfirmations(ctx context.Context) {
	s.trackDeposits(ctx)
	s.trackWithdrawals(ctx)
}

func (s *ScannerService) trackDeposits(ctx context.Context) {
	orders, err := s.orderRepo.ListOpenDepositsByChain(ctx, s.adapter.Chain())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list open deposits")
		return
	}

	for i := range orders {
		order := &orders[i]
		if order.TxHash == nil {
			continue
		}

		confs, err := s.adapter.TransactionConfirmations(ctx, *order.TxHash)
		switch {
		case errors.Is(err, ports.ErrTxNotFound):
			misses, missErr := s.bumpScanMisses(ctx, order.ID)
			if missErr != nil {
				s.log.Error().Err(missErr).Str("order_no", order.OrderNo).Msg("failed to record scan miss")
				continue
			}
			if misses >= s.reorgTolerance {
				s.log.Warn().
					Str("order_no", order.OrderNo).
					Str("tx_hash", *order.TxHash).
					Int32("misses", misses).
					Msg("deposit transaction lost to reorg")
				if err := s.deposits.FailReorged(ctx, order.ID); err != nil {
					s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to reverse reorged deposit")
				}
			}
		case err != nil:
			s.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("confirmation lookup failed")
		default:
			if order.ScanMisses > 0 {
				if err := s.resetScanMisses(ctx, order.ID); err != nil {
					s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to reset scan misses")
				}
			}
			if err := s.deposits.ConfirmDeposit(ctx, order.ID, confs); err != nil {
				s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to confirm deposit")
			}
		}
	}
}

func (s *ScannerService) trackWithdrawals(ctx context.Context) {
	orders, err := s.orderRepo.ListBroadcastWithdrawalsByChain(ctx, s.adapter.Chain())
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list broadcast withdrawals")
		return
	}

	for i := range orders {
		order := &orders[i]

		confs, err := s.adapter.TransactionConfirmations(ctx, *order.TxHash)
		switch {
		case errors.Is(err, ports.ErrTxNotFound):
			misses, missErr := s.bumpScanMisses(ctx, order.ID)
			if missErr != nil {
				s.log.Error().Err(missErr).Str("order_no", order.OrderNo).Msg("failed to record scan miss")
				continue
			}
			if misses >= s.reorgTolerance {
				s.log.Warn().
					Str("order_no", order.OrderNo).
					Str("tx_hash", *order.TxHash).
					Int32("misses", misses).
					Msg("withdrawal transaction dropped from chain")
				if err := s.withdrawals.FailStuck(ctx, order.ID, domain.FailReasonStuck); err != nil {
					s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to reverse stuck withdrawal")
				}
			}
		case err != nil:
			s.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("confirmation lookup failed")
		default:
			if order.ScanMisses > 0 {
				if err := s.resetScanMisses(ctx, order.ID); err != nil {
					s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to reset scan misses")
				}
			}
			if err := s.withdrawals.ConfirmWithdrawal(ctx, order.ID, confs); err != nil {
				s.log.Error().Err(err).Str("order_no", order.OrderNo).Msg("failed to confirm withdrawal")
			}
		}
	}
}

// bumpScanMisses increments the consecutive not-found counter under the
// order's row lock and returns the new count.
func (s *ScannerService) bumpScanMisses(ctx context.Context, orderID uuid.UUID) (int32, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return 0, fmt.Errorf("lock order: %w", err)
	}
	if order == nil || order.IsTerminal() {
		return 0, nil
	}

	order.ScanMisses++
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return 0, fmt.Errorf("update order: %w", err)
	}
	if err := dbTx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return order.ScanMisses, nil
}

func (s *ScannerService) resetScanMisses(ctx context.Context, orderID uuid.UUID) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	order, err := s.orderRepo.GetByIDForUpdate(ctx, dbTx, orderID)
	if err != nil {
		return fmt.Errorf("lock order: %w", err)
	}
	if order == nil || order.ScanMisses == 0 {
		return nil
	}

	order.ScanMisses = 0
	if err := s.orderRepo.Update(ctx, dbTx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return dbTx.Commit(ctx)
}
