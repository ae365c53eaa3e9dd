package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SweepService consolidates deposit address balances into the per-chain
// collection wallet. Sweeps are pure treasury movements and never touch the
// merchant ledger.
type SweepService struct {
	addressRepo   ports.DepositAddressRepository
	collectRepo   ports.CollectTaskRepository
	hotWalletRepo ports.HotWalletRepository
	keystore      ports.Keystore
	chains        AdapterRegistry
	thresholds    map[string]*big.Int // token -> minimum balance worth sweeping
	collectTo     map[string]string   // chain -> collection wallet address
	batchSize     int
	maxRetries    int32
	interval      time.Duration
	log           zerolog.Logger
}

// NewSweepService creates a new SweepService.
func NewSweepService(
	addressRepo ports.DepositAddressRepository,
	collectRepo ports.CollectTaskRepository,
	hotWalletRepo ports.HotWalletRepository,
	keystore ports.Keystore,
	chains AdapterRegistry,
	thresholds map[string]*big.Int,
	collectTo map[string]string,
	batchSize int,
	maxRetries int32,
	interval time.Duration,
	log zerolog.Logger,
) *SweepService {
	return &SweepService{
		addressRepo:   addressRepo,
		collectRepo:   collectRepo,
		hotWalletRepo: hotWalletRepo,
		keystore:      keystore,
		chains:        chains,
		thresholds:    thresholds,
		collectTo:     collectTo,
		batchSize:     batchSize,
		maxRetries:    maxRetries,
		interval:      interval,
		log:           log,
	}
}

// Run ticks the sweeper for one chain until ctx is cancelled.
func (s *SweepService) Run(ctx context.Context, chain string) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx, chain); err != nil {
				s.log.Error().Err(err).Str("chain", chain).Msg("sweep pass failed")
			}
			if err := s.RetryFailed(ctx, chain); err != nil {
				s.log.Error().Err(err).Str("chain", chain).Msg("sweep retry pass failed")
			}
		}
	}
}

// SweepOnce scans active deposit addresses on a chain and sweeps those at
// or above the token threshold, up to the batch cap. Returns the number of
// sweep tasks executed.
func (s *SweepService) SweepOnce(ctx context.Context, chain string) (int, error) {
	adapter := s.chains.Get(chain)
	if adapter == nil {
		return 0, fmt.Errorf("no adapter for chain %s", chain)
	}

	destination, err := s.destination(ctx, chain)
	if err != nil {
		return 0, err
	}

	addresses, err := s.addressRepo.ListActiveByChain(ctx, chain)
	if err != nil {
		return 0, fmt.Errorf("list addresses: %w", err)
	}

	swept := 0
	for i := range addresses {
		if swept >= s.batchSize {
			break
		}
		addr := &addresses[i]

		inFlight, err := s.collectRepo.HasInFlight(ctx, addr.ID)
		if err != nil {
			s.log.Error().Err(err).Str("address", addr.Address).Msg("in-flight check failed")
			continue
		}
		if inFlight {
			continue
		}

		threshold := s.thresholds[addr.Token]
		if threshold == nil {
			continue
		}
		balance, err := adapter.Balance(ctx, addr.Address, addr.Token)
		if err != nil {
			s.log.Warn().Err(err).Str("address", addr.Address).Msg("balance lookup failed")
			continue
		}
		if balance.Cmp(threshold) < 0 {
			continue
		}

		task := &domain.CollectTask{
			ID:          uuid.New(),
			AddressID:   addr.ID,
			FromAddress: addr.Address,
			ToAddress:   destination,
			Chain:       chain,
			Token:       addr.Token,
			Amount:      balance,
			Status:      domain.CollectStatusPending,
			CreatedAt:   time.Now().UTC(),
			UpdatedAt:   time.Now().UTC(),
		}
		if err := s.collectRepo.Create(ctx, task); err != nil {
			s.log.Error().Err(err).Str("address", addr.Address).Msg("failed to create sweep task")
			continue
		}

		s.executeTask(ctx, adapter, task, addr.PrivateKeyEnc)
		swept++
	}
	return swept, nil
}

// RetryFailed re-executes failed sweep tasks under the retry cap.
func (s *SweepService) RetryFailed(ctx context.Context, chain string) error {
	adapter := s.chains.Get(chain)
	if adapter == nil {
		return fmt.Errorf("no adapter for chain %s", chain)
	}

	tasks, err := s.collectRepo.ListRetryable(ctx, chain, s.maxRetries, s.batchSize)
	if err != nil {
		return fmt.Errorf("list retryable tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		addr, err := s.addressRepo.GetByAddress(ctx, chain, task.FromAddress)
		if err != nil || addr == nil {
			s.log.Error().Err(err).Str("address", task.FromAddress).Msg("sweep source address missing")
			continue
		}
		s.executeTask(ctx, adapter, task, addr.PrivateKeyEnc)
	}
	return nil
}

// executeTask performs one sweep attempt: ensure gas, sign, broadcast.
// Failures increment the retry count; at the cap the task turns SKIPPED
// for manual intervention.
func (s *SweepService) executeTask(ctx context.Context, adapter ports.ChainAdapter, task *domain.CollectTask, keyEnc string) {
	task.Status = domain.CollectStatusProcessing
	if err := s.collectRepo.Update(ctx, task); err != nil {
		s.log.Error().Err(err).Str("task_id", task.ID.String()).Msg("failed to mark task processing")
		return
	}

	fee, err := adapter.EstimateFee(ctx, task.Token)
	if err != nil {
		s.failTask(ctx, task, fmt.Errorf("estimate fee: %w", err))
		return
	}

	native, err := adapter.NativeBalance(ctx, task.FromAddress)
	if err != nil {
		s.failTask(ctx, task, fmt.Errorf("native balance: %w", err))
		return
	}
	if native.Cmp(fee) < 0 {
		// Not enough gas to move the tokens. Top up from the hot wallet and
		// let the next pass retry once the gas transfer lands.
		if err := s.topUpGas(ctx, adapter, task.FromAddress, fee); err != nil {
			s.failTask(ctx, task, fmt.Errorf("gas top-up: %w", err))
			return
		}
		s.failTask(ctx, task, fmt.Errorf("awaiting gas top-up"))
		return
	}

	amount := new(big.Int).Set(task.Amount)
	if task.Token == "" {
		amount.Sub(amount, fee)
		if amount.Sign() <= 0 {
			s.failTask(ctx, task, fmt.Errorf("balance below sweep fee"))
			return
		}
	}

	key, err := s.keystore.Decrypt(keyEnc)
	if err != nil {
		s.failTask(ctx, task, fmt.Errorf("decrypt key: %w", err))
		return
	}
	signed, txHash, err := adapter.SignTransfer(ctx, ports.TransferRequest{
		Token:  task.Token,
		From:   task.FromAddress,
		To:     task.ToAddress,
		Amount: amount,
	}, key)
	Zeroize(key)
	if err != nil {
		s.failTask(ctx, task, fmt.Errorf("sign sweep: %w", err))
		return
	}

	if _, err := adapter.Broadcast(ctx, signed); err != nil {
		s.failTask(ctx, task, fmt.Errorf("broadcast sweep: %w", err))
		return
	}

	task.Status = domain.CollectStatusSuccess
	task.TxHash = &txHash
	task.LastError = nil
	task.GasUsed = fee
	if err := s.collectRepo.Update(ctx, task); err != nil {
		s.log.Error().Err(err).Str("task_id", task.ID.String()).Msg("failed to record sweep success")
		return
	}

	s.log.Info().
		Str("chain", task.Chain).
		Str("from", task.FromAddress).
		Str("tx_hash", txHash).
		Str("amount", amount.String()).
		Msg("sweep broadcast")
}

func (s *SweepService) failTask(ctx context.Context, task *domain.CollectTask, cause error) {
	task.RetryCount++
	msg := cause.Error()
	task.LastError = &msg
	if task.RetryCount >= s.maxRetries {
		task.Status = domain.CollectStatusSkipped
		s.log.Error().
			Str("task_id", task.ID.String()).
			Str("from", task.FromAddress).
			Int32("retries", task.RetryCount).
			Str("cause", msg).
			Msg("sweep retries exhausted, task skipped")
	} else {
		task.Status = domain.CollectStatusFailed
		s.log.Warn().
			Str("task_id", task.ID.String()).
			Str("from", task.FromAddress).
			Str("cause", msg).
			Msg("sweep attempt failed")
	}
	if err := s.collectRepo.Update(ctx, task); err != nil {
		s.log.Error().Err(err).Str("task_id", task.ID.String()).Msg("failed to record sweep failure")
	}
}

// topUpGas sends the fee estimate worth of the native asset from the hot
// wallet to the deposit address.
func (s *SweepService) topUpGas(ctx context.Context, adapter ports.ChainAdapter, to string, fee *big.Int) error {
	wallet, err := s.hotWalletRepo.GetByChain(ctx, adapter.Chain())
	if err != nil {
		return fmt.Errorf("get hot wallet: %w", err)
	}
	if wallet == nil {
		return fmt.Errorf("no hot wallet for chain %s", adapter.Chain())
	}

	key, err := s.keystore.Decrypt(wallet.PrivateKeyEnc)
	if err != nil {
		return fmt.Errorf("decrypt hot wallet key: %w", err)
	}
	signed, txHash, err := adapter.SignTransfer(ctx, ports.TransferRequest{
		From:   wallet.Address,
		To:     to,
		Amount: fee,
	}, key)
	Zeroize(key)
	if err != nil {
		return fmt.Errorf("sign top-up: %w", err)
	}

	if _, err := adapter.Broadcast(ctx, signed); err != nil {
		return fmt.Errorf("broadcast top-up: %w", err)
	}

	s.log.Info().
		Str("chain", adapter.Chain()).
		Str("to", to).
		Str("amount", fee.String()).
		Str("tx_hash", txHash).
		Msg("gas top-up broadcast")
	return nil
}

// destination resolves the collection wallet for a chain, falling back to
// the hot wallet address when no dedicated one is configured.
func (s *SweepService) destination(ctx context.Context, chain string) (string, error) {
	if to := s.collectTo[chain]; to != "" {
		return to, nil
	}
	wallet, err := s.hotWalletRepo.GetByChain(ctx, chain)
	if err != nil {
		return "", fmt.Errorf("get hot wallet: %w", err)
	}
	if wallet == nil {
		return "", fmt.Errorf("no collection destination for chain %s", chain)
	}
	return wallet.Address, nil
}
