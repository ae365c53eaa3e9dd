package service

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService. Every balance change in
// the system flows through Post or PostTx; the stored balance is always the
// last entry's balance_after.
type LedgerServiceImpl struct {
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Post opens its own transaction and posts one entry atomically.
func (s *LedgerServiceImpl) Post(ctx context.Context, req ports.PostRequest) (*domain.LedgerEntry, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	entry, err := s.PostTx(ctx, dbTx, req)
	if err != nil {
		return nil, err
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}
	return entry, nil
}

// PostTx posts inside a caller-owned transaction. The account row lock
// serializes concurrent postings, so balance_before is read under the same
// lock that guards the write.
func (s *LedgerServiceImpl) PostTx(ctx context.Context, tx pgx.Tx, req ports.PostRequest) (*domain.LedgerEntry, error) {
	if req.Amount == nil || req.Amount.Sign() <= 0 {
		return nil, apperror.ErrInvalidAmount()
	}

	account, err := s.accountRepo.GetByMerchantTokenForUpdate(ctx, tx, req.MerchantID, req.Token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock account: %w", err))
	}
	if account == nil {
		// First credit creates the account; a debit against a missing
		// account is an insufficient balance, not a system error.
		if req.Direction == domain.EntryDirectionDebit {
			return nil, apperror.ErrInsufficientBalance()
		}
		account, err = s.createAccount(ctx, tx, req.MerchantID, req.Token)
		if err != nil {
			return nil, err
		}
	}

	balanceBefore := new(big.Int).Set(account.Balance)
	var balanceAfter *big.Int
	switch req.Direction {
	case domain.EntryDirectionCredit:
		balanceAfter = new(big.Int).Add(balanceBefore, req.Amount)
	case domain.EntryDirectionDebit:
		if balanceBefore.Cmp(req.Amount) < 0 {
			return nil, apperror.ErrInsufficientBalance()
		}
		balanceAfter = new(big.Int).Sub(balanceBefore, req.Amount)
	default:
		return nil, apperror.Validation("unknown entry direction")
	}

	entry := &domain.LedgerEntry{
		ID:            uuid.New(),
		AccountID:     account.ID,
		OrderID:       req.OrderID,
		Direction:     req.Direction,
		Kind:          req.Kind,
		Amount:        new(big.Int).Set(req.Amount),
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		CreatedAt:     time.Now().UTC(),
	}
	if req.Remark != "" {
		remark := req.Remark
		entry.Remark = &remark
	}

	if err := s.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}
	if err := s.accountRepo.UpdateBalance(ctx, tx, account.ID, balanceAfter); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update balance: %w", err))
	}

	s.log.Info().
		Str("account_id", account.ID.String()).
		Str("direction", string(req.Direction)).
		Str("amount", req.Amount.String()).
		Str("balance_after", balanceAfter.String()).
		Msg("ledger entry posted")

	return entry, nil
}

// Balance returns the current account balance, zero for an account that
// has never been credited.
func (s *LedgerServiceImpl) Balance(ctx context.Context, merchantID uuid.UUID, token string) (*big.Int, error) {
	account, err := s.accountRepo.GetByMerchantToken(ctx, merchantID, token)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get account: %w", err))
	}
	if account == nil {
		return big.NewInt(0), nil
	}
	return account.Balance, nil
}

func (s *LedgerServiceImpl) createAccount(ctx context.Context, tx pgx.Tx, merchantID uuid.UUID, token string) (*domain.Account, error) {
	now := time.Now().UTC()
	account := &domain.Account{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Token:      token,
		Balance:    big.NewInt(0),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create account: %w", err))
	}
	return account, nil
}
