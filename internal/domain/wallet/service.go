package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service orchestrates the remote ledger store. Read paths are total: they
// always produce a value, falling back through the cache down to a synthetic
// zero wallet instead of surfacing an error. Write paths return typed
// sentinels so callers can tell a validation rejection from a store outage.
type Service struct {
	store Store
	cache SnapshotCache
}

// SnapshotCache is the local best-effort cache collaborator. Implementations
// never fail loudly; a broken or absent cache behaves as a permanent miss.
type SnapshotCache interface {
	SaveWallet(ctx context.Context, w Wallet)
	GetWallet(ctx context.Context, userID uuid.UUID) (Wallet, bool)
	InvalidateWallet(ctx context.Context, userID uuid.UUID)
	SaveTransactions(ctx context.Context, userID uuid.UUID, limit, offset int, txs []Transaction)
	GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, bool)
}

func NewService(store Store, cache SnapshotCache) *Service {
	return &Service{store: store, cache: cache}
}

// GetWallet returns the user's wallet. It never fails; the purchase and
// profile flows must always have a number to render. The cascade is:
// best-effort sync, direct row read, stored-function read, cached snapshot,
// lazy row creation, synthetic zero wallet.
func (s *Service) GetWallet(ctx context.Context, userID uuid.UUID) Wallet {
	if err := s.store.SyncBalance(ctx, userID); err != nil {
		log.Debug().Err(err).Str("user_id", userID.String()).Msg("balance sync skipped")
	}

	if row, err := s.store.GetRow(ctx, userID); err == nil {
		w := normalizeRow(row)
		s.cache.SaveWallet(ctx, w)
		return w
	} else {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("direct wallet read failed")
	}

	if row, err := s.store.GetRowAlternate(ctx, userID); err == nil {
		w := normalizeRow(row)
		s.cache.SaveWallet(ctx, w)
		return w
	} else {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("alternate wallet read failed")
	}

	if w, ok := s.cache.GetWallet(ctx, userID); ok {
		w.Degraded = true
		return w
	}

	if row, err := s.store.CreateRow(ctx, userID); err == nil {
		return normalizeRow(row)
	} else {
		log.Error().Err(err).Str("user_id", userID.String()).Msg("wallet creation failed, returning zero wallet")
	}

	return zeroWallet(userID)
}

// InitializeWallet ensures a wallet exists for the user. Idempotent; it
// shares GetWallet's fallback policy, so a failed initialization yields the
// same degraded zero wallet rather than fabricated data.
func (s *Service) InitializeWallet(ctx context.Context, userID uuid.UUID) Wallet {
	w := s.GetWallet(ctx, userID)
	if w.Degraded {
		log.Warn().Str("user_id", userID.String()).Msg("wallet initialized in degraded mode")
	}
	return w
}

// AddMoney runs the deposit procedure. The store credits the full amount to
// the balance and grants amount*TaxRate as tax credit, so the user sees the
// whole deposit as spendable.
func (s *Service) AddMoney(ctx context.Context, userID uuid.UUID, amount float64, method string) (*Transaction, error) {
	if amount < MinDeposit {
		return nil, ErrAmountBelowMinimum
	}

	description := fmt.Sprintf("Deposit of %.2f via %s", amount, method)
	txID, err := s.store.Deposit(ctx, userID, amount, method, description)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Float64("amount", amount).Msg("deposit failed")
		return nil, ErrStoreUnavailable
	}

	// Refresh the snapshot from the authoritative balance; the local figures
	// below are display values only.
	s.cache.InvalidateWallet(ctx, userID)
	s.GetWallet(ctx, userID)

	tx := s.buildEcho(txID, userID, amount, TransactionTypeDeposit, method, description)
	tx.TaxCreditGiven = amount * TaxRate

	log.Info().Str("user_id", userID.String()).Float64("amount", amount).Str("tx_id", tx.ID).Msg("deposit applied")
	return tx, nil
}

// WithdrawMoney runs the withdrawal procedure with the gross amount. The
// store owns the actual deduction and tax bookkeeping; the net figure here is
// advisory and only embedded in the description.
func (s *Service) WithdrawMoney(ctx context.Context, userID uuid.UUID, amount float64, method string) (*Transaction, error) {
	if amount < MinWithdrawal {
		return nil, ErrAmountBelowMinimum
	}

	taxAmount := amount * TaxRate
	net := amount - taxAmount - WithdrawalProcessingFee
	if net <= 0 {
		return nil, ErrNonPositivePayout
	}

	description := fmt.Sprintf("Withdrawal of %.2f via %s (est. payout %.2f after tax %.2f and fee %d)",
		amount, method, net, taxAmount, WithdrawalProcessingFee)
	txID, err := s.store.Withdraw(ctx, userID, amount, method, description)
	if errors.Is(err, ErrInsufficientWithdrawable) || errors.Is(err, ErrWalletNotFound) {
		log.Warn().Err(err).Str("user_id", userID.String()).Float64("amount", amount).Msg("withdrawal rejected")
		return nil, err
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID.String()).Float64("amount", amount).Msg("withdrawal failed")
		return nil, ErrStoreUnavailable
	}

	s.cache.InvalidateWallet(ctx, userID)
	s.GetWallet(ctx, userID)

	tx := s.buildEcho(txID, userID, amount, TransactionTypeWithdrawal, method, description)

	log.Info().Str("user_id", userID.String()).Float64("amount", amount).Float64("net", net).Str("tx_id", tx.ID).Msg("withdrawal applied")
	return tx, nil
}

// GetTransactions returns a page of history, newest first. On store failure
// it serves the cached page when one exists, otherwise an empty list.
func (s *Service) GetTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) []Transaction {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	txs, err := s.store.ListTransactions(ctx, userID, limit, offset)
	if err == nil {
		s.cache.SaveTransactions(ctx, userID, limit, offset, txs)
		return txs
	}
	log.Warn().Err(err).Str("user_id", userID.String()).Msg("transaction history read failed")

	if cached, ok := s.cache.GetTransactions(ctx, userID, limit, offset); ok {
		return cached
	}
	return []Transaction{}
}

// GetTaxCreditLogs is a plain read-through; empty list on failure.
func (s *Service) GetTaxCreditLogs(ctx context.Context, userID uuid.UUID) []TaxCreditLog {
	logs, err := s.store.ListTaxCreditLogs(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("tax credit log read failed")
		return []TaxCreditLog{}
	}
	return logs
}

// buildEcho constructs the local transaction echo: the procedure's id when it
// returned one, otherwise a generated one so the caller never blocks on the
// procedure's return shape.
func (s *Service) buildEcho(txID string, userID uuid.UUID, amount float64, txType TransactionType, method, description string) *Transaction {
	if txID == "" {
		txID = fmt.Sprintf("tx-%d", time.Now().UnixNano())
	}
	return &Transaction{
		ID:            txID,
		UserID:        userID,
		Amount:        amount,
		Type:          txType,
		Status:        TransactionStatusCompleted,
		PaymentMethod: &method,
		Description:   &description,
		CreatedAt:     time.Now().UTC(),
	}
}

// AmountAfterTax is the display estimate of a withdrawal's net payout. The
// store computes the authoritative figure independently.
func AmountAfterTax(amount float64) float64 {
	return amount - amount*TaxRate - WithdrawalProcessingFee
}

// DisplayAmount is the balance shown to the user for a deposit: the full
// amount, regardless of the real/credit split behind it.
func DisplayAmount(amount float64) float64 {
	return amount
}
