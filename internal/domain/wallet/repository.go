package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository implements Store against Postgres. Every mutation is a single
// stored-function call so the database remains the sole serialization point.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

const rowColumns = `id, user_id, balance::text AS balance, actual_balance, tax_credit_balance, updated_at`

func (r *Repository) SyncBalance(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `SELECT wallet_sync_balance($1)`, userID)
	if err != nil {
		return fmt.Errorf("sync balance: %w", err)
	}
	return nil
}

func (r *Repository) GetRow(ctx context.Context, userID uuid.UUID) (*Row, error) {
	var row Row
	err := r.db.GetContext(ctx, &row, `
		SELECT `+rowColumns+`
		FROM wallets
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet row: %w", err)
	}
	return &row, nil
}

func (r *Repository) GetRowAlternate(ctx context.Context, userID uuid.UUID) (*Row, error) {
	var row Row
	err := r.db.GetContext(ctx, &row, `SELECT `+rowColumns+` FROM wallet_fetch($1)`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("wallet_fetch: %w", err)
	}
	return &row, nil
}

func (r *Repository) CreateRow(ctx context.Context, userID uuid.UUID) (*Row, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wallets (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("create wallet row: %w", err)
	}
	return r.GetRow(ctx, userID)
}

func (r *Repository) Deposit(ctx context.Context, userID uuid.UUID, amount float64, method, description string) (string, error) {
	var txID sql.NullString
	err := r.db.GetContext(ctx, &txID,
		`SELECT wallet_deposit($1, $2, $3, $4)`,
		userID, amount, method, description)
	if err != nil {
		return "", fmt.Errorf("wallet_deposit: %w", err)
	}
	return txID.String, nil
}

// Custom SQLSTATE codes raised by wallet_withdraw so business rejections are
// distinguishable from transport failures.
const (
	codeInsufficientWithdrawable = "WD001"
	codeWithdrawWalletNotFound   = "WD002"
)

func (r *Repository) Withdraw(ctx context.Context, userID uuid.UUID, amount float64, method, description string) (string, error) {
	var txID sql.NullString
	err := r.db.GetContext(ctx, &txID,
		`SELECT wallet_withdraw($1, $2, $3, $4)`,
		userID, amount, method, description)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch string(pqErr.Code) {
			case codeInsufficientWithdrawable:
				return "", ErrInsufficientWithdrawable
			case codeWithdrawWalletNotFound:
				return "", ErrWalletNotFound
			}
		}
		return "", fmt.Errorf("wallet_withdraw: %w", err)
	}
	return txID.String, nil
}

func (r *Repository) RegisterForContest(ctx context.Context, userID uuid.UUID, contestID string, entryFee float64) (string, error) {
	var status string
	err := r.db.GetContext(ctx, &status,
		`SELECT contest_register($1, $2, $3)`,
		userID, contestID, entryFee)
	if err != nil {
		return "", fmt.Errorf("contest_register: %w", err)
	}
	return status, nil
}

func (r *Repository) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error) {
	txs := []Transaction{}
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, amount, type, status, payment_method, description,
		       tax_credit_used, tax_credit_given, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *Repository) ListTaxCreditLogs(ctx context.Context, userID uuid.UUID) ([]TaxCreditLog, error) {
	logs := []TaxCreditLog{}
	err := r.db.SelectContext(ctx, &logs, `
		SELECT id, user_id, deposit_amount, tax_amount, tax_credit_given,
		       status, created_at, used_at
		FROM tax_credit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tax credit logs: %w", err)
	}
	return logs, nil
}
