package wallet

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TransactionTypeDeposit      TransactionType = "deposit"
	TransactionTypeWithdrawal   TransactionType = "withdrawal"
	TransactionTypeContestEntry TransactionType = "contest_entry"
	TransactionTypePrizeWon     TransactionType = "prize_won"
	TransactionTypeRefund       TransactionType = "refund"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type TaxCreditStatus string

const (
	TaxCreditStatusActive  TaxCreditStatus = "active"
	TaxCreditStatusUsed    TaxCreditStatus = "used"
	TaxCreditStatusExpired TaxCreditStatus = "expired"
)

// Wallet is the per-user spendable balance, split into the portion backed by
// real deposits and the portion backed by tax credit.
//
// Degraded marks a wallet that was NOT obtained from a fresh authoritative
// read: either a cached snapshot or the synthetic zero wallet produced when
// every remote path failed. A real zero balance is never Degraded.
type Wallet struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Balance          float64   `json:"balance"`
	ActualBalance    float64   `json:"actual_balance"`
	TaxCreditBalance float64   `json:"tax_credit_balance"`
	UpdatedAt        time.Time `json:"updated_at"`
	Degraded         bool      `json:"degraded,omitempty"`
}

// Transaction is an immutable record of a balance-affecting event. Rows are
// created only by the store's procedures; the service fills in a local echo
// when the procedure does not return one.
type Transaction struct {
	ID             string            `db:"id" json:"id"`
	UserID         uuid.UUID         `db:"user_id" json:"user_id"`
	Amount         float64           `db:"amount" json:"amount"`
	Type           TransactionType   `db:"type" json:"type"`
	Status         TransactionStatus `db:"status" json:"status"`
	PaymentMethod  *string           `db:"payment_method" json:"payment_method,omitempty"`
	Description    *string           `db:"description" json:"description,omitempty"`
	TaxCreditUsed  float64           `db:"tax_credit_used" json:"tax_credit_used"`
	TaxCreditGiven float64           `db:"tax_credit_given" json:"tax_credit_given"`
	CreatedAt      time.Time         `db:"created_at" json:"created_at"`
}

// TaxCreditLog is the audit trail of a credit grant. Read-only for clients.
type TaxCreditLog struct {
	ID             string          `db:"id" json:"id"`
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	DepositAmount  float64         `db:"deposit_amount" json:"deposit_amount"`
	TaxAmount      float64         `db:"tax_amount" json:"tax_amount"`
	TaxCreditGiven float64         `db:"tax_credit_given" json:"tax_credit_given"`
	Status         TaxCreditStatus `db:"status" json:"status"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UsedAt         *time.Time      `db:"used_at" json:"used_at,omitempty"`
}

// Row is a raw wallet row as the store returns it. Balance arrives as text
// (NUMERIC scan) and the sub-balances may be absent, depending on which read
// path produced the row.
type Row struct {
	ID               uuid.UUID       `db:"id"`
	UserID           uuid.UUID       `db:"user_id"`
	Balance          string          `db:"balance"`
	ActualBalance    sql.NullFloat64 `db:"actual_balance"`
	TaxCreditBalance sql.NullFloat64 `db:"tax_credit_balance"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// normalizeRow turns a raw store row into a Wallet. It is the single place
// where the split derivation lives: when the row does not carry both
// sub-balances, actual and tax credit are derived as the 72/28 split of the
// total, so actual + tax credit always reconciles with balance.
func normalizeRow(row *Row) Wallet {
	balance, err := strconv.ParseFloat(row.Balance, 64)
	if err != nil {
		balance = 0
	}

	w := Wallet{
		ID:        row.ID,
		UserID:    row.UserID,
		Balance:   balance,
		UpdatedAt: row.UpdatedAt,
	}

	if row.ActualBalance.Valid && row.TaxCreditBalance.Valid {
		w.ActualBalance = row.ActualBalance.Float64
		w.TaxCreditBalance = row.TaxCreditBalance.Float64
		return w
	}

	w.ActualBalance = balance * RealShare
	w.TaxCreditBalance = balance * TaxRate
	return w
}

// zeroWallet is the synthetic fallback returned when no remote read path
// could produce a wallet. The user id doubles as the wallet id.
func zeroWallet(userID uuid.UUID) Wallet {
	return Wallet{
		ID:        userID,
		UserID:    userID,
		UpdatedAt: time.Now().UTC(),
		Degraded:  true,
	}
}
