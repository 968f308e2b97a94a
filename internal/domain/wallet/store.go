package wallet

import (
	"context"

	"github.com/google/uuid"
)

// RegistrationStatus values echoed by the contest_register procedure.
// The full mapping to user-facing outcomes lives in the contest package.
const (
	RegistrationSuccess             = "SUCCESS"
	RegistrationInsufficientBalance = "INSUFFICIENT_BALANCE"
	RegistrationAlreadyRegistered   = "ALREADY_REGISTERED"
	RegistrationContestClosed       = "CONTEST_NOT_FOUND_OR_CLOSED"
	RegistrationWalletNotFound      = "WALLET_NOT_FOUND"
)

// Store is the remote ledger store: the only writer of wallet rows. All
// mutations happen inside its atomic procedures; this client is strictly
// read-and-request and never computes a balance to write back.
type Store interface {
	// SyncBalance reconciles the wallet's cached balance with transaction
	// history. Best-effort: callers ignore its error.
	SyncBalance(ctx context.Context, userID uuid.UUID) error

	// GetRow fetches the wallet row directly. Returns ErrWalletNotFound
	// when no row exists.
	GetRow(ctx context.Context, userID uuid.UUID) (*Row, error)

	// GetRowAlternate reads the same wallet through the stored-function
	// path. Same semantics as GetRow.
	GetRowAlternate(ctx context.Context, userID uuid.UUID) (*Row, error)

	// CreateRow lazily creates a zero-balance wallet. Idempotent.
	CreateRow(ctx context.Context, userID uuid.UUID) (*Row, error)

	// Deposit runs the atomic deposit procedure. Returns the transaction id
	// echoed by the procedure, which may be empty.
	Deposit(ctx context.Context, userID uuid.UUID, amount float64, method, description string) (string, error)

	// Withdraw runs the atomic withdrawal procedure with the gross amount.
	Withdraw(ctx context.Context, userID uuid.UUID, amount float64, method, description string) (string, error)

	// RegisterForContest is the single atomic check-debit-register call.
	// Returns one of the Registration* codes.
	RegisterForContest(ctx context.Context, userID uuid.UUID, contestID string, entryFee float64) (string, error)

	ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Transaction, error)
	ListTaxCreditLogs(ctx context.Context, userID uuid.UUID) ([]TaxCreditLog, error)
}
