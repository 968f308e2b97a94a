package wallet

import "errors"

var (
	// ErrAmountBelowMinimum is a local validation rejection; no store call
	// was made.
	ErrAmountBelowMinimum = errors.New("amount below minimum")

	// ErrNonPositivePayout rejects a withdrawal whose net after tax and
	// processing fee would be zero or negative.
	ErrNonPositivePayout = errors.New("payout after deductions is not positive")

	// ErrInsufficientWithdrawable is the store's rejection of a withdrawal
	// exceeding the real-money portion of the balance.
	ErrInsufficientWithdrawable = errors.New("insufficient withdrawable balance")

	// ErrStoreUnavailable covers transport and store failures on write
	// paths, as opposed to a business-rule rejection.
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrExportUnavailable is returned when no object storage is configured
	// for statement export.
	ErrExportUnavailable = errors.New("statement export not configured")

	ErrWalletNotFound = errors.New("wallet not found")
)
