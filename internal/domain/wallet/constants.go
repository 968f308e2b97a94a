package wallet

// Product-wide ledger constants. Every rate and floor lives here; nothing
// else in the codebase hard-codes these numbers.
const (
	// TaxRate is the share of a deposit granted back as tax credit, and
	// the share withheld from a withdrawal.
	TaxRate = 0.28

	// RealShare is the deposit share backed by real money.
	RealShare = 1 - TaxRate

	// MinDeposit is the smallest accepted deposit.
	MinDeposit = 10.0

	// MinWithdrawal is the smallest accepted gross withdrawal.
	MinWithdrawal = 100.0

	// HourlyProcessingFee and ProcessingHours make up the flat withdrawal
	// processing fee. Kept separate so the fee reads as the product rule
	// it is: a per-hour charge over the settlement window.
	HourlyProcessingFee = 5
	ProcessingHours     = 24

	// WithdrawalProcessingFee is the flat fee deducted from every payout.
	WithdrawalProcessingFee = HourlyProcessingFee * ProcessingHours

	// BalanceEpsilon is the tolerance for float comparisons of balances.
	BalanceEpsilon = 1e-6

	defaultHistoryLimit = 20
)
