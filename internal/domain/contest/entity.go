package contest

// Status is the user-facing outcome of an entry attempt.
type Status string

const (
	StatusSuccess             Status = "SUCCESS"
	StatusInsufficientBalance Status = "INSUFFICIENT_BALANCE"
	StatusAlreadyRegistered   Status = "ALREADY_REGISTERED"
	StatusContestClosed       Status = "CONTEST_NOT_FOUND_OR_CLOSED"
	StatusWalletNotFound      Status = "WALLET_NOT_FOUND"
	StatusError               Status = "ERROR"
)

// Outcome is what the gate hands back to callers. It is a value, never an
// error: entry attempts must not crash a purchase flow.
type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Accepted reports whether the outcome leaves the user registered, counting
// ALREADY_REGISTERED as success so retries and double-taps are safe.
func (o Outcome) Accepted() bool {
	return o.Status == StatusSuccess || o.Status == StatusAlreadyRegistered
}
