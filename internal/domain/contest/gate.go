package contest

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizarena/quizarena-api/internal/domain/wallet"
)

// Registrar is the single atomic entry procedure on the remote ledger store.
// Balance check, debit, and participant insert happen together inside it;
// the gate never composes those steps from separate calls.
type Registrar interface {
	RegisterForContest(ctx context.Context, userID uuid.UUID, contestID string, entryFee float64) (string, error)
}

// Gate maps the registrar's discrete result codes into user-facing outcomes.
// It holds no state of its own; the contest lifecycle lives inside the store.
type Gate struct {
	registrar Registrar
}

func NewGate(registrar Registrar) *Gate {
	return &Gate{registrar: registrar}
}

// Enter spends from the wallet to join a contest. Total: every failure mode
// collapses into an Outcome. The wallet is debited server-side on SUCCESS;
// no balance is ever touched locally.
func (g *Gate) Enter(ctx context.Context, userID uuid.UUID, contestID string, entryFee float64) Outcome {
	if entryFee <= 0 || contestID == "" {
		return Outcome{Status: StatusError, Message: "invalid entry request"}
	}

	code, err := g.registrar.RegisterForContest(ctx, userID, contestID, entryFee)
	if err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("contest_id", contestID).
			Msg("contest registration call failed")
		return Outcome{Status: StatusError, Message: "entry failed, please retry"}
	}

	switch code {
	case wallet.RegistrationSuccess:
		return Outcome{Status: StatusSuccess, Message: "entry confirmed"}
	case wallet.RegistrationInsufficientBalance:
		return Outcome{Status: StatusInsufficientBalance, Message: "insufficient balance, please top up"}
	case wallet.RegistrationAlreadyRegistered:
		// Success-equivalent: the earlier attempt already debited and
		// registered, so a retry must not read as a failure.
		return Outcome{Status: StatusAlreadyRegistered, Message: "already registered for this contest"}
	case wallet.RegistrationContestClosed:
		return Outcome{Status: StatusContestClosed, Message: "contest is unavailable"}
	case wallet.RegistrationWalletNotFound:
		return Outcome{Status: StatusWalletNotFound, Message: "wallet not found, contact support"}
	default:
		log.Warn().
			Str("user_id", userID.String()).
			Str("contest_id", contestID).
			Str("code", code).
			Msg("unrecognized registration code")
		return Outcome{Status: StatusError, Message: "entry failed, please retry"}
	}
}
