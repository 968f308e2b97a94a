package profile

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/quizarena/quizarena-api/internal/domain/user"
	"github.com/quizarena/quizarena-api/internal/domain/wallet"
)

// View composes the profile screen's data: who the user is plus the wallet
// they spend from.
type View struct {
	ID        uuid.UUID     `json:"id"`
	Email     string        `json:"email"`
	Username  string        `json:"username"`
	Name      string        `json:"name"`
	AvatarURL string        `json:"avatar_url,omitempty"`
	Wallet    wallet.Wallet `json:"wallet"`
}

// Service aggregates user and wallet data for display. Not part of the
// financial core; it only reads.
type Service struct {
	users   user.Repository
	wallets *wallet.Service
}

func NewService(users user.Repository, wallets *wallet.Service) *Service {
	return &Service{users: users, wallets: wallets}
}

// Get assembles the profile view. The wallet side never fails; a missing
// user row is the only error.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	w := s.wallets.GetWallet(ctx, userID)
	if w.Degraded {
		log.Warn().Str("user_id", userID.String()).Msg("profile rendered with degraded wallet")
	}

	view := &View{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Name:     u.Name(),
		Wallet:   w,
	}
	if u.AvatarURL.Valid {
		view.AvatarURL = u.AvatarURL.String
	}
	return view, nil
}
