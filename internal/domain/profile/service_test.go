package profile_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quizarena/quizarena-api/internal/domain/profile"
	"github.com/quizarena/quizarena-api/internal/domain/user"
	"github.com/quizarena/quizarena-api/internal/domain/wallet"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

// downStore fails every remote call: the profile must still render.
type downStore struct{}

func (downStore) SyncBalance(context.Context, uuid.UUID) error { return errors.New("down") }
func (downStore) GetRow(context.Context, uuid.UUID) (*wallet.Row, error) {
	return nil, errors.New("down")
}
func (downStore) GetRowAlternate(context.Context, uuid.UUID) (*wallet.Row, error) {
	return nil, errors.New("down")
}
func (downStore) CreateRow(context.Context, uuid.UUID) (*wallet.Row, error) {
	return nil, errors.New("down")
}
func (downStore) Deposit(context.Context, uuid.UUID, float64, string, string) (string, error) {
	return "", errors.New("down")
}
func (downStore) Withdraw(context.Context, uuid.UUID, float64, string, string) (string, error) {
	return "", errors.New("down")
}
func (downStore) RegisterForContest(context.Context, uuid.UUID, string, float64) (string, error) {
	return "", errors.New("down")
}
func (downStore) ListTransactions(context.Context, uuid.UUID, int, int) ([]wallet.Transaction, error) {
	return nil, errors.New("down")
}
func (downStore) ListTaxCreditLogs(context.Context, uuid.UUID) ([]wallet.TaxCreditLog, error) {
	return nil, errors.New("down")
}

func TestProfileRendersWithDegradedWallet(t *testing.T) {
	userID := uuid.New()
	repo := &fakeUserRepo{users: map[uuid.UUID]*user.User{
		userID: {
			ID:          userID,
			Email:       "player@example.com",
			Username:    "player1",
			DisplayName: sql.NullString{String: "Player One", Valid: true},
			CreatedAt:   time.Now(),
		},
	}}
	walletSvc := wallet.NewService(downStore{}, wallet.NewCache(nil, time.Hour))
	svc := profile.NewService(repo, walletSvc)

	view, err := svc.Get(context.Background(), userID)
	if err != nil {
		t.Fatalf("profile must not fail on wallet outage: %v", err)
	}
	if view.Name != "Player One" {
		t.Fatalf("expected display name, got %q", view.Name)
	}
	if !view.Wallet.Degraded || view.Wallet.Balance != 0 {
		t.Fatalf("expected degraded zero wallet, got %+v", view.Wallet)
	}
}

func TestProfileUnknownUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	walletSvc := wallet.NewService(downStore{}, wallet.NewCache(nil, time.Hour))
	svc := profile.NewService(repo, walletSvc)

	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, user.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
