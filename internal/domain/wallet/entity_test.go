package wallet

import (
	"database/sql"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestNormalizeRowDerivesSplit(t *testing.T) {
	row := &Row{ID: uuid.New(), UserID: uuid.New(), Balance: "250.00"}

	w := normalizeRow(row)

	if w.Balance != 250 {
		t.Fatalf("expected parsed balance 250, got %f", w.Balance)
	}
	if math.Abs(w.ActualBalance-180) >= BalanceEpsilon {
		t.Fatalf("expected actual 180, got %f", w.ActualBalance)
	}
	if math.Abs(w.TaxCreditBalance-70) >= BalanceEpsilon {
		t.Fatalf("expected credit 70, got %f", w.TaxCreditBalance)
	}
	if math.Abs(w.ActualBalance+w.TaxCreditBalance-w.Balance) >= BalanceEpsilon {
		t.Fatal("derived split must reconcile with balance")
	}
}

func TestNormalizeRowHonorsExplicitSplit(t *testing.T) {
	row := &Row{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		Balance:          "1000",
		ActualBalance:    sql.NullFloat64{Float64: 600, Valid: true},
		TaxCreditBalance: sql.NullFloat64{Float64: 400, Valid: true},
	}

	w := normalizeRow(row)

	if w.ActualBalance != 600 || w.TaxCreditBalance != 400 {
		t.Fatalf("explicit sub-balances must pass through, got %f/%f", w.ActualBalance, w.TaxCreditBalance)
	}
}

func TestNormalizeRowPartialSplitFallsBackToDerivation(t *testing.T) {
	// only one sub-balance present: treat the split as absent
	row := &Row{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Balance:       "100",
		ActualBalance: sql.NullFloat64{Float64: 90, Valid: true},
	}

	w := normalizeRow(row)

	if math.Abs(w.ActualBalance-72) >= BalanceEpsilon {
		t.Fatalf("partial split must be re-derived, got actual %f", w.ActualBalance)
	}
}

func TestNormalizeRowUnparsableBalance(t *testing.T) {
	row := &Row{ID: uuid.New(), UserID: uuid.New(), Balance: "not-a-number"}

	w := normalizeRow(row)

	if w.Balance != 0 || w.ActualBalance != 0 || w.TaxCreditBalance != 0 {
		t.Fatalf("unparsable balance must zero the wallet, got %+v", w)
	}
}

func TestZeroWalletKeyedByUser(t *testing.T) {
	userID := uuid.New()

	w := zeroWallet(userID)

	if w.ID != userID || w.UserID != userID {
		t.Fatal("synthetic wallet must use the user id as wallet id")
	}
	if !w.Degraded {
		t.Fatal("synthetic wallet must be marked degraded")
	}
}

func TestWithdrawalFeeConstant(t *testing.T) {
	if WithdrawalProcessingFee != 120 {
		t.Fatalf("processing fee must be %d*%d, got %d", HourlyProcessingFee, ProcessingHours, WithdrawalProcessingFee)
	}
}
