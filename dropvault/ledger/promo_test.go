package ledger

import (
	"errors"
	"testing"
)

func TestCreatePromoCodeValidation(t *testing.T) {
	l := newTestLedger(t, nil)

	tests := []struct {
		name    string
		code    string
		amount  int64
		max     int
		wantErr error
	}{
		{name: "ok", code: "WELCOME", amount: 100, max: 5},
		{name: "blank code", code: "  ", amount: 100, max: 5, wantErr: ErrValidation},
		{name: "zero amount", code: "ZERO", amount: 0, max: 5, wantErr: ErrInvalidAmount},
		{name: "negative cap", code: "NEG", amount: 100, max: -1, wantErr: ErrInvalidAmount},
		{name: "duplicate differs only by casing", code: "welcome", amount: 100, max: 5, wantErr: ErrAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreatePromoCode(tt.code, tt.amount, tt.max)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreatePromoCode(%q) error = %v, want %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestRedeemPromoExactlyOncePerAccount(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	if _, err := l.CreatePromoCode("BONUS", 250, 0); err != nil {
		t.Fatal(err)
	}

	bal, err := l.RedeemPromo(1, "bonus")
	if err != nil {
		t.Fatalf("RedeemPromo() error = %v", err)
	}
	if bal != SeedBalance+250 {
		t.Errorf("balance = %d, want %d", bal, SeedBalance+250)
	}

	// Same account, any casing, never twice.
	if _, err := l.RedeemPromo(1, "BONUS"); !errors.Is(err, ErrAlreadyRedeemed) {
		t.Errorf("second redeem error = %v, want ErrAlreadyRedeemed", err)
	}
	a, _ := l.Account(1)
	if a.Balance != SeedBalance+250 {
		t.Errorf("balance after rejected redeem = %d, want unchanged", a.Balance)
	}
}

func TestRedeemPromoUsageCap(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	mustAccount(t, l, 3, "carol")
	if _, err := l.CreatePromoCode("LIMITED", 100, 2); err != nil {
		t.Fatal(err)
	}

	if _, err := l.RedeemPromo(1, "LIMITED"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.RedeemPromo(2, "LIMITED"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.RedeemPromo(3, "LIMITED"); !errors.Is(err, ErrRedemptionsExhausted) {
		t.Errorf("over-cap redeem error = %v, want ErrRedemptionsExhausted", err)
	}

	c, _ := l.Account(3)
	if c.Balance != SeedBalance {
		t.Errorf("rejected redeemer balance = %d, want untouched", c.Balance)
	}
}

func TestRedeemPromoErrors(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	if _, err := l.CreatePromoCode("PAUSED", 100, 0); err != nil {
		t.Fatal(err)
	}
	if err := l.SetPromoActive("PAUSED", false); err != nil {
		t.Fatal(err)
	}

	if _, err := l.RedeemPromo(1, "NOPE"); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("unknown code error = %v, want ErrCodeNotFound", err)
	}
	if _, err := l.RedeemPromo(1, "PAUSED"); !errors.Is(err, ErrCodeInactive) {
		t.Errorf("inactive code error = %v, want ErrCodeInactive", err)
	}
	if _, err := l.RedeemPromo(99, "PAUSED"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}
}

func TestDeletePromoCode(t *testing.T) {
	l := newTestLedger(t, nil)
	if _, err := l.CreatePromoCode("GONE", 100, 0); err != nil {
		t.Fatal(err)
	}
	if err := l.DeletePromoCode("gone"); err != nil {
		t.Fatalf("DeletePromoCode() error = %v", err)
	}
	if err := l.DeletePromoCode("gone"); !errors.Is(err, ErrCodeNotFound) {
		t.Errorf("double delete error = %v, want ErrCodeNotFound", err)
	}
	if n := len(l.PromoCodes()); n != 0 {
		t.Errorf("PromoCodes() = %d, want 0", n)
	}
}
