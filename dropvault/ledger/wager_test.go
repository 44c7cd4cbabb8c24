package ledger

import (
	"errors"
	"reflect"
	"testing"
)

func TestProposeWagerValidation(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")

	tests := []struct {
		name       string
		challenger int64
		opponent   int64
		stake      int64
		wantErr    error
	}{
		{name: "self wager", challenger: 1, opponent: 1, stake: 100, wantErr: ErrSelfTarget},
		{name: "unknown opponent", challenger: 1, opponent: 99, stake: 100, wantErr: ErrNotFound},
		{name: "zero stake", challenger: 1, opponent: 2, stake: 0, wantErr: ErrInvalidAmount},
		{name: "stake over balance", challenger: 1, opponent: 2, stake: SeedBalance + 1, wantErr: ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.ProposeWager(tt.challenger, tt.opponent, tt.stake)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ProposeWager() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAcceptWagerZeroSum(t *testing.T) {
	tests := []struct {
		name           string
		draw           float64
		wantWinner     int64
		wantChallenger int64
		wantOpponent   int64
	}{
		{name: "low draw wins for challenger", draw: 0, wantWinner: 1, wantChallenger: 700, wantOpponent: 300},
		{name: "boundary draw wins for opponent", draw: 50, wantWinner: 2, wantChallenger: 300, wantOpponent: 700},
		{name: "high draw wins for opponent", draw: 99, wantWinner: 2, wantChallenger: 300, wantOpponent: 700},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, FixedDraws(tt.draw))
			mustAccount(t, l, 1, "alice")
			mustAccount(t, l, 2, "bob")
			if err := l.SetBalance(1, 500); err != nil {
				t.Fatal(err)
			}
			if err := l.SetBalance(2, 500); err != nil {
				t.Fatal(err)
			}

			w, err := l.ProposeWager(1, 2, 200)
			if err != nil {
				t.Fatalf("ProposeWager() error = %v", err)
			}
			done, err := l.AcceptWager(w.ID, 2)
			if err != nil {
				t.Fatalf("AcceptWager() error = %v", err)
			}
			if done.Status != StatusCompleted || done.WinnerID != tt.wantWinner {
				t.Errorf("settled = status %s winner %d, want completed and %d", done.Status, done.WinnerID, tt.wantWinner)
			}

			alice, _ := l.Account(1)
			bob, _ := l.Account(2)
			if alice.Balance != tt.wantChallenger || bob.Balance != tt.wantOpponent {
				t.Errorf("balances = %d/%d, want %d/%d", alice.Balance, bob.Balance, tt.wantChallenger, tt.wantOpponent)
			}
			if alice.Balance+bob.Balance != 1000 {
				t.Errorf("settlement is not zero-sum: %d + %d", alice.Balance, bob.Balance)
			}
		})
	}
}

func TestAcceptWagerAuthorization(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	mustAccount(t, l, 3, "carol")

	w, err := l.ProposeWager(1, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AcceptWager(w.ID, 1); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("challenger accept error = %v, want ErrNotAuthorized", err)
	}
	if _, err := l.AcceptWager(w.ID, 3); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("third-party accept error = %v, want ErrNotAuthorized", err)
	}
}

func TestAcceptStaleWagerLeavesStateUntouched(t *testing.T) {
	l := newTestLedger(t, FixedDraws(0))
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")

	w, err := l.ProposeWager(1, 2, 800)
	if err != nil {
		t.Fatal(err)
	}
	// The challenger spends down below the stake before acceptance.
	if err := l.SetBalance(1, 100); err != nil {
		t.Fatal(err)
	}

	before := l.Snapshot()
	if _, err := l.AcceptWager(w.ID, 2); !errors.Is(err, ErrStaleOffer) {
		t.Fatalf("AcceptWager() error = %v, want ErrStaleOffer", err)
	}
	if after := l.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Error("stale acceptance mutated state")
	}

	got, _ := l.Wager(w.ID)
	if got.Status != StatusPending {
		t.Errorf("Status = %s, want still pending", got.Status)
	}
}

func TestCancelWager(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")

	w, err := l.ProposeWager(1, 2, 100)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.CancelWager(w.ID, 1); err != nil {
		t.Fatalf("challenger cancel error = %v", err)
	}
	if _, err := l.AcceptWager(w.ID, 2); !errors.Is(err, ErrNotPending) {
		t.Errorf("accept after cancel error = %v, want ErrNotPending", err)
	}

	alice, _ := l.Account(1)
	bob, _ := l.Account(2)
	if alice.Balance != SeedBalance || bob.Balance != SeedBalance {
		t.Errorf("cancel moved coins: %d/%d", alice.Balance, bob.Balance)
	}
}

func TestPendingWagersFor(t *testing.T) {
	l := newTestLedger(t, FixedDraws(0)) // challenger wins on settlement
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	mustAccount(t, l, 3, "carol")

	w1, _ := l.ProposeWager(1, 2, 50)
	w2, _ := l.ProposeWager(3, 1, 60)
	if _, err := l.AcceptWager(w2.ID, 1); err != nil {
		t.Fatal(err)
	}

	got := l.PendingWagersFor(1)
	if len(got) != 1 || got[0].ID != w1.ID {
		t.Errorf("PendingWagersFor(1) = %+v, want only %s", got, w1.ID)
	}
}
