package ledger

import (
	"errors"
	"testing"
	"time"
)

var testClock = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, draws DrawSource) *Ledger {
	t.Helper()
	if draws == nil {
		draws = FixedDraws(0)
	}
	l := New(
		WithDrawSource(draws),
		WithClock(func() time.Time { return testClock }),
	)
	l.Restore(DefaultSnapshot())
	return l
}

func mustAccount(t *testing.T, l *Ledger, id int64, name string) *Account {
	t.Helper()
	a, err := l.CreateAccount(id, name)
	if err != nil {
		t.Fatalf("CreateAccount(%d) error = %v", id, err)
	}
	return a
}

func TestCreateAccount(t *testing.T) {
	l := newTestLedger(t, nil)

	a := mustAccount(t, l, 1, "alice")
	if a.Balance != SeedBalance {
		t.Errorf("Balance = %d, want %d", a.Balance, SeedBalance)
	}
	if a.Level != 1 || a.MaxCaseOpenings != DefaultMaxCaseOpenings {
		t.Errorf("Level = %d, MaxCaseOpenings = %d, want 1 and %d", a.Level, a.MaxCaseOpenings, DefaultMaxCaseOpenings)
	}

	if _, err := l.CreateAccount(1, "alice again"); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("duplicate CreateAccount error = %v, want ErrAlreadyExists", err)
	}
}

func TestAccountReadIsCopy(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	a, err := l.Account(1)
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	a.Balance = 999999
	a.DisplayName = "mutated"

	b, _ := l.Account(1)
	if b.Balance != SeedBalance || b.DisplayName != "alice" {
		t.Errorf("ledger state leaked through read copy: %+v", b)
	}
}

func TestAdjustBalance(t *testing.T) {
	tests := []struct {
		name    string
		delta   int64
		want    int64
		wantErr error
	}{
		{name: "credit", delta: 500, want: 1500},
		{name: "debit", delta: -300, want: 700},
		{name: "zero", delta: 0, wantErr: ErrInvalidAmount},
		{name: "overdraft", delta: -1001, wantErr: ErrInsufficientFunds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLedger(t, nil)
			mustAccount(t, l, 1, "alice")

			got, err := l.AdjustBalance(1, tt.delta)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AdjustBalance() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && got != tt.want {
				t.Errorf("AdjustBalance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSetBalanceDoesNotCountAsEarnings(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	if err := l.SetBalance(1, 50000); err != nil {
		t.Fatalf("SetBalance() error = %v", err)
	}
	a, _ := l.Account(1)
	if a.Balance != 50000 {
		t.Errorf("Balance = %d, want 50000", a.Balance)
	}
	if a.LifetimeEarnings != 0 || a.MilestonesReached != 0 {
		t.Errorf("SetBalance affected earnings: earnings=%d milestones=%d", a.LifetimeEarnings, a.MilestonesReached)
	}
}

func TestBannedAccountRejected(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	if err := l.SetBanned(1, true); err != nil {
		t.Fatalf("SetBanned() error = %v", err)
	}

	if _, err := l.OpenCase(1, "starter", 1); !errors.Is(err, ErrValidation) {
		t.Errorf("OpenCase on banned account error = %v, want ErrValidation", err)
	}
	if _, err := l.SellAllItems(1); !errors.Is(err, ErrAccountBanned) {
		t.Errorf("SellAllItems on banned account error = %v, want ErrAccountBanned", err)
	}
}

func TestOpenSellRoundTrip(t *testing.T) {
	// Draw 0 forces the first item of the starter case (Blue Shard, value 40)
	// and the second draw of 99 stays above the variation gate.
	l := newTestLedger(t, FixedDraws(0, 99))
	mustAccount(t, l, 1, "alice")

	res, err := l.OpenCase(1, "starter", 1)
	if err != nil {
		t.Fatalf("OpenCase() error = %v", err)
	}
	if res.Cost != 100 || res.Balance != 900 {
		t.Fatalf("OpenCase() cost = %d balance = %d, want 100 and 900", res.Cost, res.Balance)
	}
	if len(res.Items) != 1 || res.Items[0].ItemID != "blue_shard" {
		t.Fatalf("OpenCase() items = %+v, want one blue_shard", res.Items)
	}

	price, err := l.SellItem(1, res.Items[0].InstanceID)
	if err != nil {
		t.Fatalf("SellItem() error = %v", err)
	}
	if price != 40 {
		t.Errorf("SellItem() = %d, want 40", price)
	}
	a, _ := l.Account(1)
	if a.Balance != 940 {
		t.Errorf("Balance = %d, want 940", a.Balance)
	}
	if len(a.Inventory) != 0 {
		t.Errorf("Inventory = %+v, want empty", a.Inventory)
	}
	if a.LifetimeEarnings != 40 {
		t.Errorf("LifetimeEarnings = %d, want 40", a.LifetimeEarnings)
	}
}

func TestOpenCaseInsufficientFunds(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	if err := l.SetBalance(1, 99); err != nil {
		t.Fatal(err)
	}

	if _, err := l.OpenCase(1, "starter", 1); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("OpenCase() error = %v, want ErrInsufficientFunds", err)
	}
	a, _ := l.Account(1)
	if a.Balance != 99 || len(a.Inventory) != 0 {
		t.Errorf("failed opening mutated state: %+v", a)
	}
}

func TestOpenCaseCountCappedByUnlock(t *testing.T) {
	l := newTestLedger(t, FixedDraws(0, 99))
	mustAccount(t, l, 1, "alice")

	res, err := l.OpenCase(1, "starter", 5)
	if err != nil {
		t.Fatalf("OpenCase() error = %v", err)
	}
	if len(res.Items) != DefaultMaxCaseOpenings {
		t.Errorf("opened %d items, want cap %d", len(res.Items), DefaultMaxCaseOpenings)
	}
}

func TestClaimDailyOncePerDay(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	if _, err := l.ClaimDaily(1, 100, time.UTC); err != nil {
		t.Fatalf("first ClaimDaily() error = %v", err)
	}
	if _, err := l.ClaimDaily(1, 100, time.UTC); !errors.Is(err, ErrDailyClaimed) {
		t.Errorf("second ClaimDaily() error = %v, want ErrDailyClaimed", err)
	}

	a, _ := l.Account(1)
	if a.Balance != SeedBalance+100 {
		t.Errorf("Balance = %d, want %d", a.Balance, SeedBalance+100)
	}
}

func TestGrantDailyToAllSkipsBannedAndRepeats(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	mustAccount(t, l, 3, "carol")
	if err := l.SetBanned(3, true); err != nil {
		t.Fatal(err)
	}

	granted, err := l.GrantDailyToAll(50, time.UTC)
	if err != nil {
		t.Fatalf("GrantDailyToAll() error = %v", err)
	}
	if granted != 2 {
		t.Errorf("granted = %d, want 2", granted)
	}

	granted, err = l.GrantDailyToAll(50, time.UTC)
	if err != nil || granted != 0 {
		t.Errorf("repeat GrantDailyToAll() = %d, %v, want 0 and nil", granted, err)
	}

	a, _ := l.Account(1)
	c, _ := l.Account(3)
	if a.Balance != SeedBalance+50 {
		t.Errorf("alice Balance = %d, want %d", a.Balance, SeedBalance+50)
	}
	if c.Balance != SeedBalance {
		t.Errorf("banned carol Balance = %d, want untouched %d", c.Balance, SeedBalance)
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	l := newTestLedger(t, FixedDraws(0, 99))
	mustAccount(t, l, 1, "alice")
	mustAccount(t, l, 2, "bob")
	if _, err := l.OpenCase(1, "starter", 1); err != nil {
		t.Fatal(err)
	}
	if _, err := l.CreatePromoCode("WELCOME", 250, 10); err != nil {
		t.Fatal(err)
	}

	snap := l.Snapshot()

	l2 := New(WithClock(func() time.Time { return testClock }))
	l2.Restore(snap)

	got := l2.Snapshot()
	if len(got.Accounts) != 2 || len(got.Cases) != 1 || len(got.PromoCodes) != 1 {
		t.Fatalf("restored snapshot shape = %d accounts %d cases %d promos", len(got.Accounts), len(got.Cases), len(got.PromoCodes))
	}
	a, err := l2.Account(1)
	if err != nil {
		t.Fatalf("Account(1) after restore: %v", err)
	}
	if a.Balance != 900 || len(a.Inventory) != 1 {
		t.Errorf("restored account = balance %d inventory %d, want 900 and 1", a.Balance, len(a.Inventory))
	}
}

func TestReplaceAllAccountsNormalizes(t *testing.T) {
	l := newTestLedger(t, nil)

	err := l.ReplaceAllAccounts([]Account{
		{ID: 7, DisplayName: "imported", Balance: 4200},
	})
	if err != nil {
		t.Fatalf("ReplaceAllAccounts() error = %v", err)
	}
	a, _ := l.Account(7)
	if a.Level != 1 || a.MaxCaseOpenings != DefaultMaxCaseOpenings || a.Inventory == nil {
		t.Errorf("imported account not normalized: %+v", a)
	}

	err = l.ReplaceAllAccounts([]Account{{ID: 1}, {ID: 1}})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("duplicate import error = %v, want ErrValidation", err)
	}
}

func TestDirtyAndWake(t *testing.T) {
	l := newTestLedger(t, nil)
	l.TakeDirty()

	mustAccount(t, l, 1, "alice")
	if !l.TakeDirty() {
		t.Error("mutation did not mark the ledger dirty")
	}
	select {
	case <-l.Wake():
	default:
		t.Error("mutation did not signal the wake channel")
	}

	if l.TakeDirty() {
		t.Error("TakeDirty did not clear the flag")
	}
}

func TestDrainEvents(t *testing.T) {
	l := newTestLedger(t, nil)
	l.DrainEvents()
	mustAccount(t, l, 1, "alice")
	if _, err := l.AdjustBalance(1, 100); err != nil {
		t.Fatal(err)
	}

	evs := l.DrainEvents()
	if len(evs) != 2 {
		t.Fatalf("DrainEvents() = %d events, want 2", len(evs))
	}
	if evs[0].Kind != "account_created" || evs[1].Kind != "balance_adjusted" {
		t.Errorf("event kinds = %s, %s", evs[0].Kind, evs[1].Kind)
	}
	if len(l.DrainEvents()) != 0 {
		t.Error("second DrainEvents() not empty")
	}
}

func TestMintItem(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	inst, err := l.MintItem(1, WonItem{ItemID: "gold_orb", Name: "Gold Orb", Rarity: "gold", Value: 2000})
	if err != nil {
		t.Fatalf("MintItem() error = %v", err)
	}
	if inst.InstanceID == "" {
		t.Error("minted instance has no ID")
	}

	a, _ := l.Account(1)
	if len(a.Inventory) != 1 || a.Inventory[0].Name != "Gold Orb" {
		t.Errorf("Inventory = %+v, want one Gold Orb", a.Inventory)
	}

	if _, err := l.MintItem(1, WonItem{Name: "", Rarity: "gold", Value: 1}); !errors.Is(err, ErrValidation) {
		t.Errorf("blank name error = %v, want ErrValidation", err)
	}
	if _, err := l.MintItem(1, WonItem{Name: "x", Rarity: "blue", Value: -1}); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative value error = %v, want ErrInvalidAmount", err)
	}
	if _, err := l.MintItem(99, WonItem{Name: "x", Rarity: "blue", Value: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}
}

func TestResetAccount(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	if _, err := l.MintItem(1, WonItem{Name: "Gold Orb", Rarity: "gold", Value: 2000}); err != nil {
		t.Fatalf("MintItem() error = %v", err)
	}
	if _, err := l.AdjustBalance(1, 25000); err != nil {
		t.Fatalf("AdjustBalance() error = %v", err)
	}
	if err := l.SetBanned(1, true); err != nil {
		t.Fatalf("SetBanned() error = %v", err)
	}

	if err := l.ResetAccount(1); err != nil {
		t.Fatalf("ResetAccount() error = %v", err)
	}
	a, _ := l.Account(1)
	if a.Balance != SeedBalance || len(a.Inventory) != 0 || a.Banned {
		t.Errorf("after reset: balance %d, inventory %d, banned %v", a.Balance, len(a.Inventory), a.Banned)
	}
	if a.Level != 1 || a.XP != 0 || a.MilestonesReached != 0 || a.LifetimeEarnings != 0 {
		t.Errorf("progression not cleared: %+v", a)
	}

	// Idempotent.
	if err := l.ResetAccount(1); err != nil {
		t.Errorf("second ResetAccount() error = %v", err)
	}
	if err := l.ResetAccount(99); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown account error = %v, want ErrNotFound", err)
	}
}
