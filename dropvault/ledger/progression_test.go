package ledger

import (
	"errors"
	"testing"
)

func TestAwardXPLevelCarry(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	// 250 XP from level 1 crosses two thresholds and carries 50.
	if err := l.GrantXP(1, 250); err != nil {
		t.Fatalf("GrantXP() error = %v", err)
	}
	a, _ := l.Account(1)
	if a.Level != 3 || a.XP != 50 {
		t.Errorf("level/xp = %d/%d, want 3/50", a.Level, a.XP)
	}

	if err := l.GrantXP(1, 0); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("GrantXP(0) error = %v, want ErrInvalidAmount", err)
	}
}

func TestLevelRewardUnlocksOpenings(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	// Default snapshot unlocks 3 openings at level 5.
	if err := l.GrantXP(1, 4*XPPerLevel); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Account(1)
	if a.Level != 5 || a.MaxCaseOpenings != 3 {
		t.Errorf("level/openings = %d/%d, want 5/3", a.Level, a.MaxCaseOpenings)
	}

	// Passing through a level with no reward leaves the cap alone, and a
	// lower configured cap never downgrades.
	if err := l.SetLevelReward(LevelReward{Level: 6, MaxCaseOpenings: 2}); err != nil {
		t.Fatal(err)
	}
	if err := l.GrantXP(1, XPPerLevel); err != nil {
		t.Fatal(err)
	}
	a, _ = l.Account(1)
	if a.MaxCaseOpenings != 3 {
		t.Errorf("openings after downgrade attempt = %d, want 3", a.MaxCaseOpenings)
	}
}

func TestEarningsMilestones(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	// One credit crossing two milestones grants both XP steps.
	if _, err := l.AdjustBalance(1, 2*EarningsMilestone); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Account(1)
	if a.MilestonesReached != 2 {
		t.Errorf("MilestonesReached = %d, want 2", a.MilestonesReached)
	}
	if a.XP != 2*milestoneXPEarly {
		t.Errorf("XP = %d, want %d", a.XP, 2*milestoneXPEarly)
	}

	// Later milestones grant the smaller step. Push to 7 milestones total:
	// 5 early at 20 XP, 2 late at 5 XP = 110 XP, so one level-up with 10 left.
	if _, err := l.AdjustBalance(1, 5*EarningsMilestone); err != nil {
		t.Fatal(err)
	}
	a, _ = l.Account(1)
	if a.MilestonesReached != 7 {
		t.Errorf("MilestonesReached = %d, want 7", a.MilestonesReached)
	}
	if a.Level != 2 || a.XP != 10 {
		t.Errorf("level/xp = %d/%d, want 2/10", a.Level, a.XP)
	}
}

func TestEarningsMilestonePartialProgress(t *testing.T) {
	l := newTestLedger(t, nil)
	mustAccount(t, l, 1, "alice")

	if _, err := l.AdjustBalance(1, EarningsMilestone-1); err != nil {
		t.Fatal(err)
	}
	a, _ := l.Account(1)
	if a.MilestonesReached != 0 || a.XP != 0 {
		t.Errorf("premature milestone: reached=%d xp=%d", a.MilestonesReached, a.XP)
	}

	if _, err := l.AdjustBalance(1, 1); err != nil {
		t.Fatal(err)
	}
	a, _ = l.Account(1)
	if a.MilestonesReached != 1 || a.XP != milestoneXPEarly {
		t.Errorf("milestone not granted at exact threshold: reached=%d xp=%d", a.MilestonesReached, a.XP)
	}
}

func TestLevelRewardCRUD(t *testing.T) {
	l := newTestLedger(t, nil)

	if err := l.SetLevelReward(LevelReward{Level: 0, MaxCaseOpenings: 1}); !errors.Is(err, ErrValidation) {
		t.Errorf("invalid level error = %v, want ErrValidation", err)
	}
	if err := l.SetLevelReward(LevelReward{Level: 3, MaxCaseOpenings: 2}); err != nil {
		t.Fatal(err)
	}

	rewards := l.LevelRewards()
	if len(rewards) != 3 {
		t.Fatalf("LevelRewards() = %d entries, want 3", len(rewards))
	}
	if rewards[0].Level != 3 {
		t.Errorf("rewards not ordered by level: %+v", rewards)
	}

	if err := l.DeleteLevelReward(3); err != nil {
		t.Fatal(err)
	}
	if err := l.DeleteLevelReward(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete error = %v, want ErrNotFound", err)
	}
}
