package ledger

// creditEarned adds gameplay income: the balance goes up and the amount
// counts toward lifetime earnings, which may cross milestones and grant XP.
// Corrections (SetBalance, bulk import) bypass this on purpose.
func (l *Ledger) creditEarned(a *Account, amount int64) {
	a.Balance += amount
	a.LifetimeEarnings += amount

	crossed := int(a.LifetimeEarnings / EarningsMilestone)
	for a.MilestonesReached < crossed {
		a.MilestonesReached++
		xp := milestoneXPLate
		if a.MilestonesReached <= earlyMilestones {
			xp = milestoneXPEarly
		}
		l.awardXP(a, xp)
	}
}

// awardXP adds XP and resolves any level transitions. XP stays strictly
// below the per-level threshold; the surplus carries into the next level.
// Each level reached applies its configured reward.
func (l *Ledger) awardXP(a *Account, xp int) {
	if xp <= 0 {
		return
	}
	a.XP += xp
	for a.XP >= XPPerLevel {
		a.XP -= XPPerLevel
		a.Level++
		l.applyLevelReward(a, a.Level)
	}
}

// applyLevelReward unlocks the capabilities configured for the level.
// Rewards never downgrade: a lower configured cap is ignored.
func (l *Ledger) applyLevelReward(a *Account, level int) {
	r, ok := l.levelRewards[level]
	if !ok {
		return
	}
	if r.MaxCaseOpenings > a.MaxCaseOpenings {
		a.MaxCaseOpenings = r.MaxCaseOpenings
	}
}

// GrantXP is the admin entry point for XP adjustments.
func (l *Ledger) GrantXP(id int64, xp int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	if xp <= 0 {
		return ErrInvalidAmount
	}
	l.awardXP(a, xp)
	l.touch(&AuditEvent{Kind: "xp_granted", AccountID: id, Amount: int64(xp)}, id)
	return nil
}

// SetLevelReward installs or replaces the reward for a level.
func (l *Ledger) SetLevelReward(r LevelReward) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if r.Level < 1 || r.MaxCaseOpenings < 1 {
		return ErrValidation
	}
	l.levelRewards[r.Level] = r
	l.touch(nil)
	return nil
}

// DeleteLevelReward removes the reward for a level. Accounts that already
// unlocked it keep what they have.
func (l *Ledger) DeleteLevelReward(level int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.levelRewards[level]; !ok {
		return ErrNotFound
	}
	delete(l.levelRewards, level)
	l.touch(nil)
	return nil
}

// LevelRewards lists configured rewards ordered by level.
func (l *Ledger) LevelRewards() []LevelReward {
	return l.Snapshot().LevelRewards
}
