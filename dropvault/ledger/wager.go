package ledger

import "sort"

// ProposeWager records a pending coin bet between two accounts. Coverage is
// checked now and again at acceptance; coins are not escrowed while pending.
func (l *Ledger) ProposeWager(challengerID, opponentID, stake int64) (*Wager, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if challengerID == opponentID {
		return nil, ErrSelfTarget
	}
	ch, err := l.account(challengerID)
	if err != nil {
		return nil, err
	}
	op, err := l.account(opponentID)
	if err != nil {
		return nil, err
	}
	if ch.Banned || op.Banned {
		return nil, ErrAccountBanned
	}
	if stake <= 0 {
		return nil, ErrInvalidAmount
	}
	if ch.Balance < stake || op.Balance < stake {
		return nil, ErrInsufficientFunds
	}

	w := &Wager{
		ID:           l.ids.Next("wgr"),
		ChallengerID: challengerID,
		OpponentID:   opponentID,
		Stake:        stake,
		Status:       StatusPending,
		CreatedAt:    l.now(),
	}
	l.wagers[w.ID] = w
	l.touch(&AuditEvent{Kind: "wager_proposed", AccountID: challengerID, OtherID: opponentID, Amount: stake, Ref: w.ID})
	return cloneWager(w), nil
}

// AcceptWager settles a pending bet with one fair draw. Only the opponent may
// accept. If either side no longer covers the stake the settlement returns
// ErrStaleOffer and nothing changes. The stake moves from loser to winner in
// the same mutation that marks the wager completed.
func (l *Ledger) AcceptWager(wagerID string, accepterID int64) (*Wager, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wagers[wagerID]
	if !ok {
		return nil, ErrNotFound
	}
	if w.Status != StatusPending {
		return nil, ErrNotPending
	}
	if w.OpponentID != accepterID {
		return nil, ErrNotAuthorized
	}
	ch, err := l.account(w.ChallengerID)
	if err != nil {
		return nil, err
	}
	op, err := l.account(w.OpponentID)
	if err != nil {
		return nil, err
	}
	if ch.Banned || op.Banned {
		return nil, ErrAccountBanned
	}
	if ch.Balance < w.Stake || op.Balance < w.Stake {
		return nil, ErrStaleOffer
	}

	winner, loser := ch, op
	if l.draws() >= 50 {
		winner, loser = op, ch
	}
	loser.Balance -= w.Stake
	l.creditEarned(winner, w.Stake)
	w.Status = StatusCompleted
	w.WinnerID = winner.ID
	l.touch(&AuditEvent{Kind: "wager_settled", AccountID: winner.ID, OtherID: loser.ID, Amount: w.Stake, Ref: w.ID}, ch.ID, op.ID)
	return cloneWager(w), nil
}

// CancelWager withdraws or declines a pending bet. Either party may do it.
func (l *Ledger) CancelWager(wagerID string, callerID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.wagers[wagerID]
	if !ok {
		return ErrNotFound
	}
	if w.Status != StatusPending {
		return ErrNotPending
	}
	if callerID != w.ChallengerID && callerID != w.OpponentID {
		return ErrNotAuthorized
	}
	w.Status = StatusCancelled
	l.touch(&AuditEvent{Kind: "wager_cancelled", AccountID: callerID, Ref: w.ID})
	return nil
}

// Wager returns one bet by ID.
func (l *Ledger) Wager(wagerID string) (*Wager, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	w, ok := l.wagers[wagerID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneWager(w), nil
}

// PendingWagersFor lists pending bets where the account is on either side,
// oldest first.
func (l *Ledger) PendingWagersFor(id int64) []Wager {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []Wager
	for _, w := range l.wagers {
		if w.Status != StatusPending {
			continue
		}
		if w.ChallengerID == id || w.OpponentID == id {
			out = append(out, *w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func cloneWager(w *Wager) *Wager {
	c := *w
	return &c
}
