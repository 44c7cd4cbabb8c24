package ledger

import (
	"fmt"
	"sort"
)

// ProposeTrade records a pending bilateral exchange. Ownership and coverage
// are checked now for early feedback and re-checked at acceptance, since
// anything can change in between.
func (l *Ledger) ProposeTrade(fromID, toID int64, offeredItems, requestedItems []string, offeredCoins, requestedCoins int64) (*TradeOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fromID == toID {
		return nil, ErrSelfTarget
	}
	from, err := l.account(fromID)
	if err != nil {
		return nil, err
	}
	to, err := l.account(toID)
	if err != nil {
		return nil, err
	}
	if from.Banned || to.Banned {
		return nil, ErrAccountBanned
	}
	if offeredCoins < 0 || requestedCoins < 0 {
		return nil, ErrInvalidAmount
	}
	if offeredCoins == 0 && requestedCoins == 0 && len(offeredItems) == 0 && len(requestedItems) == 0 {
		return nil, fmt.Errorf("empty trade: %w", ErrValidation)
	}
	if err := checkTradeSide(from, offeredItems, offeredCoins); err != nil {
		return nil, err
	}
	if err := checkTradeSide(to, requestedItems, requestedCoins); err != nil {
		return nil, err
	}

	t := &TradeOffer{
		ID:               l.ids.Next("trd"),
		FromID:           fromID,
		ToID:             toID,
		OfferedItemIDs:   append([]string(nil), offeredItems...),
		RequestedItemIDs: append([]string(nil), requestedItems...),
		OfferedCoins:     offeredCoins,
		RequestedCoins:   requestedCoins,
		Status:           StatusPending,
		CreatedAt:        l.now(),
	}
	l.trades[t.ID] = t
	l.touch(&AuditEvent{Kind: "trade_proposed", AccountID: fromID, OtherID: toID, Ref: t.ID})
	return t.clone(), nil
}

// AcceptTrade settles a pending offer. Only the recipient may accept. Every
// precondition is re-validated against current state; if any item moved or
// either balance no longer covers its side, the settlement returns
// ErrStaleOffer and nothing changes, the offer included.
func (l *Ledger) AcceptTrade(tradeID string, accepterID int64) (*TradeOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trades[tradeID]
	if !ok {
		return nil, ErrNotFound
	}
	if t.Status != StatusPending {
		return nil, ErrNotPending
	}
	if t.ToID != accepterID {
		return nil, ErrNotAuthorized
	}
	from, err := l.account(t.FromID)
	if err != nil {
		return nil, err
	}
	to, err := l.account(t.ToID)
	if err != nil {
		return nil, err
	}
	if from.Banned || to.Banned {
		return nil, ErrAccountBanned
	}
	if checkTradeSide(from, t.OfferedItemIDs, t.OfferedCoins) != nil ||
		checkTradeSide(to, t.RequestedItemIDs, t.RequestedCoins) != nil {
		return nil, ErrStaleOffer
	}

	moveItems(from, to, t.OfferedItemIDs)
	moveItems(to, from, t.RequestedItemIDs)
	if t.OfferedCoins > 0 {
		from.Balance -= t.OfferedCoins
		l.creditEarned(to, t.OfferedCoins)
	}
	if t.RequestedCoins > 0 {
		to.Balance -= t.RequestedCoins
		l.creditEarned(from, t.RequestedCoins)
	}
	t.Status = StatusCompleted
	l.touch(&AuditEvent{Kind: "trade_completed", AccountID: t.FromID, OtherID: t.ToID, Ref: t.ID}, t.FromID, t.ToID)
	return t.clone(), nil
}

// CancelTrade withdraws or declines a pending offer. Either party may do it.
func (l *Ledger) CancelTrade(tradeID string, callerID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.trades[tradeID]
	if !ok {
		return ErrNotFound
	}
	if t.Status != StatusPending {
		return ErrNotPending
	}
	if callerID != t.FromID && callerID != t.ToID {
		return ErrNotAuthorized
	}
	t.Status = StatusCancelled
	l.touch(&AuditEvent{Kind: "trade_cancelled", AccountID: callerID, Ref: t.ID})
	return nil
}

// Trade returns one offer by ID.
func (l *Ledger) Trade(tradeID string) (*TradeOffer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	t, ok := l.trades[tradeID]
	if !ok {
		return nil, ErrNotFound
	}
	return t.clone(), nil
}

// PendingTradesFor lists pending offers where the account is on either side,
// oldest first.
func (l *Ledger) PendingTradesFor(id int64) []TradeOffer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []TradeOffer
	for _, t := range l.trades {
		if t.Status != StatusPending {
			continue
		}
		if t.FromID == id || t.ToID == id {
			out = append(out, *t.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func checkTradeSide(a *Account, itemIDs []string, coins int64) error {
	if a.Balance < coins {
		return ErrInsufficientFunds
	}
	for _, iid := range itemIDs {
		if findInstance(a.Inventory, iid) < 0 {
			return ErrItemNotFound
		}
	}
	return nil
}

// moveItems transfers the named instances. Callers validated ownership under
// the same lock, so every lookup hits.
func moveItems(from, to *Account, itemIDs []string) {
	for _, iid := range itemIDs {
		idx := findInstance(from.Inventory, iid)
		if idx < 0 {
			continue
		}
		it := from.Inventory[idx]
		from.Inventory = append(from.Inventory[:idx], from.Inventory[idx+1:]...)
		to.Inventory = append(to.Inventory, it)
	}
}
