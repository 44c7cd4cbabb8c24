package ledger

import (
	"fmt"
	"strings"
	"time"
)

// CreateAccount registers a new account with the seed balance.
func (l *Ledger) CreateAccount(id int64, displayName string) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.accounts[id]; ok {
		return nil, ErrAlreadyExists
	}
	a := &Account{
		ID:              id,
		DisplayName:     displayName,
		Balance:         SeedBalance,
		Inventory:       []ItemInstance{},
		Level:           1,
		MaxCaseOpenings: DefaultMaxCaseOpenings,
		CreatedAt:       l.now(),
	}
	l.accounts[id] = a
	l.touch(&AuditEvent{Kind: "account_created", AccountID: id, Amount: SeedBalance}, id)
	return a.clone(), nil
}

// EnsureAccount returns the account, creating it on first contact. A changed
// display name is folded in along the way.
func (l *Ledger) EnsureAccount(id int64, displayName string) (*Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.accounts[id]
	if !ok {
		a = &Account{
			ID:              id,
			DisplayName:     displayName,
			Balance:         SeedBalance,
			Inventory:       []ItemInstance{},
			Level:           1,
			MaxCaseOpenings: DefaultMaxCaseOpenings,
			CreatedAt:       l.now(),
		}
		l.accounts[id] = a
		l.touch(&AuditEvent{Kind: "account_created", AccountID: id, Amount: SeedBalance}, id)
		return a.clone(), nil
	}
	if displayName != "" && a.DisplayName != displayName {
		a.DisplayName = displayName
		l.touch(nil, id)
	}
	return a.clone(), nil
}

// Account returns a deep copy of the account record.
func (l *Ledger) Account(id int64) (*Account, error) {
	if a, ok := l.cache.get(id); ok {
		return a, nil
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	a, err := l.account(id)
	if err != nil {
		return nil, err
	}
	l.cache.put(a)
	return a.clone(), nil
}

// ListAccounts returns all accounts ordered by ID.
func (l *Ledger) ListAccounts() []Account {
	snap := l.Snapshot()
	return snap.Accounts
}

// SetDisplayName renames an account.
func (l *Ledger) SetDisplayName(id int64, name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty display name: %w", ErrValidation)
	}
	a.DisplayName = name
	l.touch(nil, id)
	return nil
}

// SetBanned flips the ban flag. Banned accounts keep their state but are
// rejected from every gameplay mutation.
func (l *Ledger) SetBanned(id int64, banned bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	if a.Banned == banned {
		return nil
	}
	a.Banned = banned
	kind := "account_unbanned"
	if banned {
		kind = "account_banned"
	}
	l.touch(&AuditEvent{Kind: kind, AccountID: id}, id)
	return nil
}

// AdjustBalance applies an admin-initiated delta. Credits count toward
// lifetime earnings; debits must not take the balance below zero.
func (l *Ledger) AdjustBalance(id int64, delta int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return 0, err
	}
	if delta == 0 {
		return 0, ErrInvalidAmount
	}
	if delta < 0 && a.Balance+delta < 0 {
		return 0, ErrInsufficientFunds
	}
	if delta > 0 {
		l.creditEarned(a, delta)
	} else {
		a.Balance += delta
	}
	l.touch(&AuditEvent{Kind: "balance_adjusted", AccountID: id, Amount: delta}, id)
	return a.Balance, nil
}

// SetBalance overwrites the balance outright. Does not touch lifetime
// earnings; it is a correction, not income.
func (l *Ledger) SetBalance(id int64, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	a.Balance = amount
	l.touch(&AuditEvent{Kind: "balance_set", AccountID: id, Amount: amount}, id)
	return nil
}

// MintItem appends a freshly minted instance of the template to the
// account's inventory. Admin surface; no balance movement.
func (l *Ledger) MintItem(id int64, tpl WonItem) (*ItemInstance, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tpl.Name) == "" || strings.TrimSpace(tpl.Rarity) == "" {
		return nil, fmt.Errorf("item needs name and rarity: %w", ErrValidation)
	}
	if tpl.Value < 0 {
		return nil, ErrInvalidAmount
	}
	inst := ItemInstance{
		InstanceID: l.ids.Next("itm"),
		ItemID:     tpl.ItemID,
		Name:       tpl.Name,
		Rarity:     tpl.Rarity,
		Value:      tpl.Value,
		ImageURL:   tpl.ImageURL,
	}
	if tpl.Variation != nil {
		v := *tpl.Variation
		inst.Variation = &v
	}
	a.Inventory = append(a.Inventory, inst)
	l.touch(&AuditEvent{Kind: "item_minted", AccountID: id, Ref: inst.InstanceID}, id)

	out := inst
	if inst.Variation != nil {
		v := *inst.Variation
		out.Variation = &v
	}
	return &out, nil
}

// ResetAccount returns an account to the freshly created state: seed
// balance, empty inventory, no progression. Idempotent.
func (l *Ledger) ResetAccount(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	a.Balance = SeedBalance
	a.Inventory = []ItemInstance{}
	a.Banned = false
	a.LastDailyClaim = nil
	a.XP = 0
	a.Level = 1
	a.MilestonesReached = 0
	a.MaxCaseOpenings = DefaultMaxCaseOpenings
	a.LifetimeEarnings = 0
	l.touch(&AuditEvent{Kind: "account_reset", AccountID: id}, id)
	return nil
}

// RemoveItem deletes an item instance without compensation. Admin surface.
func (l *Ledger) RemoveItem(id int64, instanceID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return err
	}
	idx := findInstance(a.Inventory, instanceID)
	if idx < 0 {
		return ErrItemNotFound
	}
	a.Inventory = append(a.Inventory[:idx], a.Inventory[idx+1:]...)
	l.touch(&AuditEvent{Kind: "item_removed", AccountID: id, Ref: instanceID}, id)
	return nil
}

// SellItem converts one owned item into coins at its recorded value. A
// variation sells at the variation price.
func (l *Ledger) SellItem(id int64, instanceID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return 0, err
	}
	if a.Banned {
		return 0, ErrAccountBanned
	}
	idx := findInstance(a.Inventory, instanceID)
	if idx < 0 {
		return 0, ErrItemNotFound
	}
	price := sellValue(a.Inventory[idx])
	a.Inventory = append(a.Inventory[:idx], a.Inventory[idx+1:]...)
	l.creditEarned(a, price)
	l.touch(&AuditEvent{Kind: "item_sold", AccountID: id, Amount: price, Ref: instanceID}, id)
	return price, nil
}

// SellAllItems liquidates the whole inventory in one mutation.
func (l *Ledger) SellAllItems(id int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return 0, err
	}
	if a.Banned {
		return 0, ErrAccountBanned
	}
	var total int64
	for i := range a.Inventory {
		total += sellValue(a.Inventory[i])
	}
	if total == 0 && len(a.Inventory) == 0 {
		return 0, nil
	}
	a.Inventory = a.Inventory[:0]
	l.creditEarned(a, total)
	l.touch(&AuditEvent{Kind: "inventory_sold", AccountID: id, Amount: total}, id)
	return total, nil
}

// ClaimDaily grants the daily reward once per calendar day in the given
// location. The claim day is derived from the ledger clock.
func (l *Ledger) ClaimDaily(id int64, amount int64, loc *time.Location) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return 0, err
	}
	if a.Banned {
		return 0, ErrAccountBanned
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	now := l.now().In(loc)
	if a.LastDailyClaim != nil && sameDay(a.LastDailyClaim.In(loc), now) {
		return 0, ErrDailyClaimed
	}
	t := now
	a.LastDailyClaim = &t
	l.creditEarned(a, amount)
	l.touch(&AuditEvent{Kind: "daily_claimed", AccountID: id, Amount: amount}, id)
	return a.Balance, nil
}

// GrantDailyToAll credits every non-banned account at most once per calendar
// day. The scheduler calls it around midnight; the date guard makes repeated
// calls on the same day no-ops, so a restart cannot double-grant.
func (l *Ledger) GrantDailyToAll(amount int64, loc *time.Location) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	now := l.now().In(loc)
	if l.meta.LastDailyGrantDate != nil && sameDay(l.meta.LastDailyGrantDate.In(loc), now) {
		return 0, nil
	}
	granted := 0
	ids := make([]int64, 0, len(l.accounts))
	for _, a := range l.accounts {
		if a.Banned {
			continue
		}
		l.creditEarned(a, amount)
		ids = append(ids, a.ID)
		granted++
	}
	t := now
	l.meta.LastDailyGrantDate = &t
	l.touch(&AuditEvent{Kind: "daily_granted_all", Amount: amount}, ids...)
	return granted, nil
}

// ReplaceAllAccounts swaps the whole account table, used by bulk import.
// Incoming records are normalized; balances and earnings are taken as-is.
func (l *Ledger) ReplaceAllAccounts(accounts []Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make(map[int64]*Account, len(accounts))
	for i := range accounts {
		a := accounts[i]
		if _, dup := next[a.ID]; dup {
			return fmt.Errorf("duplicate account %d: %w", a.ID, ErrValidation)
		}
		normalizeAccount(&a)
		if a.CreatedAt.IsZero() {
			a.CreatedAt = l.now()
		}
		next[a.ID] = &a
	}
	l.accounts = next
	l.cache.purge()
	l.touch(&AuditEvent{Kind: "accounts_replaced", Amount: int64(len(accounts))})
	return nil
}

func findInstance(inv []ItemInstance, instanceID string) int {
	for i := range inv {
		if inv[i].InstanceID == instanceID {
			return i
		}
	}
	return -1
}

func sellValue(it ItemInstance) int64 {
	if it.Variation != nil && it.Variation.Price > 0 {
		return it.Variation.Price
	}
	return it.Value
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
