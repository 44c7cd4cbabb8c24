// Package ledger implements the economy engine: accounts, case rolls,
// trades, wagers, promo codes and progression. All state is in memory and
// authoritative; durability goes through a write-behind flusher and a
// persistence gateway owned by the caller.
package ledger

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

const (
	// SeedBalance is granted to every freshly created account.
	SeedBalance = 1000

	// XPPerLevel is the XP threshold for a level transition. Account XP is
	// always kept strictly below it.
	XPPerLevel = 100

	// EarningsMilestone is the lifetime-earnings step that grants XP.
	EarningsMilestone = 10000

	earlyMilestones  = 5
	milestoneXPEarly = 20
	milestoneXPLate  = 5

	// DefaultMaxCaseOpenings is the per-invocation opening cap before any
	// level reward raises it.
	DefaultMaxCaseOpenings = 1

	// bonusVariationChance gates whether a winning item rolls a variation at
	// all, in percent.
	bonusVariationChance = 10.0
)

// Ledger is the single authoritative store for all economy state. It is
// constructed explicitly and passed by reference; there are no ambient
// globals.
//
// Mutating operations serialize on the write lock for their whole
// validate-then-apply sequence, so no partial effect is ever observable.
// Read-only queries run under the read lock and return deep copies.
type Ledger struct {
	mu sync.RWMutex

	accounts     map[int64]*Account
	cases        map[string]*CaseDefinition
	caseOrder    []string
	trades       map[string]*TradeOffer
	wagers       map[string]*Wager
	promos       map[string]*PromoCode
	levelRewards map[int]LevelReward
	meta         Meta

	draws DrawSource
	ids   *IDGenerator
	cache *accountCache
	now   func() time.Time

	dirty  atomic.Bool
	wake   chan struct{}
	events []AuditEvent
}

// Option configures a Ledger at construction time.
type Option func(*Ledger)

// WithDrawSource overrides the randomness used by case rolls and wager
// settlement. Tests use FixedDraws to force outcomes.
func WithDrawSource(d DrawSource) Option {
	return func(l *Ledger) { l.draws = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithAccountCacheSize sizes the read-through account cache.
func WithAccountCacheSize(n int) Option {
	return func(l *Ledger) { l.cache = newAccountCache(n) }
}

func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts:     make(map[int64]*Account),
		cases:        make(map[string]*CaseDefinition),
		trades:       make(map[string]*TradeOffer),
		wagers:       make(map[string]*Wager),
		promos:       make(map[string]*PromoCode),
		levelRewards: make(map[int]LevelReward),
		draws:        CryptoDraws(),
		ids:          NewIDGenerator(),
		now:          time.Now,
		wake:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = newAccountCache(defaultAccountCacheSize)
	}
	return l
}

// Restore replaces all in-memory state with the given snapshot. Called once
// at startup with whatever the gateway loaded.
func (l *Ledger) Restore(snap *Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.accounts = make(map[int64]*Account, len(snap.Accounts))
	for i := range snap.Accounts {
		a := snap.Accounts[i]
		normalizeAccount(&a)
		l.accounts[a.ID] = &a
	}
	l.cases = make(map[string]*CaseDefinition, len(snap.Cases))
	l.caseOrder = l.caseOrder[:0]
	for i := range snap.Cases {
		c := snap.Cases[i]
		l.cases[c.ID] = &c
		l.caseOrder = append(l.caseOrder, c.ID)
	}
	l.trades = make(map[string]*TradeOffer, len(snap.Trades))
	for i := range snap.Trades {
		t := snap.Trades[i]
		l.trades[t.ID] = &t
	}
	l.wagers = make(map[string]*Wager, len(snap.Wagers))
	for i := range snap.Wagers {
		w := snap.Wagers[i]
		l.wagers[w.ID] = &w
	}
	l.promos = make(map[string]*PromoCode, len(snap.PromoCodes))
	for i := range snap.PromoCodes {
		p := snap.PromoCodes[i]
		l.promos[p.ID] = &p
	}
	l.levelRewards = make(map[int]LevelReward, len(snap.LevelRewards))
	for _, r := range snap.LevelRewards {
		l.levelRewards[r.Level] = r
	}
	l.meta = snap.Meta
	l.cache.purge()
}

// normalizeAccount repairs fields that imported or legacy records may leave
// zeroed so the engine invariants hold from the first operation.
func normalizeAccount(a *Account) {
	if a.Level < 1 {
		a.Level = 1
	}
	if a.MaxCaseOpenings < DefaultMaxCaseOpenings {
		a.MaxCaseOpenings = DefaultMaxCaseOpenings
	}
	if a.Balance < 0 {
		a.Balance = 0
	}
	if a.XP < 0 {
		a.XP = 0
	}
	if a.XP >= XPPerLevel {
		a.XP = XPPerLevel - 1
	}
	if a.Inventory == nil {
		a.Inventory = []ItemInstance{}
	}
}

// Snapshot deep-copies the full state for the persistence gateway. Safe to
// call concurrently with readers; mutators are excluded for its duration.
func (l *Ledger) Snapshot() *Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snap := &Snapshot{
		Accounts:     make([]Account, 0, len(l.accounts)),
		Cases:        make([]CaseDefinition, 0, len(l.cases)),
		Trades:       make([]TradeOffer, 0, len(l.trades)),
		Wagers:       make([]Wager, 0, len(l.wagers)),
		PromoCodes:   make([]PromoCode, 0, len(l.promos)),
		LevelRewards: make([]LevelReward, 0, len(l.levelRewards)),
		Meta:         l.meta,
	}
	for _, a := range l.accounts {
		snap.Accounts = append(snap.Accounts, *a.clone())
	}
	for _, id := range l.caseOrder {
		if c, ok := l.cases[id]; ok {
			snap.Cases = append(snap.Cases, *c.clone())
		}
	}
	for _, t := range l.trades {
		snap.Trades = append(snap.Trades, *t.clone())
	}
	for _, w := range l.wagers {
		snap.Wagers = append(snap.Wagers, *w)
	}
	for _, p := range l.promos {
		snap.PromoCodes = append(snap.PromoCodes, *p.clone())
	}
	for _, r := range l.levelRewards {
		snap.LevelRewards = append(snap.LevelRewards, r)
	}
	sort.Slice(snap.Accounts, func(i, j int) bool { return snap.Accounts[i].ID < snap.Accounts[j].ID })
	sort.Slice(snap.Trades, func(i, j int) bool { return snap.Trades[i].CreatedAt.Before(snap.Trades[j].CreatedAt) })
	sort.Slice(snap.Wagers, func(i, j int) bool { return snap.Wagers[i].CreatedAt.Before(snap.Wagers[j].CreatedAt) })
	sort.Slice(snap.PromoCodes, func(i, j int) bool { return snap.PromoCodes[i].ID < snap.PromoCodes[j].ID })
	sort.Slice(snap.LevelRewards, func(i, j int) bool { return snap.LevelRewards[i].Level < snap.LevelRewards[j].Level })
	return snap
}

// touch records audit events, invalidates cached reads for the affected
// accounts and flags the state dirty for the flusher. Must be called with the
// write lock held.
func (l *Ledger) touch(ev *AuditEvent, accountIDs ...int64) {
	if ev != nil {
		ev.At = l.now()
		l.events = append(l.events, *ev)
	}
	for _, id := range accountIDs {
		l.cache.invalidate(id)
	}
	l.dirty.Store(true)
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// TakeDirty reports and clears the dirty flag. Used by the flusher to
// coalesce writes.
func (l *Ledger) TakeDirty() bool {
	return l.dirty.Swap(false)
}

// Wake signals pending durability work.
func (l *Ledger) Wake() <-chan struct{} {
	return l.wake
}

// DrainEvents hands all pending audit events to the caller.
func (l *Ledger) DrainEvents() []AuditEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	evs := l.events
	l.events = nil
	return evs
}

func (l *Ledger) account(id int64) (*Account, error) {
	a, ok := l.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}
