package ledger

import (
	"sort"
	"strings"
)

// CreatePromoCode registers a new code. Codes are case-insensitive; the
// lowercased form is the identity. MaxRedemptions of zero means unlimited.
func (l *Ledger) CreatePromoCode(code string, grantAmount int64, maxRedemptions int) (*PromoCode, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrValidation
	}
	if grantAmount <= 0 || maxRedemptions < 0 {
		return nil, ErrInvalidAmount
	}
	id := strings.ToLower(code)
	if _, ok := l.promos[id]; ok {
		return nil, ErrAlreadyExists
	}
	p := &PromoCode{
		ID:             id,
		Code:           code,
		GrantAmount:    grantAmount,
		MaxRedemptions: maxRedemptions,
		RedeemedBy:     []int64{},
		Active:         true,
		CreatedAt:      l.now(),
	}
	l.promos[id] = p
	l.touch(&AuditEvent{Kind: "promo_created", Amount: grantAmount, Ref: id})
	return p.clone(), nil
}

// RedeemPromo grants the code's amount to the account. Each account redeems a
// given code at most once, and the shared usage cap is enforced in the same
// mutation, so concurrent redeemers cannot oversubscribe it.
func (l *Ledger) RedeemPromo(id int64, code string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return 0, err
	}
	if a.Banned {
		return 0, ErrAccountBanned
	}
	p, ok := l.promos[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return 0, ErrCodeNotFound
	}
	if !p.Active {
		return 0, ErrCodeInactive
	}
	for _, uid := range p.RedeemedBy {
		if uid == id {
			return 0, ErrAlreadyRedeemed
		}
	}
	if p.MaxRedemptions > 0 && p.RedemptionsUsed >= p.MaxRedemptions {
		return 0, ErrRedemptionsExhausted
	}

	p.RedeemedBy = append(p.RedeemedBy, id)
	p.RedemptionsUsed++
	l.creditEarned(a, p.GrantAmount)
	l.touch(&AuditEvent{Kind: "promo_redeemed", AccountID: id, Amount: p.GrantAmount, Ref: p.ID}, id)
	return a.Balance, nil
}

// SetPromoActive enables or disables a code without losing its redemption
// history.
func (l *Ledger) SetPromoActive(code string, active bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	p, ok := l.promos[strings.ToLower(strings.TrimSpace(code))]
	if !ok {
		return ErrCodeNotFound
	}
	if p.Active == active {
		return nil
	}
	p.Active = active
	l.touch(nil)
	return nil
}

// DeletePromoCode removes a code entirely.
func (l *Ledger) DeletePromoCode(code string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := strings.ToLower(strings.TrimSpace(code))
	if _, ok := l.promos[id]; !ok {
		return ErrCodeNotFound
	}
	delete(l.promos, id)
	l.touch(&AuditEvent{Kind: "promo_deleted", Ref: id})
	return nil
}

// PromoCodes lists all codes ordered by ID. Admin surface.
func (l *Ledger) PromoCodes() []PromoCode {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]PromoCode, 0, len(l.promos))
	for _, p := range l.promos {
		out = append(out, *p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
