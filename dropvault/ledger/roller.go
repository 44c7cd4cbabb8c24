package ledger

import "fmt"

// RollCase picks one item from the loot table using a single draw in
// [0, 100). Weights are treated as cumulative percentage bands; if rounding
// in the table leaves the draw past the last band, the last item wins. A
// second gated draw decides whether the item resolves to a variation.
//
// Pure function of its draws; the Ledger is not involved.
func RollCase(def *CaseDefinition, draws DrawSource) (WonItem, error) {
	if len(def.Items) == 0 {
		return WonItem{}, fmt.Errorf("case %s has no items: %w", def.ID, ErrValidation)
	}

	roll := draws()
	idx := len(def.Items) - 1
	var cum float64
	for i := range def.Items {
		cum += def.Items[i].DropWeight
		if roll < cum {
			idx = i
			break
		}
	}
	item := &def.Items[idx]

	won := WonItem{
		ItemID:   item.ID,
		Name:     item.Name,
		Rarity:   item.Rarity,
		Value:    item.Value,
		ImageURL: item.ImageURL,
	}
	if len(item.Variations) > 0 && draws() < bonusVariationChance {
		won.Variation = rollVariation(item.Variations, draws())
	}
	return won, nil
}

// rollVariation walks the variation weights with the same cumulative-sum
// bands and last-entry fallback as the item pick.
func rollVariation(vars []Variation, roll float64) *VariationDescriptor {
	idx := len(vars) - 1
	var cum float64
	for i := range vars {
		cum += vars[i].DropWeight
		if roll < cum {
			idx = i
			break
		}
	}
	v := &vars[idx]
	return &VariationDescriptor{Name: v.Name, Price: v.Price, ImageURL: v.ImageURL}
}

// OpenResult reports a completed opening: what was won, what it cost and the
// balance afterwards.
type OpenResult struct {
	Items    []ItemInstance
	Cost     int64
	Balance  int64
	XPGained int
}

// OpenCase charges the account, rolls count items from the case and mints
// them into the inventory. Count is capped by the account's unlocked opening
// limit. Charge, rolls and minting commit as one mutation.
func (l *Ledger) OpenCase(id int64, caseID string, count int) (*OpenResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, err := l.account(id)
	if err != nil {
		return nil, err
	}
	if a.Banned {
		return nil, ErrAccountBanned
	}
	def, ok := l.cases[caseID]
	if !ok {
		return nil, ErrNotFound
	}
	if !def.Enabled {
		return nil, fmt.Errorf("case %s is disabled: %w", caseID, ErrValidation)
	}
	if count < 1 {
		return nil, ErrInvalidAmount
	}
	if count > a.MaxCaseOpenings {
		count = a.MaxCaseOpenings
	}
	cost := def.Price * int64(count)
	if a.Balance < cost {
		return nil, ErrInsufficientFunds
	}

	minted := make([]ItemInstance, 0, count)
	for i := 0; i < count; i++ {
		won, err := RollCase(def, l.draws)
		if err != nil {
			return nil, err
		}
		minted = append(minted, ItemInstance{
			InstanceID: l.ids.Next("itm"),
			ItemID:     won.ItemID,
			Name:       won.Name,
			Rarity:     won.Rarity,
			Value:      won.Value,
			ImageURL:   won.ImageURL,
			Variation:  won.Variation,
		})
	}

	a.Balance -= cost
	a.Inventory = append(a.Inventory, minted...)
	xp := def.XPReward * count
	l.awardXP(a, xp)
	l.touch(&AuditEvent{Kind: "case_opened", AccountID: id, Amount: -cost, Ref: caseID}, id)

	return &OpenResult{
		Items:    append([]ItemInstance(nil), minted...),
		Cost:     cost,
		Balance:  a.Balance,
		XPGained: xp,
	}, nil
}
