package ledger

import (
	"fmt"
	"math"
	"strings"
)

// weightTolerance is how far a case's summed drop weights may drift from 100
// and still validate. Hand-maintained tables carry rounding residue.
const weightTolerance = 0.1

// ValidateCase checks a case definition before it enters the catalog: a
// non-empty identity, a non-negative price and a loot table whose weights sum
// to 100 within tolerance. Variation tables are held to the same sum rule.
func ValidateCase(def *CaseDefinition) error {
	if strings.TrimSpace(def.ID) == "" || strings.TrimSpace(def.Name) == "" {
		return fmt.Errorf("case requires id and name: %w", ErrValidation)
	}
	if def.Price < 0 || def.XPReward < 0 {
		return ErrInvalidAmount
	}
	if len(def.Items) == 0 {
		return fmt.Errorf("case %s has no items: %w", def.ID, ErrValidation)
	}
	var sum float64
	for i := range def.Items {
		it := &def.Items[i]
		if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Name) == "" {
			return fmt.Errorf("case %s: item %d requires id and name: %w", def.ID, i, ErrValidation)
		}
		if it.DropWeight <= 0 {
			return fmt.Errorf("case %s: item %s has non-positive weight: %w", def.ID, it.ID, ErrValidation)
		}
		if it.Value < 0 {
			return ErrInvalidAmount
		}
		sum += it.DropWeight
		if len(it.Variations) > 0 {
			var varSum float64
			for j := range it.Variations {
				v := &it.Variations[j]
				if strings.TrimSpace(v.Name) == "" {
					return fmt.Errorf("case %s: item %s variation %d requires a name: %w", def.ID, it.ID, j, ErrValidation)
				}
				if v.DropWeight <= 0 {
					return fmt.Errorf("case %s: item %s variation %s has non-positive weight: %w", def.ID, it.ID, v.Name, ErrValidation)
				}
				varSum += v.DropWeight
			}
			if math.Abs(varSum-100) > weightTolerance {
				return fmt.Errorf("case %s: item %s variation weights sum to %.2f, want 100: %w", def.ID, it.ID, varSum, ErrValidation)
			}
		}
	}
	if math.Abs(sum-100) > weightTolerance {
		return fmt.Errorf("case %s: weights sum to %.2f, want 100: %w", def.ID, sum, ErrValidation)
	}
	return nil
}

// UpsertCase installs or replaces a case definition after validation.
func (l *Ledger) UpsertCase(def CaseDefinition) error {
	if err := ValidateCase(&def); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cases[def.ID]; !ok {
		l.caseOrder = append(l.caseOrder, def.ID)
	}
	l.cases[def.ID] = def.clone()
	l.touch(&AuditEvent{Kind: "case_upserted", Ref: def.ID})
	return nil
}

// DeleteCase removes a case from the catalog. Minted items stay in
// inventories; only future openings are affected.
func (l *Ledger) DeleteCase(caseID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.cases[caseID]; !ok {
		return ErrNotFound
	}
	delete(l.cases, caseID)
	for i, id := range l.caseOrder {
		if id == caseID {
			l.caseOrder = append(l.caseOrder[:i], l.caseOrder[i+1:]...)
			break
		}
	}
	l.touch(&AuditEvent{Kind: "case_deleted", Ref: caseID})
	return nil
}

// SetCaseEnabled toggles whether a case can be opened.
func (l *Ledger) SetCaseEnabled(caseID string, enabled bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.cases[caseID]
	if !ok {
		return ErrNotFound
	}
	if c.Enabled == enabled {
		return nil
	}
	c.Enabled = enabled
	l.touch(nil)
	return nil
}

// Case returns one definition by ID.
func (l *Ledger) Case(caseID string) (*CaseDefinition, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, ok := l.cases[caseID]
	if !ok {
		return nil, ErrNotFound
	}
	return c.clone(), nil
}

// Cases lists the catalog in insertion order.
func (l *Ledger) Cases() []CaseDefinition {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]CaseDefinition, 0, len(l.caseOrder))
	for _, id := range l.caseOrder {
		if c, ok := l.cases[id]; ok {
			out = append(out, *c.clone())
		}
	}
	return out
}

// ReplaceCatalog swaps the whole catalog, used by bulk import. Every incoming
// case must validate or nothing is applied.
func (l *Ledger) ReplaceCatalog(cases []CaseDefinition) error {
	for i := range cases {
		if err := ValidateCase(&cases[i]); err != nil {
			return err
		}
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.cases = make(map[string]*CaseDefinition, len(cases))
	l.caseOrder = l.caseOrder[:0]
	for i := range cases {
		if _, dup := l.cases[cases[i].ID]; dup {
			continue
		}
		l.cases[cases[i].ID] = cases[i].clone()
		l.caseOrder = append(l.caseOrder, cases[i].ID)
	}
	l.touch(&AuditEvent{Kind: "catalog_replaced", Amount: int64(len(cases))})
	return nil
}

// DefaultSnapshot is the state a brand new deployment starts from: one
// starter case and no accounts.
func DefaultSnapshot() *Snapshot {
	return &Snapshot{
		Accounts: []Account{},
		Cases:    []CaseDefinition{defaultCase()},
		LevelRewards: []LevelReward{
			{Level: 5, MaxCaseOpenings: 3},
			{Level: 10, MaxCaseOpenings: 5},
		},
	}
}

func defaultCase() CaseDefinition {
	return CaseDefinition{
		ID:       "starter",
		Name:     "Starter Case",
		Price:    100,
		XPReward: 10,
		Enabled:  true,
		Items: []ItemDefinition{
			{ID: "blue_shard", Name: "Blue Shard", Rarity: "common", Value: 40, DropWeight: 10},
			{ID: "blue_chip", Name: "Blue Chip", Rarity: "common", Value: 50, DropWeight: 10},
			{ID: "blue_coin", Name: "Blue Coin", Rarity: "common", Value: 60, DropWeight: 10},
			{ID: "blue_orb", Name: "Blue Orb", Rarity: "common", Value: 70, DropWeight: 10},
			{ID: "blue_core", Name: "Blue Core", Rarity: "common", Value: 80, DropWeight: 10},
			{ID: "purple_shard", Name: "Purple Shard", Rarity: "uncommon", Value: 150, DropWeight: 8.33},
			{ID: "purple_orb", Name: "Purple Orb", Rarity: "uncommon", Value: 175, DropWeight: 8.33},
			{ID: "purple_core", Name: "Purple Core", Rarity: "uncommon", Value: 200, DropWeight: 8.34},
			{ID: "pink_shard", Name: "Pink Shard", Rarity: "rare", Value: 300, DropWeight: 5},
			{ID: "pink_orb", Name: "Pink Orb", Rarity: "rare", Value: 350, DropWeight: 5},
			{ID: "pink_core", Name: "Pink Core", Rarity: "rare", Value: 400, DropWeight: 5},
			{ID: "red_orb", Name: "Red Orb", Rarity: "epic", Value: 600, DropWeight: 4},
			{ID: "red_core", Name: "Red Core", Rarity: "epic", Value: 750, DropWeight: 4},
			{
				ID: "gold_orb", Name: "Gold Orb", Rarity: "legendary", Value: 2000, DropWeight: 1,
				Variations: []Variation{
					{Name: "Polished", DropWeight: 70, Price: 2500},
					{Name: "Radiant", DropWeight: 30, Price: 4000},
				},
			},
			{ID: "gold_core", Name: "Gold Core", Rarity: "legendary", Value: 3000, DropWeight: 1},
		},
	}
}
