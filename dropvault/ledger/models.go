package ledger

import (
	"time"
)

// Account is a player's economic record: coin balance plus owned item
// instances. All mutation goes through the Ledger.
type Account struct {
	ID                int64          `json:"id" bson:"id"`
	DisplayName       string         `json:"display_name" bson:"display_name"`
	Balance           int64          `json:"balance" bson:"balance"`
	Inventory         []ItemInstance `json:"inventory" bson:"inventory"`
	Banned            bool           `json:"banned" bson:"banned"`
	LastDailyClaim    *time.Time     `json:"last_daily_claim,omitempty" bson:"last_daily_claim,omitempty"`
	XP                int            `json:"xp" bson:"xp"`
	Level             int            `json:"level" bson:"level"`
	MilestonesReached int            `json:"milestones_reached" bson:"milestones_reached"`
	MaxCaseOpenings   int            `json:"max_case_openings" bson:"max_case_openings"`
	LifetimeEarnings  int64          `json:"lifetime_earnings" bson:"lifetime_earnings"`
	CreatedAt         time.Time      `json:"created_at" bson:"created_at"`
}

func (a *Account) clone() *Account {
	c := *a
	c.Inventory = make([]ItemInstance, len(a.Inventory))
	copy(c.Inventory, a.Inventory)
	for i := range c.Inventory {
		if v := c.Inventory[i].Variation; v != nil {
			vc := *v
			c.Inventory[i].Variation = &vc
		}
	}
	if a.LastDailyClaim != nil {
		t := *a.LastDailyClaim
		c.LastDailyClaim = &t
	}
	return &c
}

// ItemInstance is one minted unit of a reward, owned by exactly one account.
// Ownership only changes through trade settlement or removal/sale.
type ItemInstance struct {
	InstanceID string                `json:"instance_id" bson:"instance_id"`
	ItemID     string                `json:"item_id" bson:"item_id"`
	Name       string                `json:"name" bson:"name"`
	Rarity     string                `json:"rarity" bson:"rarity"`
	Value      int64                 `json:"value" bson:"value"`
	ImageURL   string                `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Variation  *VariationDescriptor  `json:"variation,omitempty" bson:"variation,omitempty"`
}

// VariationDescriptor records which variation a minted item resolved to.
type VariationDescriptor struct {
	Name     string `json:"name" bson:"name"`
	Price    int64  `json:"price" bson:"price"`
	ImageURL string `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// CaseDefinition is a purchasable weighted lottery over item definitions.
type CaseDefinition struct {
	ID       string           `json:"id" bson:"id"`
	Name     string           `json:"name" bson:"name"`
	Price    int64            `json:"price" bson:"price"`
	XPReward int              `json:"xp_reward" bson:"xp_reward"`
	Enabled  bool             `json:"enabled" bson:"enabled"`
	Items    []ItemDefinition `json:"items" bson:"items"`
}

func (c *CaseDefinition) clone() *CaseDefinition {
	cc := *c
	cc.Items = make([]ItemDefinition, len(c.Items))
	copy(cc.Items, c.Items)
	for i := range cc.Items {
		if len(c.Items[i].Variations) > 0 {
			vs := make([]Variation, len(c.Items[i].Variations))
			copy(vs, c.Items[i].Variations)
			cc.Items[i].Variations = vs
		}
	}
	return &cc
}

// ItemDefinition is one entry of a case's loot table. DropWeight is a
// percentage; weights of all items in a case sum to 100 within tolerance.
type ItemDefinition struct {
	ID         string      `json:"id" bson:"id"`
	Name       string      `json:"name" bson:"name"`
	Rarity     string      `json:"rarity" bson:"rarity"`
	Value      int64       `json:"value" bson:"value"`
	DropWeight float64     `json:"drop_weight" bson:"drop_weight"`
	ImageURL   string      `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Variations []Variation `json:"variations,omitempty" bson:"variations,omitempty"`
}

// Variation is a cosmetic/value override gated behind the bonus roll.
type Variation struct {
	Name       string  `json:"name" bson:"name"`
	DropWeight float64 `json:"drop_weight" bson:"drop_weight"`
	Price      int64   `json:"price" bson:"price"`
	ImageURL   string  `json:"image_url,omitempty" bson:"image_url,omitempty"`
}

// WonItem is the outcome of a case roll. It is a pure value; minting it into
// an inventory is the caller's responsibility.
type WonItem struct {
	ItemID    string
	Name      string
	Rarity    string
	Value     int64
	ImageURL  string
	Variation *VariationDescriptor
}

// OfferStatus is the lifecycle state shared by trades and wagers.
// Pending transitions exactly once to Completed or Cancelled.
type OfferStatus string

const (
	StatusPending   OfferStatus = "pending"
	StatusCompleted OfferStatus = "completed"
	StatusCancelled OfferStatus = "cancelled"
)

// TradeOffer is a proposed bilateral exchange of coins and/or items.
type TradeOffer struct {
	ID               string      `json:"id" bson:"id"`
	FromID           int64       `json:"from_id" bson:"from_id"`
	ToID             int64       `json:"to_id" bson:"to_id"`
	OfferedItemIDs   []string    `json:"offered_item_ids" bson:"offered_item_ids"`
	RequestedItemIDs []string    `json:"requested_item_ids" bson:"requested_item_ids"`
	OfferedCoins     int64       `json:"offered_coins" bson:"offered_coins"`
	RequestedCoins   int64       `json:"requested_coins" bson:"requested_coins"`
	Status           OfferStatus `json:"status" bson:"status"`
	CreatedAt        time.Time   `json:"created_at" bson:"created_at"`
}

func (t *TradeOffer) clone() *TradeOffer {
	c := *t
	c.OfferedItemIDs = append([]string(nil), t.OfferedItemIDs...)
	c.RequestedItemIDs = append([]string(nil), t.RequestedItemIDs...)
	return &c
}

// Wager is a bilateral zero-sum coin bet resolved by one fair draw.
type Wager struct {
	ID           string      `json:"id" bson:"id"`
	ChallengerID int64       `json:"challenger_id" bson:"challenger_id"`
	OpponentID   int64       `json:"opponent_id" bson:"opponent_id"`
	Stake        int64       `json:"stake" bson:"stake"`
	Status       OfferStatus `json:"status" bson:"status"`
	WinnerID     int64       `json:"winner_id,omitempty" bson:"winner_id,omitempty"`
	CreatedAt    time.Time   `json:"created_at" bson:"created_at"`
}

// PromoCode is a shared, usage-capped coupon granting a fixed amount once per
// account. Codes are matched case-insensitively; ID is the lowercased code.
type PromoCode struct {
	ID              string    `json:"id" bson:"id"`
	Code            string    `json:"code" bson:"code"`
	GrantAmount     int64     `json:"grant_amount" bson:"grant_amount"`
	MaxRedemptions  int       `json:"max_redemptions" bson:"max_redemptions"`
	RedemptionsUsed int       `json:"redemptions_used" bson:"redemptions_used"`
	RedeemedBy      []int64   `json:"redeemed_by" bson:"redeemed_by"`
	Active          bool      `json:"active" bson:"active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
}

func (p *PromoCode) clone() *PromoCode {
	c := *p
	c.RedeemedBy = append([]int64(nil), p.RedeemedBy...)
	return &c
}

// LevelReward unlocks capabilities when an account reaches a level.
type LevelReward struct {
	Level           int `json:"level" bson:"level"`
	MaxCaseOpenings int `json:"max_case_openings" bson:"max_case_openings"`
}

// Meta holds ledger-wide bookkeeping.
type Meta struct {
	LastDailyGrantDate *time.Time `json:"last_daily_grant_date,omitempty" bson:"last_daily_grant_date,omitempty"`
}

// Snapshot is the full persisted state exchanged with the persistence
// gateway. Save is an idempotent full overwrite; Load is the sole recovery
// source on restart.
type Snapshot struct {
	Accounts     []Account        `json:"accounts" bson:"accounts"`
	Cases        []CaseDefinition `json:"cases" bson:"cases"`
	Trades       []TradeOffer     `json:"trades" bson:"trades"`
	Wagers       []Wager          `json:"wagers" bson:"wagers"`
	PromoCodes   []PromoCode      `json:"promo_codes" bson:"promo_codes"`
	LevelRewards []LevelReward    `json:"level_rewards" bson:"level_rewards"`
	Meta         Meta             `json:"meta" bson:"meta"`
}

// AuditEvent describes one applied mutation, drained by the flusher for the
// optional audit trail. Never written while the ledger lock is held by the
// consumer side.
type AuditEvent struct {
	Kind      string    `json:"kind"`
	AccountID int64     `json:"account_id"`
	OtherID   int64     `json:"other_id,omitempty"`
	Amount    int64     `json:"amount,omitempty"`
	Ref       string    `json:"ref,omitempty"`
	At        time.Time `json:"at"`
}
