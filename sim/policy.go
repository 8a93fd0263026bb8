package sim

import (
	"fmt"
	"sort"
)

// MarkdownRule discounts near-expiry stock: when the soonest fresh expiry
// is at or below DaysToExpireAtMost, the base price is scaled by
// PriceMultiplier.
type MarkdownRule struct {
	DaysToExpireAtMost int     `json:"days_to_expire_at_most"`
	PriceMultiplier    float64 `json:"price_multiplier"`
}

// ItemPolicy is the per-SKU control under evaluation: classic (s, S)
// replenishment plus markdown, donation, and freeze rules.
type ItemPolicy struct {
	ReorderPoint int `json:"reorder_point"` // s: reorder when fresh on-hand <= s
	OrderUpTo    int `json:"order_up_to"`   // S: order (S - on-hand) units

	// Markdowns are scanned ascending by threshold; the first rule whose
	// threshold covers the soonest fresh expiry wins.
	Markdowns []MarkdownRule `json:"markdowns,omitempty"`

	// Donation: at most floor(eligible * fraction) units with
	// DaysToExpire <= threshold are given away per day.
	DonationThresholdDays int     `json:"donation_threshold_days"`
	DonationFraction      float64 `json:"donation_fraction"`

	// Freezing: up to FreezeDailyCap units with DaysToExpire <= threshold
	// move to the frozen pool per day.
	FreezeThresholdDays int `json:"freeze_threshold_days"`
	FreezeDailyCap      int `json:"freeze_daily_cap"`
}

// sortedMarkdowns returns the markdown rules ordered ascending by
// threshold, without mutating the policy.
func (p ItemPolicy) sortedMarkdowns() []MarkdownRule {
	rules := make([]MarkdownRule, len(p.Markdowns))
	copy(rules, p.Markdowns)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].DaysToExpireAtMost < rules[j].DaysToExpireAtMost
	})
	return rules
}

// InventoryPolicy aggregates one ItemPolicy per catalog SKU.
type InventoryPolicy struct {
	PerSKU map[string]ItemPolicy `json:"per_sku"`
}

// Validate checks that every catalog SKU has a policy entry. A missing
// entry is a fatal configuration error; the simulation must not start.
func (p InventoryPolicy) Validate(catalog *Catalog) error {
	for _, it := range catalog.Items {
		pol, ok := p.PerSKU[it.SKU]
		if !ok {
			return fmt.Errorf("policy has no entry for catalog SKU %q", it.SKU)
		}
		if pol.ReorderPoint < 0 || pol.OrderUpTo < 0 {
			return fmt.Errorf("policy for SKU %q has negative reorder levels", it.SKU)
		}
		if pol.DonationFraction < 0 || pol.DonationFraction > 1 {
			return fmt.Errorf("policy for SKU %q donation fraction %v outside [0,1]", it.SKU, pol.DonationFraction)
		}
		if pol.FreezeDailyCap < 0 {
			return fmt.Errorf("policy for SKU %q has negative freeze cap %d", it.SKU, pol.FreezeDailyCap)
		}
		for _, rule := range pol.Markdowns {
			if rule.PriceMultiplier < 0 {
				return fmt.Errorf("policy for SKU %q has a negative markdown multiplier %v", it.SKU, rule.PriceMultiplier)
			}
		}
	}
	return nil
}
