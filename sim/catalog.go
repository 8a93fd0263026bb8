package sim

import "fmt"

// StockLot is an opening fresh inventory position seeded into the ledger
// before day 1.
type StockLot struct {
	Quantity     int `json:"quantity"`
	DaysToExpire int `json:"days_to_expire"`
}

// ItemSpec is the immutable per-SKU economics of one catalog entry.
type ItemSpec struct {
	SKU             string  `json:"sku"`
	UnitCost        float64 `json:"unit_cost"`   // acquisition cost per unit
	BasePrice       float64 `json:"base_price"`  // undiscounted selling price
	ShelfLifeDays   int     `json:"shelf_life_days"`
	LeadTimeDays    int     `json:"lead_time_days"`
	BaseDailyDemand float64 `json:"base_daily_demand"`
	// PriceElasticity is the exponent applied to the price multiplier when
	// realizing demand; negative values mean markdowns raise demand.
	PriceElasticity float64 `json:"price_elasticity"`
	ShrinkRate      float64 `json:"shrink_rate"` // daily fraction lost to theft/damage

	// Freezing economics. An item supports freezing only when Freezable is
	// set; frozen stock carries its own shelf life and sells at
	// BasePrice * FrozenPriceMultiplier.
	Freezable             bool    `json:"freezable"`
	FreezeUnitCost        float64 `json:"freeze_unit_cost"`
	FrozenShelfLifeDays   int     `json:"frozen_shelf_life_days"`
	FrozenPriceMultiplier float64 `json:"frozen_price_multiplier"`

	InitialStock []StockLot `json:"initial_stock,omitempty"`
}

// FrozenPrice returns the effective selling price of frozen units.
func (it ItemSpec) FrozenPrice() float64 {
	return it.BasePrice * it.FrozenPriceMultiplier
}

// Catalog is the validated item list of one location. Iteration order is
// the declaration order and fixes the per-day SKU processing order.
type Catalog struct {
	Items []ItemSpec
}

// NewCatalog creates a catalog after validating every entry.
func NewCatalog(items []ItemSpec) (*Catalog, error) {
	c := &Catalog{Items: items}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the numeric ranges the engine relies on. The engine
// consumes a pre-validated catalog; this is the boundary check callers run
// before simulating.
func (c *Catalog) Validate() error {
	if len(c.Items) == 0 {
		return fmt.Errorf("catalog has no items")
	}
	seen := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.SKU == "" {
			return fmt.Errorf("catalog item with empty SKU")
		}
		if seen[it.SKU] {
			return fmt.Errorf("catalog item %q declared twice", it.SKU)
		}
		seen[it.SKU] = true
		if it.UnitCost < 0 || it.BasePrice < 0 || it.FreezeUnitCost < 0 {
			return fmt.Errorf("catalog item %q has a negative cost or price", it.SKU)
		}
		if it.ShelfLifeDays <= 0 {
			return fmt.Errorf("catalog item %q needs a positive shelf life, got %d", it.SKU, it.ShelfLifeDays)
		}
		if it.LeadTimeDays < 0 {
			return fmt.Errorf("catalog item %q has negative lead time %d", it.SKU, it.LeadTimeDays)
		}
		if it.ShrinkRate < 0 || it.ShrinkRate > 1 {
			return fmt.Errorf("catalog item %q shrink rate %v outside [0,1]", it.SKU, it.ShrinkRate)
		}
		if it.FrozenPriceMultiplier < 0 {
			return fmt.Errorf("catalog item %q has a negative frozen price multiplier %v", it.SKU, it.FrozenPriceMultiplier)
		}
		if it.Freezable && it.FrozenShelfLifeDays <= 0 {
			return fmt.Errorf("freezable catalog item %q needs a positive frozen shelf life", it.SKU)
		}
		for _, lot := range it.InitialStock {
			if lot.Quantity < 0 || lot.DaysToExpire <= 0 {
				return fmt.Errorf("catalog item %q has an invalid initial stock lot %+v", it.SKU, lot)
			}
		}
	}
	return nil
}
