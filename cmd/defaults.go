package cmd

import (
	sim "github.com/retail-sim/retail-sim/sim"
)

// DefaultCatalog returns the built-in demo catalog used when no catalog
// file is given: a fast-moving dairy item, a freezable protein item, and a
// short-lived bakery item.
func DefaultCatalog() *sim.Catalog {
	catalog, err := sim.NewCatalog([]sim.ItemSpec{
		{
			SKU:             "milk-1l",
			UnitCost:        0.60,
			BasePrice:       1.20,
			ShelfLifeDays:   7,
			LeadTimeDays:    1,
			BaseDailyDemand: 80,
			PriceElasticity: -1.5,
			ShrinkRate:      0.01,
			InitialStock:    []sim.StockLot{{Quantity: 160, DaysToExpire: 7}},
		},
		{
			SKU:                   "chicken-breast",
			UnitCost:              3.00,
			BasePrice:             5.50,
			ShelfLifeDays:         4,
			LeadTimeDays:          2,
			BaseDailyDemand:       35,
			PriceElasticity:       -2.0,
			ShrinkRate:            0.02,
			Freezable:             true,
			FreezeUnitCost:        0.25,
			FrozenShelfLifeDays:   30,
			FrozenPriceMultiplier: 0.8,
			InitialStock:          []sim.StockLot{{Quantity: 80, DaysToExpire: 4}},
		},
		{
			SKU:             "sourdough-loaf",
			UnitCost:        1.10,
			BasePrice:       2.80,
			ShelfLifeDays:   2,
			LeadTimeDays:    1,
			BaseDailyDemand: 50,
			PriceElasticity: -1.2,
			ShrinkRate:      0.01,
			InitialStock:    []sim.StockLot{{Quantity: 60, DaysToExpire: 2}},
		},
	})
	if err != nil {
		// The built-in catalog is fixed at compile time.
		panic(err)
	}
	return catalog
}

// DefaultPolicy returns a baseline policy covering every demo catalog SKU.
func DefaultPolicy() sim.InventoryPolicy {
	return sim.InventoryPolicy{
		PerSKU: map[string]sim.ItemPolicy{
			"milk-1l": {
				ReorderPoint: 80,
				OrderUpTo:    240,
				Markdowns: []sim.MarkdownRule{
					{DaysToExpireAtMost: 2, PriceMultiplier: 0.5},
					{DaysToExpireAtMost: 4, PriceMultiplier: 0.8},
				},
				DonationThresholdDays: 1,
				DonationFraction:      0.5,
			},
			"chicken-breast": {
				ReorderPoint: 35,
				OrderUpTo:    140,
				Markdowns: []sim.MarkdownRule{
					{DaysToExpireAtMost: 1, PriceMultiplier: 0.4},
					{DaysToExpireAtMost: 2, PriceMultiplier: 0.7},
				},
				FreezeThresholdDays: 1,
				FreezeDailyCap:      25,
			},
			"sourdough-loaf": {
				ReorderPoint: 25,
				OrderUpTo:    80,
				Markdowns: []sim.MarkdownRule{
					{DaysToExpireAtMost: 1, PriceMultiplier: 0.5},
				},
				DonationThresholdDays: 1,
				DonationFraction:      1.0,
			},
		},
	}
}
