// Package trace provides per-day decision and flow records for run analysis.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// DayRecord captures everything that happened to one SKU on one day.
// Records are append-only: the driver writes each record once and never
// mutates it afterwards.
//
// The fresh-side flows satisfy, for every record:
//
//	StartingFresh + Arrived =
//	    EndingFresh + SoldFresh + Donated + FrozenMoved + ShrinkFresh + WastedFresh
//
// and the frozen side satisfies:
//
//	StartingFrozen + FrozenMoved =
//	    EndingFrozen + SoldFrozen + ShrinkFrozen + WastedFrozen
type DayRecord struct {
	Day int    `json:"day"` // 1-based
	SKU string `json:"sku"`

	StartingFresh  int `json:"starting_fresh"`
	StartingFrozen int `json:"starting_frozen"`
	Arrived        int `json:"arrived"`

	FrozenMoved int `json:"frozen_moved"`
	Donated     int `json:"donated"`

	PriceMultiplier float64 `json:"price_multiplier"`
	Price           float64 `json:"price"`

	Demand     int `json:"demand"`
	SoldFresh  int `json:"sold_fresh"`
	SoldFrozen int `json:"sold_frozen"`
	Unmet      int `json:"unmet"`

	ShrinkFresh  int `json:"shrink_fresh"`
	ShrinkFrozen int `json:"shrink_frozen"`
	WastedFresh  int `json:"wasted_fresh"`
	WastedFrozen int `json:"wasted_frozen"`

	EndingFresh  int `json:"ending_fresh"`
	EndingFrozen int `json:"ending_frozen"`

	Revenue     float64 `json:"revenue"`
	COGS        float64 `json:"cogs"`
	HoldingCost float64 `json:"holding_cost"`
	WasteCost   float64 `json:"waste_cost"`
	FreezeCost  float64 `json:"freeze_cost"`
}

// Profit is the day's contribution margin for this SKU.
func (r DayRecord) Profit() float64 {
	return r.Revenue - r.COGS - r.HoldingCost - r.WasteCost - r.FreezeCost
}
