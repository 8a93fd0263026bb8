// Tracks run-wide financial and unit-flow totals for final reporting.

package sim

import (
	"fmt"

	"github.com/retail-sim/retail-sim/sim/trace"
)

// Totals are the running sums accumulated across every SKU and day of one
// run. They feed the evaluator after the last day.
type Totals struct {
	Revenue     float64 `json:"revenue"`
	COGS        float64 `json:"cogs"`
	HoldingCost float64 `json:"holding_cost"`
	WasteCost   float64 `json:"waste_cost"`
	FreezeCost  float64 `json:"freeze_cost"`

	Demand        int `json:"demand"`
	SoldFresh     int `json:"sold_fresh"`
	SoldFrozen    int `json:"sold_frozen"`
	StockoutUnits int `json:"stockout_units"`
	Donated       int `json:"donated"`
	FrozenMoved   int `json:"frozen_moved"`
	ShrinkLost    int `json:"shrink_lost"`
	Wasted        int `json:"wasted"`
}

// Profit is revenue net of all modeled costs.
func (t Totals) Profit() float64 {
	return t.Revenue - t.COGS - t.HoldingCost - t.WasteCost - t.FreezeCost
}

// Sold is the total quantity sold across both pools.
func (t Totals) Sold() int {
	return t.SoldFresh + t.SoldFrozen
}

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Totals Totals `json:"totals"`
	Days   int    `json:"days"`
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// Accumulate folds one day record into the running totals.
func (m *Metrics) Accumulate(r trace.DayRecord, countStockouts bool) {
	m.Totals.Revenue += r.Revenue
	m.Totals.COGS += r.COGS
	m.Totals.HoldingCost += r.HoldingCost
	m.Totals.WasteCost += r.WasteCost
	m.Totals.FreezeCost += r.FreezeCost

	m.Totals.Demand += r.Demand
	m.Totals.SoldFresh += r.SoldFresh
	m.Totals.SoldFrozen += r.SoldFrozen
	if countStockouts {
		m.Totals.StockoutUnits += r.Unmet
	}
	m.Totals.Donated += r.Donated
	m.Totals.FrozenMoved += r.FrozenMoved
	m.Totals.ShrinkLost += r.ShrinkFresh + r.ShrinkFrozen
	m.Totals.Wasted += r.WastedFresh + r.WastedFrozen
}

// Print displays aggregated totals at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Totals ===")
	fmt.Printf("Days simulated     : %d\n", m.Days)
	fmt.Printf("Revenue            : %.2f\n", m.Totals.Revenue)
	fmt.Printf("COGS               : %.2f\n", m.Totals.COGS)
	fmt.Printf("Holding cost       : %.2f\n", m.Totals.HoldingCost)
	fmt.Printf("Waste cost         : %.2f\n", m.Totals.WasteCost)
	fmt.Printf("Freeze cost        : %.2f\n", m.Totals.FreezeCost)
	fmt.Printf("Profit             : %.2f\n", m.Totals.Profit())
	fmt.Printf("Demand / sold      : %d / %d (fresh %d, frozen %d)\n",
		m.Totals.Demand, m.Totals.Sold(), m.Totals.SoldFresh, m.Totals.SoldFrozen)
	fmt.Printf("Stockout units     : %d\n", m.Totals.StockoutUnits)
	fmt.Printf("Donated / wasted   : %d / %d\n", m.Totals.Donated, m.Totals.Wasted)
	fmt.Printf("Frozen / shrink    : %d / %d\n", m.Totals.FrozenMoved, m.Totals.ShrinkLost)
}
