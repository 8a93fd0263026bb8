package sim

import "fmt"

// SimulationConfig groups run-wide parameters.
type SimulationConfig struct {
	Days int   `json:"days"` // number of simulated days (must be > 0)
	Seed int64 `json:"seed"` // RNG seed; same seed => identical trajectory

	HoldingCostRate   float64 `json:"holding_cost_rate"`   // per unit on hand per day
	WasteDisposalRate float64 `json:"waste_disposal_rate"` // per wasted unit
	DemandNoiseStdDev float64 `json:"demand_noise_std_dev"`

	// CountStockouts controls whether unmet demand is recorded as stockout
	// units (and thus penalizes the fill rate).
	CountStockouts bool `json:"count_stockouts"`
}

// Validate checks the numeric ranges of the run configuration.
func (c SimulationConfig) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("simulation needs a positive day count, got %d", c.Days)
	}
	if c.HoldingCostRate < 0 {
		return fmt.Errorf("holding cost rate %v is negative", c.HoldingCostRate)
	}
	if c.WasteDisposalRate < 0 {
		return fmt.Errorf("waste disposal rate %v is negative", c.WasteDisposalRate)
	}
	if c.DemandNoiseStdDev < 0 {
		return fmt.Errorf("demand noise stddev %v is negative", c.DemandNoiseStdDev)
	}
	return nil
}
