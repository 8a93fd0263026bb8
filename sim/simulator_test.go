package sim

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-sim/retail-sim/sim/trace"
)

// singleItemSim builds a one-SKU simulator with noise disabled unless the
// config overrides it.
func singleItemSim(t *testing.T, item ItemSpec, pol ItemPolicy, cfg SimulationConfig) *Simulator {
	t.Helper()
	catalog, err := NewCatalog([]ItemSpec{item})
	require.NoError(t, err)
	s, err := NewSimulator(catalog, InventoryPolicy{PerSKU: map[string]ItemPolicy{item.SKU: pol}}, cfg)
	require.NoError(t, err)
	return s
}

func TestSimulator_ScenarioA_SingleDaySale(t *testing.T) {
	item := ItemSpec{
		SKU:             "apple",
		UnitCost:        0.5,
		BasePrice:       1.0,
		ShelfLifeDays:   5,
		LeadTimeDays:    1,
		BaseDailyDemand: 50,
		InitialStock:    []StockLot{{Quantity: 100, DaysToExpire: 5}},
	}
	s := singleItemSim(t, item, ItemPolicy{}, SimulationConfig{
		Days: 1, Seed: 1, CountStockouts: true,
	})
	s.Run()

	require.Len(t, s.Trace.Records, 1)
	rec := s.Trace.Records[0]
	assert.Equal(t, 50, rec.Demand)
	assert.Equal(t, 50, rec.SoldFresh)
	assert.Equal(t, 0, rec.SoldFrozen)
	assert.Equal(t, 0, rec.Unmet)
	assert.Equal(t, 0, rec.WastedFresh+rec.WastedFrozen)
	assert.Equal(t, 50, rec.EndingFresh)
	assert.Equal(t, 0, s.Metrics.Totals.StockoutUnits)

	batches := s.Ledger.Batches("apple", StateFresh)
	require.Len(t, batches, 1)
	assert.Equal(t, 4, batches[0].DaysToExpire, "aging must decrement exactly once")
	assert.Equal(t, 50, batches[0].Quantity)
}

func TestSimulator_ScenarioB_ShelfLifeOneWastesUnsoldStock(t *testing.T) {
	item := ItemSpec{
		SKU:           "day-old",
		UnitCost:      1,
		BasePrice:     2,
		ShelfLifeDays: 1,
		InitialStock:  []StockLot{{Quantity: 40, DaysToExpire: 1}},
	}
	s := singleItemSim(t, item, ItemPolicy{}, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	rec := s.Trace.Records[0]
	assert.Equal(t, 0, rec.SoldFresh)
	assert.Equal(t, 40, rec.WastedFresh)
	assert.Equal(t, 0, rec.EndingFresh)
	assert.Equal(t, 40, s.Metrics.Totals.Wasted)
}

func TestSimulator_ScenarioC_MissingPolicyEntryFailsBeforeSimulating(t *testing.T) {
	catalog, err := NewCatalog([]ItemSpec{{SKU: "X", UnitCost: 1, BasePrice: 2, ShelfLifeDays: 3}})
	require.NoError(t, err)

	s, err := NewSimulator(catalog, InventoryPolicy{PerSKU: map[string]ItemPolicy{}}, SimulationConfig{Days: 5, Seed: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"X"`)
	assert.Nil(t, s, "no partial simulation may be returned")
}

func TestSimulator_ZeroNoiseDemandIsExact(t *testing.T) {
	// With a markdown multiplier of 0.5 and elasticity -1, demand doubles:
	// 10 * 0.5^-1 = 20, with no stochastic deviation at stddev 0.
	item := ItemSpec{
		SKU:             "berries",
		UnitCost:        1,
		BasePrice:       4,
		ShelfLifeDays:   5,
		BaseDailyDemand: 10,
		PriceElasticity: -1,
		InitialStock:    []StockLot{{Quantity: 100, DaysToExpire: 2}},
	}
	pol := ItemPolicy{Markdowns: []MarkdownRule{{DaysToExpireAtMost: 2, PriceMultiplier: 0.5}}}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 99})
	s.Run()

	rec := s.Trace.Records[0]
	assert.Equal(t, 0.5, rec.PriceMultiplier)
	assert.Equal(t, 2.0, rec.Price)
	assert.Equal(t, 20, rec.Demand)
	assert.Equal(t, 20, rec.SoldFresh)
}

func TestSimulator_MarkdownDefaultsWhenNoRuleMatches(t *testing.T) {
	// Empty pool prices against the full shelf life; a threshold below it
	// must not fire.
	item := ItemSpec{
		SKU:             "pear",
		UnitCost:        1,
		BasePrice:       3,
		ShelfLifeDays:   5,
		BaseDailyDemand: 10,
	}
	pol := ItemPolicy{Markdowns: []MarkdownRule{{DaysToExpireAtMost: 2, PriceMultiplier: 0.5}}}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	rec := s.Trace.Records[0]
	assert.Equal(t, 1.0, rec.PriceMultiplier)
	assert.Equal(t, 3.0, rec.Price)
}

func TestSimulator_FIFOSellsSoonestExpiringFirst(t *testing.T) {
	item := ItemSpec{
		SKU:             "yogurt",
		UnitCost:        1,
		BasePrice:       2,
		ShelfLifeDays:   5,
		BaseDailyDemand: 20,
		InitialStock: []StockLot{
			{Quantity: 50, DaysToExpire: 5},
			{Quantity: 30, DaysToExpire: 1},
		},
	}
	s := singleItemSim(t, item, ItemPolicy{}, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	// The 1-day lot serves all 20 units; its 10-unit remainder expires at
	// aging, and the 5-day lot is untouched.
	rec := s.Trace.Records[0]
	assert.Equal(t, 20, rec.SoldFresh)
	assert.Equal(t, 10, rec.WastedFresh)
	assert.Equal(t, 50, rec.EndingFresh)

	batches := s.Ledger.Batches("yogurt", StateFresh)
	require.Len(t, batches, 1)
	assert.Equal(t, 4, batches[0].DaysToExpire)
}

func TestSimulator_ReorderPointAndLeadTime(t *testing.T) {
	item := ItemSpec{
		SKU:             "eggs",
		UnitCost:        1,
		BasePrice:       2,
		ShelfLifeDays:   10,
		LeadTimeDays:    2,
		BaseDailyDemand: 25,
		InitialStock:    []StockLot{{Quantity: 30, DaysToExpire: 10}},
	}
	pol := ItemPolicy{ReorderPoint: 10, OrderUpTo: 50}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 4, Seed: 1, CountStockouts: true})
	s.Run()

	recs := s.Trace.Records
	require.Len(t, recs, 4)

	// Day 1: 30 - 25 = 5 <= R, so (U - 5) = 45 units are ordered.
	assert.Equal(t, 5, recs[0].EndingFresh)
	assert.Equal(t, 0, recs[0].Arrived)

	// Day 2: nothing arrives yet (lead time 2); demand goes mostly unmet
	// and a second order for the full 50 is placed.
	assert.Equal(t, 0, recs[1].Arrived)
	assert.Equal(t, 5, recs[1].SoldFresh)
	assert.Equal(t, 20, recs[1].Unmet)

	// Day 3: the day-1 order lands after exactly two days.
	assert.Equal(t, 45, recs[2].Arrived)
	assert.Equal(t, 25, recs[2].SoldFresh)
	assert.Equal(t, 20, recs[2].EndingFresh)

	// Day 4: the day-2 order lands.
	assert.Equal(t, 50, recs[3].Arrived)

	assert.Equal(t, 20, s.Metrics.Totals.StockoutUnits)
}

func TestSimulator_FreezeConversion(t *testing.T) {
	item := ItemSpec{
		SKU:                   "salmon",
		UnitCost:              4,
		BasePrice:             9,
		ShelfLifeDays:         4,
		Freezable:             true,
		FreezeUnitCost:        0.5,
		FrozenShelfLifeDays:   30,
		FrozenPriceMultiplier: 0.8,
		InitialStock: []StockLot{
			{Quantity: 8, DaysToExpire: 1},
			{Quantity: 12, DaysToExpire: 3},
		},
	}
	pol := ItemPolicy{FreezeThresholdDays: 2, FreezeDailyCap: 10}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	// Only the 8 units within the threshold move, despite the cap of 10.
	rec := s.Trace.Records[0]
	assert.Equal(t, 8, rec.FrozenMoved)
	assert.Equal(t, 4.0, rec.FreezeCost)
	assert.Equal(t, 12, rec.EndingFresh)
	assert.Equal(t, 8, rec.EndingFrozen)

	frozen := s.Ledger.Batches("salmon", StateFrozen)
	require.Len(t, frozen, 1)
	// Frozen shelf life resets to the frozen value (29 after aging).
	assert.Equal(t, 29, frozen[0].DaysToExpire)
}

func TestSimulator_DonationFloorAndThreshold(t *testing.T) {
	item := ItemSpec{
		SKU:           "greens",
		UnitCost:      1,
		BasePrice:     2,
		ShelfLifeDays: 5,
		InitialStock: []StockLot{
			{Quantity: 7, DaysToExpire: 1},
			{Quantity: 10, DaysToExpire: 5},
		},
	}
	pol := ItemPolicy{DonationThresholdDays: 1, DonationFraction: 0.5}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	// Eligible = 7, donate floor(7 * 0.5) = 3, all from the near-expiry lot.
	rec := s.Trace.Records[0]
	assert.Equal(t, 3, rec.Donated)
	assert.Equal(t, 4, rec.WastedFresh, "undonated near-expiry remainder expires")
	assert.Equal(t, 10, rec.EndingFresh)
}

func TestSimulator_FrozenStockServesUnmetDemand(t *testing.T) {
	item := ItemSpec{
		SKU:                   "salmon",
		UnitCost:              4,
		BasePrice:             10,
		ShelfLifeDays:         4,
		BaseDailyDemand:       12,
		Freezable:             true,
		FrozenShelfLifeDays:   30,
		FrozenPriceMultiplier: 0.8,
		InitialStock:          []StockLot{{Quantity: 15, DaysToExpire: 1}},
	}
	// Freeze 10 units first, leaving 5 fresh for a demand of 12.
	pol := ItemPolicy{FreezeThresholdDays: 1, FreezeDailyCap: 10}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 1, CountStockouts: true})
	s.Run()

	rec := s.Trace.Records[0]
	assert.Equal(t, 10, rec.FrozenMoved)
	assert.Equal(t, 5, rec.SoldFresh)
	assert.Equal(t, 7, rec.SoldFrozen)
	assert.Equal(t, 0, rec.Unmet)
	// Revenue: 5 at base price, 7 at the frozen price 10 * 0.8.
	assert.InDelta(t, 5*10.0+7*8.0, rec.Revenue, 1e-9)
}

func TestSimulator_ShrinkRemovesFreshFirst(t *testing.T) {
	item := ItemSpec{
		SKU:                   "mince",
		UnitCost:              2,
		BasePrice:             5,
		ShelfLifeDays:         4,
		ShrinkRate:            0.5,
		Freezable:             true,
		FrozenShelfLifeDays:   20,
		FrozenPriceMultiplier: 0.9,
		InitialStock:          []StockLot{{Quantity: 10, DaysToExpire: 1}},
	}
	// Move 6 units frozen, keep 4 fresh: shrink = floor(10 * 0.5) = 5,
	// taking all 4 fresh then 1 frozen.
	pol := ItemPolicy{FreezeThresholdDays: 1, FreezeDailyCap: 6}
	s := singleItemSim(t, item, pol, SimulationConfig{Days: 1, Seed: 1})
	s.Run()

	rec := s.Trace.Records[0]
	assert.Equal(t, 6, rec.FrozenMoved)
	assert.Equal(t, 4, rec.ShrinkFresh)
	assert.Equal(t, 1, rec.ShrinkFrozen)
	assert.Equal(t, 0, rec.EndingFresh)
	assert.Equal(t, 5, rec.EndingFrozen)
}

// richCatalog exercises every pipeline stage at once for the conservation
// and determinism properties.
func richCatalog(t *testing.T) (*Catalog, InventoryPolicy) {
	t.Helper()
	catalog, err := NewCatalog([]ItemSpec{
		{
			SKU: "milk", UnitCost: 0.6, BasePrice: 1.2, ShelfLifeDays: 7, LeadTimeDays: 1,
			BaseDailyDemand: 40, PriceElasticity: -1.5, ShrinkRate: 0.02,
			InitialStock: []StockLot{{Quantity: 80, DaysToExpire: 7}, {Quantity: 20, DaysToExpire: 2}},
		},
		{
			SKU: "salmon", UnitCost: 4, BasePrice: 9, ShelfLifeDays: 4, LeadTimeDays: 2,
			BaseDailyDemand: 15, PriceElasticity: -2, ShrinkRate: 0.03,
			Freezable: true, FreezeUnitCost: 0.25, FrozenShelfLifeDays: 30, FrozenPriceMultiplier: 0.8,
			InitialStock: []StockLot{{Quantity: 40, DaysToExpire: 4}},
		},
	})
	require.NoError(t, err)
	policy := InventoryPolicy{PerSKU: map[string]ItemPolicy{
		"milk": {
			ReorderPoint: 30, OrderUpTo: 120,
			Markdowns:             []MarkdownRule{{DaysToExpireAtMost: 2, PriceMultiplier: 0.5}},
			DonationThresholdDays: 1, DonationFraction: 0.5,
		},
		"salmon": {
			ReorderPoint: 12, OrderUpTo: 45,
			Markdowns:           []MarkdownRule{{DaysToExpireAtMost: 1, PriceMultiplier: 0.4}},
			FreezeThresholdDays: 1, FreezeDailyCap: 10,
		},
	}}
	return catalog, policy
}

func TestSimulator_ConservationIdentities(t *testing.T) {
	catalog, policy := richCatalog(t)
	cfg := SimulationConfig{
		Days: 30, Seed: 7,
		HoldingCostRate: 0.01, WasteDisposalRate: 0.05,
		DemandNoiseStdDev: 0.3, CountStockouts: true,
	}
	s, err := NewSimulator(catalog, policy, cfg)
	require.NoError(t, err)
	s.Run()

	require.Len(t, s.Trace.Records, 30*2)
	for _, rec := range s.Trace.Records {
		freshIn := rec.StartingFresh + rec.Arrived
		freshOut := rec.EndingFresh + rec.SoldFresh + rec.Donated + rec.FrozenMoved + rec.ShrinkFresh + rec.WastedFresh
		assert.Equal(t, freshIn, freshOut,
			"fresh conservation broken: day %d sku %s (%+v)", rec.Day, rec.SKU, rec)

		frozenIn := rec.StartingFrozen + rec.FrozenMoved
		frozenOut := rec.EndingFrozen + rec.SoldFrozen + rec.ShrinkFrozen + rec.WastedFrozen
		assert.Equal(t, frozenIn, frozenOut,
			"frozen conservation broken: day %d sku %s (%+v)", rec.Day, rec.SKU, rec)
	}

	// Ending positions carry over as the next day's starting positions.
	byDaySKU := make(map[int]map[string]trace.DayRecord)
	for _, rec := range s.Trace.Records {
		if byDaySKU[rec.Day] == nil {
			byDaySKU[rec.Day] = make(map[string]trace.DayRecord)
		}
		byDaySKU[rec.Day][rec.SKU] = rec
	}
	for day := 1; day < 30; day++ {
		for sku, rec := range byDaySKU[day] {
			next := byDaySKU[day+1][sku]
			assert.Equal(t, rec.EndingFresh, next.StartingFresh, "day %d sku %s", day, sku)
			assert.Equal(t, rec.EndingFrozen, next.StartingFrozen, "day %d sku %s", day, sku)
		}
	}
}

func TestSimulator_Determinism(t *testing.T) {
	catalog, policy := richCatalog(t)
	cfg := SimulationConfig{
		Days: 20, Seed: 12345,
		HoldingCostRate: 0.01, WasteDisposalRate: 0.05,
		DemandNoiseStdDev: 0.25, CountStockouts: true,
	}

	run := func() ([]byte, Totals) {
		s, err := NewSimulator(catalog, policy, cfg)
		require.NoError(t, err)
		s.Run()
		data, err := json.Marshal(s.Trace)
		require.NoError(t, err)
		return data, s.Metrics.Totals
	}

	trace1, totals1 := run()
	trace2, totals2 := run()

	assert.Equal(t, trace1, trace2, "identical inputs must yield byte-identical traces")
	assert.Equal(t, totals1, totals2)
}

func TestSimulator_DifferentSeedsDiverge(t *testing.T) {
	catalog, policy := richCatalog(t)
	base := SimulationConfig{
		Days: 20, Seed: 1, DemandNoiseStdDev: 0.25, CountStockouts: true,
	}

	s1, err := NewSimulator(catalog, policy, base)
	require.NoError(t, err)
	s1.Run()

	other := base
	other.Seed = 2
	s2, err := NewSimulator(catalog, policy, other)
	require.NoError(t, err)
	s2.Run()

	assert.NotEqual(t, s1.Metrics.Totals, s2.Metrics.Totals)
}

func TestSimulator_FinancialRollup(t *testing.T) {
	item := ItemSpec{
		SKU:             "apple",
		UnitCost:        0.5,
		BasePrice:       1.0,
		ShelfLifeDays:   5,
		BaseDailyDemand: 50,
		InitialStock:    []StockLot{{Quantity: 100, DaysToExpire: 5}},
	}
	s := singleItemSim(t, item, ItemPolicy{}, SimulationConfig{
		Days: 1, Seed: 1, HoldingCostRate: 0.01,
	})
	s.Run()

	rec := s.Trace.Records[0]
	assert.InDelta(t, 50.0, rec.Revenue, 1e-9)
	assert.InDelta(t, 25.0, rec.COGS, 1e-9)
	assert.InDelta(t, 0.5, rec.HoldingCost, 1e-9)
	assert.InDelta(t, 24.5, s.Metrics.Totals.Profit(), 1e-9)
}

func TestSimulator_InvalidConfigRejected(t *testing.T) {
	catalog, policy := richCatalog(t)

	_, err := NewSimulator(catalog, policy, SimulationConfig{Days: 0, Seed: 1})
	assert.Error(t, err)

	_, err = NewSimulator(catalog, policy, SimulationConfig{Days: 5, Seed: 1, DemandNoiseStdDev: -0.1})
	assert.Error(t, err)
}
