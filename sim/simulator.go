// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/retail-sim/retail-sim/sim/trace"
)

// Simulator is the core object that owns one run's state: the day clock,
// the batch ledger, the pending-delivery queue, and the RNG. Strictly
// sequential within a run: days in order, SKUs in catalog order within a
// day. One Simulator performs exactly one run.
type Simulator struct {
	Config  SimulationConfig
	Catalog *Catalog
	Policy  InventoryPolicy

	Ledger  *Ledger
	Pending []PendingDelivery
	Day     int

	Metrics *Metrics
	Trace   *trace.RunTrace

	rng *RNG
	// markdown rules pre-sorted ascending by threshold, per SKU
	markdowns map[string][]MarkdownRule
}

// NewSimulator validates the configuration and builds a ready-to-run
// simulator with opening stock seeded into the ledger. A catalog SKU
// missing from the policy is a fatal configuration error: no partial
// simulation is ever returned.
func NewSimulator(catalog *Catalog, policy InventoryPolicy, cfg SimulationConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	if err := policy.Validate(catalog); err != nil {
		return nil, fmt.Errorf("invalid inventory policy: %w", err)
	}

	s := &Simulator{
		Config:    cfg,
		Catalog:   catalog,
		Policy:    policy,
		Ledger:    NewLedger(),
		Pending:   make([]PendingDelivery, 0),
		Metrics:   NewMetrics(),
		Trace:     trace.NewRunTrace(),
		rng:       NewRNG(cfg.Seed),
		markdowns: make(map[string][]MarkdownRule, len(catalog.Items)),
	}

	for _, it := range catalog.Items {
		s.markdowns[it.SKU] = policy.PerSKU[it.SKU].sortedMarkdowns()
		for _, lot := range it.InitialStock {
			s.Ledger.Add(InventoryBatch{
				SKU:          it.SKU,
				Quantity:     lot.Quantity,
				DaysToExpire: lot.DaysToExpire,
				State:        StateFresh,
			})
		}
	}

	return s, nil
}

// Run simulates every configured day and leaves the accumulated totals in
// s.Metrics and the full per-day/per-SKU trace in s.Trace.
func (s *Simulator) Run() {
	for s.Day = 1; s.Day <= s.Config.Days; s.Day++ {
		s.simulateDay()
	}
	s.Metrics.Days = s.Config.Days
	logrus.Infof("[day %03d] simulation ended, profit=%.2f", s.Config.Days, s.Metrics.Totals.Profit())
}

// simulateDay resolves arriving deliveries, then runs the per-SKU pipeline
// for every SKU in catalog order.
func (s *Simulator) simulateDay() {
	// Opening positions are captured before receipt so each record's
	// conservation identity holds: starting + arrivals = ending + outflows.
	startFresh := make(map[string]int, len(s.Catalog.Items))
	startFrozen := make(map[string]int, len(s.Catalog.Items))
	for _, it := range s.Catalog.Items {
		startFresh[it.SKU] = s.Ledger.OnHand(it.SKU, StateFresh)
		startFrozen[it.SKU] = s.Ledger.OnHand(it.SKU, StateFrozen)
	}

	arrived := s.receiveDeliveries()

	for _, it := range s.Catalog.Items {
		rec := s.runItemDay(it, s.Policy.PerSKU[it.SKU], startFresh[it.SKU], startFrozen[it.SKU], arrived[it.SKU])
		s.Trace.Record(rec)
		s.Metrics.Accumulate(rec, s.Config.CountStockouts)
	}
}

// receiveDeliveries decrements every pending delivery's countdown; any at
// <= 0 arrives as a new fresh batch at full shelf life and leaves the
// queue. Runs once per day, before the per-SKU loop.
func (s *Simulator) receiveDeliveries() map[string]int {
	arrived := make(map[string]int)
	remaining := s.Pending[:0]
	for _, d := range s.Pending {
		d.DaysUntilArrival--
		if d.DaysUntilArrival > 0 {
			remaining = append(remaining, d)
			continue
		}
		it := s.itemBySKU(d.SKU)
		s.Ledger.Add(InventoryBatch{
			SKU:          d.SKU,
			Quantity:     d.Quantity,
			DaysToExpire: it.ShelfLifeDays,
			State:        StateFresh,
		})
		arrived[d.SKU] += d.Quantity
		logrus.Debugf("[day %03d] delivery of %d x %s arrived", s.Day, d.Quantity, d.SKU)
	}
	s.Pending = remaining
	return arrived
}

// runItemDay executes the fixed ten-stage pipeline for one SKU. Later
// stages depend on earlier outcomes; the order models real operational
// sequencing and must not be rearranged.
func (s *Simulator) runItemDay(it ItemSpec, pol ItemPolicy, startFresh, startFrozen, arrivals int) trace.DayRecord {
	rec := trace.DayRecord{
		Day:            s.Day,
		SKU:            it.SKU,
		StartingFresh:  startFresh,
		StartingFrozen: startFrozen,
		Arrived:        arrivals,
	}

	// Stage 2: freeze conversion. Soonest-expiring fresh stock within the
	// threshold moves to the frozen pool, up to the daily cap. Frozen stock
	// is a separate pool and never re-freezes.
	if it.Freezable && pol.FreezeDailyCap > 0 {
		moved := s.Ledger.TakeExpiringWithin(it.SKU, StateFresh, pol.FreezeDailyCap, pol.FreezeThresholdDays)
		if moved > 0 {
			s.Ledger.Add(InventoryBatch{
				SKU:          it.SKU,
				Quantity:     moved,
				DaysToExpire: it.FrozenShelfLifeDays,
				State:        StateFrozen,
			})
			rec.FrozenMoved = moved
		}
	}

	// Stage 3: donation of near-expiry fresh stock.
	if pol.DonationFraction > 0 {
		eligible := s.Ledger.QuantityExpiringWithin(it.SKU, StateFresh, pol.DonationThresholdDays)
		donate := int(math.Floor(float64(eligible) * pol.DonationFraction))
		rec.Donated = s.Ledger.TakeExpiringWithin(it.SKU, StateFresh, donate, pol.DonationThresholdDays)
	}

	// Stage 4: pricing. First markdown rule (ascending by threshold) that
	// covers the soonest remaining fresh expiry wins; default multiplier 1.
	minDays, ok := s.Ledger.MinDaysToExpire(it.SKU, StateFresh)
	if !ok {
		minDays = it.ShelfLifeDays
	}
	multiplier := 1.0
	for _, rule := range s.markdowns[it.SKU] {
		if rule.DaysToExpireAtMost >= minDays {
			multiplier = rule.PriceMultiplier
			break
		}
	}
	price := math.Max(0, it.BasePrice*multiplier)
	rec.PriceMultiplier = multiplier
	rec.Price = price

	// Stage 5: demand realization. The noise draw happens for every SKU on
	// every day so the RNG stream stays aligned across policies.
	noise := math.Max(0, 1+s.rng.Normal(0, s.Config.DemandNoiseStdDev))
	priceEffect := math.Pow(math.Max(0.05, multiplier), it.PriceElasticity)
	expected := math.Max(0, it.BaseDailyDemand) * priceEffect * noise
	demand := int(math.Floor(math.Max(0, expected)))
	rec.Demand = demand

	// Stage 6: fulfillment, fresh first, frozen for the remainder.
	rec.SoldFresh = s.Ledger.Take(it.SKU, StateFresh, demand)
	remainder := demand - rec.SoldFresh
	if remainder > 0 {
		rec.SoldFrozen = s.Ledger.Take(it.SKU, StateFrozen, remainder)
	}
	rec.Unmet = remainder - rec.SoldFrozen
	if rec.Unmet > 0 {
		logrus.Debugf("[day %03d] %s unmet demand %d", s.Day, it.SKU, rec.Unmet)
	}

	// Stage 7: shrink on post-sale on-hand, removed fresh-first.
	onHand := s.Ledger.OnHand(it.SKU, StateFresh) + s.Ledger.OnHand(it.SKU, StateFrozen)
	loss := int(math.Floor(float64(onHand) * it.ShrinkRate))
	if loss > 0 {
		rec.ShrinkFresh = s.Ledger.Take(it.SKU, StateFresh, loss)
		rec.ShrinkFrozen = s.Ledger.Take(it.SKU, StateFrozen, loss-rec.ShrinkFresh)
	}

	// Stage 8: aging. Every remaining batch loses one day; batches at <= 0
	// convert entirely to waste.
	rec.WastedFresh, rec.WastedFrozen = s.Ledger.Age(it.SKU)

	// Stage 9: (s, S) replenishment on post-aging fresh on-hand.
	freshOnHand := s.Ledger.OnHand(it.SKU, StateFresh)
	if freshOnHand <= pol.ReorderPoint {
		qty := pol.OrderUpTo - freshOnHand
		if qty > 0 {
			s.Pending = append(s.Pending, PendingDelivery{
				SKU:              it.SKU,
				Quantity:         qty,
				DaysUntilArrival: it.LeadTimeDays,
			})
			logrus.Debugf("[day %03d] %s reordered %d (lead %dd)", s.Day, it.SKU, qty, it.LeadTimeDays)
		}
	}

	// Stage 10: financial rollup.
	rec.EndingFresh = s.Ledger.OnHand(it.SKU, StateFresh)
	rec.EndingFrozen = s.Ledger.OnHand(it.SKU, StateFrozen)
	rec.Revenue = float64(rec.SoldFresh)*price + float64(rec.SoldFrozen)*it.FrozenPrice()
	rec.COGS = float64(rec.SoldFresh+rec.SoldFrozen) * it.UnitCost
	rec.WasteCost = float64(rec.WastedFresh+rec.WastedFrozen) * s.Config.WasteDisposalRate
	rec.FreezeCost = float64(rec.FrozenMoved) * it.FreezeUnitCost
	rec.HoldingCost = float64(rec.EndingFresh+rec.EndingFrozen) * s.Config.HoldingCostRate

	return rec
}

func (s *Simulator) itemBySKU(sku string) ItemSpec {
	for _, it := range s.Catalog.Items {
		if it.SKU == sku {
			return it
		}
	}
	// Pending deliveries are only ever created from catalog items.
	panic(fmt.Sprintf("pending delivery for unknown SKU %q", sku))
}
