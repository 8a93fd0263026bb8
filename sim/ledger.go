package sim

import "sort"

// poolKey scopes a batch pool to one (SKU, state) pair.
type poolKey struct {
	sku   string
	state BatchState
}

// Ledger holds every inventory batch of the store, grouped per (SKU, state)
// pair. Each pool is an indexable slice kept sorted by DaysToExpire
// ascending, so FIFO-by-expiry consumption is a front-to-back scan and
// pruning compacts the slice in place.
//
// Exclusively owned by one Simulator for the duration of a run.
type Ledger struct {
	pools map[poolKey][]InventoryBatch
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{pools: make(map[poolKey][]InventoryBatch)}
}

// Add inserts a batch into its (SKU, state) pool, keeping expiry order.
// Batches with non-positive quantity are dropped.
func (l *Ledger) Add(b InventoryBatch) {
	if b.Quantity <= 0 {
		return
	}
	key := poolKey{sku: b.SKU, state: b.State}
	pool := append(l.pools[key], b)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].DaysToExpire < pool[j].DaysToExpire
	})
	l.pools[key] = pool
}

// OnHand returns the total quantity held for a (SKU, state) pair.
func (l *Ledger) OnHand(sku string, state BatchState) int {
	total := 0
	for _, b := range l.pools[poolKey{sku: sku, state: state}] {
		total += b.Quantity
	}
	return total
}

// MinDaysToExpire returns the smallest remaining shelf life in the pool,
// and false when the pool is empty.
func (l *Ledger) MinDaysToExpire(sku string, state BatchState) (int, bool) {
	pool := l.pools[poolKey{sku: sku, state: state}]
	if len(pool) == 0 {
		return 0, false
	}
	return pool[0].DaysToExpire, true
}

// Take removes up to amount units from the pool, consuming soonest-expiring
// batches first, and returns the quantity actually removed (<= amount).
// Emptied batches are pruned.
func (l *Ledger) Take(sku string, state BatchState, amount int) int {
	return l.TakeExpiringWithin(sku, state, amount, -1)
}

// TakeExpiringWithin removes up to amount units, soonest-expiring first,
// considering only batches with DaysToExpire <= maxDaysToExpire. A negative
// maxDaysToExpire disables the threshold. Returns the quantity removed.
func (l *Ledger) TakeExpiringWithin(sku string, state BatchState, amount, maxDaysToExpire int) int {
	if amount <= 0 {
		return 0
	}
	key := poolKey{sku: sku, state: state}
	pool := l.pools[key]
	taken := 0
	kept := pool[:0]
	for i := range pool {
		b := pool[i]
		eligible := maxDaysToExpire < 0 || b.DaysToExpire <= maxDaysToExpire
		if taken < amount && eligible {
			take := min(b.Quantity, amount-taken)
			taken += take
			b.Quantity -= take
		}
		if b.Quantity > 0 {
			kept = append(kept, b)
		}
	}
	l.pools[key] = kept
	return taken
}

// QuantityExpiringWithin returns the total quantity in batches with
// DaysToExpire <= maxDaysToExpire.
func (l *Ledger) QuantityExpiringWithin(sku string, state BatchState, maxDaysToExpire int) int {
	total := 0
	for _, b := range l.pools[poolKey{sku: sku, state: state}] {
		if b.DaysToExpire <= maxDaysToExpire {
			total += b.Quantity
		}
	}
	return total
}

// Age decrements DaysToExpire by one on every remaining batch of the SKU,
// in both states, and removes batches reaching <= 0. Returns the wasted
// quantity per state. Called exactly once per SKU per day.
func (l *Ledger) Age(sku string) (wastedFresh, wastedFrozen int) {
	wastedFresh = l.ageState(sku, StateFresh)
	wastedFrozen = l.ageState(sku, StateFrozen)
	return wastedFresh, wastedFrozen
}

func (l *Ledger) ageState(sku string, state BatchState) int {
	key := poolKey{sku: sku, state: state}
	pool := l.pools[key]
	wasted := 0
	kept := pool[:0]
	for i := range pool {
		b := pool[i]
		b.DaysToExpire--
		if b.DaysToExpire <= 0 {
			wasted += b.Quantity
			continue
		}
		kept = append(kept, b)
	}
	l.pools[key] = kept
	return wasted
}

// Batches returns a copy of the pool for inspection, sorted by expiry.
func (l *Ledger) Batches(sku string, state BatchState) []InventoryBatch {
	pool := l.pools[poolKey{sku: sku, state: state}]
	out := make([]InventoryBatch, len(pool))
	copy(out, pool)
	return out
}
