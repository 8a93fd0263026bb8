package sim

// BatchState distinguishes the two disjoint inventory pools a SKU can hold.
type BatchState string

const (
	// StateFresh is regular perishable stock aging toward expiry.
	StateFresh BatchState = "fresh"
	// StateFrozen is stock converted to frozen storage with its own,
	// longer shelf life. Frozen stock is never re-frozen.
	StateFrozen BatchState = "frozen"
)

// InventoryBatch is one lot of stock with a shared remaining shelf life.
// A batch present in the ledger always has Quantity > 0; emptied batches
// are pruned immediately.
type InventoryBatch struct {
	SKU          string     `json:"sku"`
	Quantity     int        `json:"quantity"`
	DaysToExpire int        `json:"days_to_expire"`
	State        BatchState `json:"state"`
}

// PendingDelivery is a replenishment order in flight. The driver decrements
// DaysUntilArrival once per day before the per-SKU pipeline runs; at <= 0
// the delivery arrives as a fresh batch at full shelf life.
type PendingDelivery struct {
	SKU              string `json:"sku"`
	Quantity         int    `json:"quantity"`
	DaysUntilArrival int    `json:"days_until_arrival"`
}
