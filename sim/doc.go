// Package sim provides the core day-by-day simulation engine for a single
// retail location's perishable inventory.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - ledger.go: batch pools per (SKU, state) with FIFO-by-expiry consumption
//   - simulator.go: the day loop and the ten-stage per-SKU pipeline
//   - rng.go: the seeded deterministic random source
//
// # Architecture
//
// The sim package owns all mutable run state; pure output types live in
// sub-packages:
//   - sim/trace/: per-day/per-SKU records and run summaries
//   - sim/score/: evaluation of run totals against weighted objectives
//
// One Simulator performs exactly one run. Independent runs share nothing:
// each owns its own Ledger, pending-delivery queue, and RNG, so candidate
// policies can be scored in parallel as long as no RNG is shared.
package sim
