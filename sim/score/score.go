// Package score evaluates final run totals against weighted objectives.
// This package has no dependencies on sim/ — Evaluate is a pure function:
// same totals and config always produce the same result, and the result is
// always finite (all-zero totals yield neutral rates, never NaN).
package score

import "math"

// epsilon floors the weight sum so a fully zero-weighted config still
// produces a defined (zero) score.
const epsilon = 1e-9

// Totals are the run-level sums the evaluator consumes.
type Totals struct {
	Profit   float64 `json:"profit"`
	Days     int     `json:"days"`
	Demand   int     `json:"demand"`
	Sold     int     `json:"sold"`
	Wasted   int     `json:"wasted"`
	Donated  int     `json:"donated"`
	Stockout int     `json:"stockout"`
}

// Config holds the normalization targets and objective weights. A rate at
// its target normalizes to ~0.5; weights are relative, not required to sum
// to 1.
type Config struct {
	ProfitPerDayTarget float64 `json:"profit_per_day_target"`
	WasteRateTarget    float64 `json:"waste_rate_target"`
	FillRateTarget     float64 `json:"fill_rate_target"`
	DonationRateTarget float64 `json:"donation_rate_target"`

	ProfitWeight   float64 `json:"profit_weight"`
	WasteWeight    float64 `json:"waste_weight"`
	FillWeight     float64 `json:"fill_weight"`
	DonationWeight float64 `json:"donation_weight"`
}

// DefaultConfig returns the standard targets and weights used when the
// caller does not supply an evaluation config.
func DefaultConfig() Config {
	return Config{
		ProfitPerDayTarget: 100.0,
		WasteRateTarget:    0.10,
		FillRateTarget:     0.95,
		DonationRateTarget: 0.05,
		ProfitWeight:       0.4,
		WasteWeight:        0.3,
		FillWeight:         0.2,
		DonationWeight:     0.1,
	}
}

// Result is the evaluator output: an overall score in [0,1], the four
// sub-scores, and the four raw rates they were derived from.
type Result struct {
	Score float64 `json:"score"`

	ProfitScore   float64 `json:"profit_score"`
	WasteScore    float64 `json:"waste_score"`
	FillScore     float64 `json:"fill_score"`
	DonationScore float64 `json:"donation_score"`

	ProfitPerDay float64 `json:"profit_per_day"`
	WasteRate    float64 `json:"waste_rate"`
	FillRate     float64 `json:"fill_rate"`
	DonationRate float64 `json:"donation_rate"`
}

// Evaluate maps run totals to normalized sub-scores and one weighted score.
// Denominators are floored at 1 so empty runs stay finite.
func Evaluate(t Totals, cfg Config) Result {
	handled := t.Sold + t.Wasted + t.Donated

	r := Result{
		ProfitPerDay: t.Profit / float64(max(1, t.Days)),
		WasteRate:    float64(t.Wasted) / float64(max(1, handled)),
		FillRate:     1 - float64(t.Stockout)/float64(max(1, t.Demand)),
		DonationRate: float64(t.Donated) / float64(max(1, handled)),
	}

	r.ProfitScore = higherBetter(r.ProfitPerDay, cfg.ProfitPerDayTarget)
	r.WasteScore = lowerBetter(r.WasteRate, cfg.WasteRateTarget)
	r.FillScore = higherBetter(r.FillRate, cfg.FillRateTarget)
	r.DonationScore = higherBetter(r.DonationRate, cfg.DonationRateTarget)

	weightSum := cfg.ProfitWeight + cfg.WasteWeight + cfg.FillWeight + cfg.DonationWeight
	weighted := cfg.ProfitWeight*r.ProfitScore +
		cfg.WasteWeight*r.WasteScore +
		cfg.FillWeight*r.FillScore +
		cfg.DonationWeight*r.DonationScore
	r.Score = clamp01(weighted / math.Max(epsilon, weightSum))

	return r
}

// higherBetter normalizes a higher-is-better value against its target via
// the logistic curve y = 1/(1+e^(-3(x-1))) with x = value/target, so a
// value at target maps to ~0.5. A non-positive target degenerates to a
// step: 1 when the value is on the favorable side of zero, else 0.
func higherBetter(value, target float64) float64 {
	if target <= 0 {
		if value > 0 {
			return 1
		}
		return 0
	}
	x := value / target
	return 1 / (1 + math.Exp(-3*(x-1)))
}

// lowerBetter is the mirrored curve y = 1/(1+e^(3(x-1))) for
// lower-is-better rates (waste).
func lowerBetter(value, target float64) float64 {
	if target <= 0 {
		if value <= 0 {
			return 1
		}
		return 0
	}
	x := value / target
	return 1 / (1 + math.Exp(3*(x-1)))
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
