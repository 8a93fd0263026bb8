package trace

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates run-level statistics from a RunTrace.
type Summary struct {
	Days int `json:"days"`
	SKUs int `json:"skus"`

	MeanDailyProfit   float64 `json:"mean_daily_profit"`
	StdDevDailyProfit float64 `json:"std_dev_daily_profit"`
	P50DailyProfit    float64 `json:"p50_daily_profit"`
	P95DailyProfit    float64 `json:"p95_daily_profit"`

	TotalRevenue float64 `json:"total_revenue"`
	TotalProfit  float64 `json:"total_profit"`
	TotalSold    int     `json:"total_sold"`
	TotalWasted  int     `json:"total_wasted"`
	TotalDonated int     `json:"total_donated"`
	TotalUnmet   int     `json:"total_unmet"`
}

// Summarize computes aggregate statistics from a RunTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(rt *RunTrace) *Summary {
	summary := &Summary{}
	if rt == nil || len(rt.Records) == 0 {
		return summary
	}

	skus := make(map[string]bool)
	dailyProfit := make(map[int]float64)
	for _, r := range rt.Records {
		skus[r.SKU] = true
		dailyProfit[r.Day] += r.Profit()
		summary.TotalRevenue += r.Revenue
		summary.TotalProfit += r.Profit()
		summary.TotalSold += r.SoldFresh + r.SoldFrozen
		summary.TotalWasted += r.WastedFresh + r.WastedFrozen
		summary.TotalDonated += r.Donated
		summary.TotalUnmet += r.Unmet
	}
	summary.Days = len(dailyProfit)
	summary.SKUs = len(skus)

	profits := make([]float64, 0, len(dailyProfit))
	for _, p := range dailyProfit {
		profits = append(profits, p)
	}
	sort.Float64s(profits)

	summary.MeanDailyProfit = stat.Mean(profits, nil)
	if len(profits) > 1 {
		summary.StdDevDailyProfit = stat.StdDev(profits, nil)
	}
	summary.P50DailyProfit = stat.Quantile(0.5, stat.Empirical, profits, nil)
	summary.P95DailyProfit = stat.Quantile(0.95, stat.Empirical, profits, nil)

	return summary
}
