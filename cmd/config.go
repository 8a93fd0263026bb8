package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	sim "github.com/retail-sim/retail-sim/sim"
	"github.com/retail-sim/retail-sim/sim/score"
)

// CatalogFile is the YAML layout of a catalog file.
type CatalogFile struct {
	Items []CatalogItem `yaml:"items"`
}

// CatalogItem mirrors sim.ItemSpec with YAML field names.
type CatalogItem struct {
	SKU                   string     `yaml:"sku"`
	UnitCost              float64    `yaml:"unit_cost"`
	BasePrice             float64    `yaml:"base_price"`
	ShelfLifeDays         int        `yaml:"shelf_life_days"`
	LeadTimeDays          int        `yaml:"lead_time_days"`
	BaseDailyDemand       float64    `yaml:"base_daily_demand"`
	PriceElasticity       float64    `yaml:"price_elasticity"`
	ShrinkRate            float64    `yaml:"shrink_rate"`
	Freezable             bool       `yaml:"freezable"`
	FreezeUnitCost        float64    `yaml:"freeze_unit_cost"`
	FrozenShelfLifeDays   int        `yaml:"frozen_shelf_life_days"`
	FrozenPriceMultiplier float64    `yaml:"frozen_price_multiplier"`
	InitialStock          []StockLot `yaml:"initial_stock"`
}

// StockLot is an opening fresh inventory position.
type StockLot struct {
	Quantity     int `yaml:"quantity"`
	DaysToExpire int `yaml:"days_to_expire"`
}

// PolicyFile is the YAML layout of a policy file.
type PolicyFile struct {
	PerSKU map[string]PolicyItem `yaml:"per_sku"`
}

// PolicyItem mirrors sim.ItemPolicy with YAML field names.
type PolicyItem struct {
	ReorderPoint          int            `yaml:"reorder_point"`
	OrderUpTo             int            `yaml:"order_up_to"`
	Markdowns             []MarkdownRule `yaml:"markdowns"`
	DonationThresholdDays int            `yaml:"donation_threshold_days"`
	DonationFraction      float64        `yaml:"donation_fraction"`
	FreezeThresholdDays   int            `yaml:"freeze_threshold_days"`
	FreezeDailyCap        int            `yaml:"freeze_daily_cap"`
}

// MarkdownRule is a (remaining shelf life threshold, price multiplier) pair.
type MarkdownRule struct {
	DaysToExpireAtMost int     `yaml:"days_to_expire_at_most"`
	PriceMultiplier    float64 `yaml:"price_multiplier"`
}

// EvalFile is the YAML layout of an evaluation config file.
type EvalFile struct {
	Targets EvalTargets `yaml:"targets"`
	Weights EvalWeights `yaml:"weights"`
}

type EvalTargets struct {
	ProfitPerDay float64 `yaml:"profit_per_day"`
	WasteRate    float64 `yaml:"waste_rate"`
	FillRate     float64 `yaml:"fill_rate"`
	DonationRate float64 `yaml:"donation_rate"`
}

type EvalWeights struct {
	Profit   float64 `yaml:"profit"`
	Waste    float64 `yaml:"waste"`
	Fill     float64 `yaml:"fill"`
	Donation float64 `yaml:"donation"`
}

// decodeStrict parses YAML with strict field checking, so typos in config
// files cause errors instead of silently-zero fields.
func decodeStrict(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// LoadCatalog reads and validates a catalog YAML file.
func LoadCatalog(path string) (*sim.Catalog, error) {
	var file CatalogFile
	if err := decodeStrict(path, &file); err != nil {
		return nil, err
	}
	items := make([]sim.ItemSpec, 0, len(file.Items))
	for _, it := range file.Items {
		spec := sim.ItemSpec{
			SKU:                   it.SKU,
			UnitCost:              it.UnitCost,
			BasePrice:             it.BasePrice,
			ShelfLifeDays:         it.ShelfLifeDays,
			LeadTimeDays:          it.LeadTimeDays,
			BaseDailyDemand:       it.BaseDailyDemand,
			PriceElasticity:       it.PriceElasticity,
			ShrinkRate:            it.ShrinkRate,
			Freezable:             it.Freezable,
			FreezeUnitCost:        it.FreezeUnitCost,
			FrozenShelfLifeDays:   it.FrozenShelfLifeDays,
			FrozenPriceMultiplier: it.FrozenPriceMultiplier,
		}
		for _, lot := range it.InitialStock {
			spec.InitialStock = append(spec.InitialStock, sim.StockLot{
				Quantity:     lot.Quantity,
				DaysToExpire: lot.DaysToExpire,
			})
		}
		items = append(items, spec)
	}
	return sim.NewCatalog(items)
}

// LoadPolicy reads a policy YAML file.
func LoadPolicy(path string) (sim.InventoryPolicy, error) {
	var file PolicyFile
	if err := decodeStrict(path, &file); err != nil {
		return sim.InventoryPolicy{}, err
	}
	policy := sim.InventoryPolicy{PerSKU: make(map[string]sim.ItemPolicy, len(file.PerSKU))}
	for sku, p := range file.PerSKU {
		ip := sim.ItemPolicy{
			ReorderPoint:          p.ReorderPoint,
			OrderUpTo:             p.OrderUpTo,
			DonationThresholdDays: p.DonationThresholdDays,
			DonationFraction:      p.DonationFraction,
			FreezeThresholdDays:   p.FreezeThresholdDays,
			FreezeDailyCap:        p.FreezeDailyCap,
		}
		for _, rule := range p.Markdowns {
			ip.Markdowns = append(ip.Markdowns, sim.MarkdownRule{
				DaysToExpireAtMost: rule.DaysToExpireAtMost,
				PriceMultiplier:    rule.PriceMultiplier,
			})
		}
		policy.PerSKU[sku] = ip
	}
	return policy, nil
}

// LoadEvalConfig reads an evaluation config YAML file.
func LoadEvalConfig(path string) (score.Config, error) {
	var file EvalFile
	if err := decodeStrict(path, &file); err != nil {
		return score.Config{}, err
	}
	return score.Config{
		ProfitPerDayTarget: file.Targets.ProfitPerDay,
		WasteRateTarget:    file.Targets.WasteRate,
		FillRateTarget:     file.Targets.FillRate,
		DonationRateTarget: file.Targets.DonationRate,
		ProfitWeight:       file.Weights.Profit,
		WasteWeight:        file.Weights.Waste,
		FillWeight:         file.Weights.Fill,
		DonationWeight:     file.Weights.Donation,
	}, nil
}
