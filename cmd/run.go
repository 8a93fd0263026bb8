package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/retail-sim/retail-sim/sim"
	"github.com/retail-sim/retail-sim/sim/score"
	"github.com/retail-sim/retail-sim/sim/trace"
)

var (
	// CLI flags for the simulation run
	days              int     // Number of simulated days
	seed              int64   // Seed for demand noise generation
	logLevel          string  // Log verbosity level
	holdingCostRate   float64 // Cost per unit held per day
	wasteDisposalRate float64 // Cost per wasted unit
	demandNoiseStdDev float64 // Stddev of the demand noise factor
	countStockouts    bool    // Whether unmet demand counts as stockout

	// CLI flags for input/output files
	catalogPath string // Catalog YAML (built-in demo catalog when empty)
	policyPath  string // Policy YAML (built-in demo policy when empty)
	evalPath    string // Evaluation config YAML (defaults when empty)
	outPath     string // Result JSON output path ("" = stdout only)
)

// RunReport is the JSON document emitted after a run.
type RunReport struct {
	Seed       int64          `json:"seed"`
	Totals     sim.Totals     `json:"totals"`
	Summary    *trace.Summary `json:"summary"`
	Evaluation score.Result   `json:"evaluation"`
}

// runCmd simulates one policy and evaluates the outcome.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate one inventory policy and score the outcome",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		catalog, policy := loadInputs()
		evalCfg := loadEvalConfig()

		cfg := sim.SimulationConfig{
			Days:              days,
			Seed:              seed,
			HoldingCostRate:   holdingCostRate,
			WasteDisposalRate: wasteDisposalRate,
			DemandNoiseStdDev: demandNoiseStdDev,
			CountStockouts:    countStockouts,
		}

		logrus.Infof("Starting simulation: %d days, %d SKUs, seed=%d", days, len(catalog.Items), seed)

		s, err := sim.NewSimulator(catalog, policy, cfg)
		if err != nil {
			logrus.Fatalf("Configuration error: %v", err)
		}
		s.Run()
		s.Metrics.Print()

		report := RunReport{
			Seed:       seed,
			Totals:     s.Metrics.Totals,
			Summary:    trace.Summarize(s.Trace),
			Evaluation: score.Evaluate(evalTotals(s.Metrics), evalCfg),
		}
		emitReport(report)

		logrus.Info("Simulation complete.")
	},
}

// loadInputs resolves the catalog and policy, falling back to the built-in
// demo configuration when no files are given.
func loadInputs() (*sim.Catalog, sim.InventoryPolicy) {
	catalog := DefaultCatalog()
	policy := DefaultPolicy()
	if catalogPath != "" {
		loaded, err := LoadCatalog(catalogPath)
		if err != nil {
			logrus.Fatalf("Failed to load catalog: %v", err)
		}
		catalog = loaded
	}
	if policyPath != "" {
		loaded, err := LoadPolicy(policyPath)
		if err != nil {
			logrus.Fatalf("Failed to load policy: %v", err)
		}
		policy = loaded
	}
	return catalog, policy
}

func loadEvalConfig() score.Config {
	if evalPath == "" {
		return score.DefaultConfig()
	}
	cfg, err := LoadEvalConfig(evalPath)
	if err != nil {
		logrus.Fatalf("Failed to load eval config: %v", err)
	}
	return cfg
}

// evalTotals maps simulation totals onto the evaluator's input.
func evalTotals(m *sim.Metrics) score.Totals {
	return score.Totals{
		Profit:   m.Totals.Profit(),
		Days:     m.Days,
		Demand:   m.Totals.Demand,
		Sold:     m.Totals.Sold(),
		Wasted:   m.Totals.Wasted,
		Donated:  m.Totals.Donated,
		Stockout: m.Totals.StockoutUnits,
	}
}

func emitReport(report RunReport) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logrus.Fatalf("Failed to marshal report: %v", err)
	}
	fmt.Println(string(data))
	if outPath != "" {
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			logrus.Fatalf("Failed to write report to %s: %v", outPath, err)
		}
		logrus.Infof("Report written to %s", outPath)
	}
}

// init sets up CLI flags and attaches run to root
func init() {
	runCmd.Flags().IntVar(&days, "days", 30, "Number of simulated days")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for demand noise generation")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd.Flags().Float64Var(&holdingCostRate, "holding-cost-rate", 0.01, "Holding cost per unit on hand per day")
	runCmd.Flags().Float64Var(&wasteDisposalRate, "waste-disposal-rate", 0.05, "Disposal cost per wasted unit")
	runCmd.Flags().Float64Var(&demandNoiseStdDev, "demand-noise-stdev", 0.2, "Stddev of the demand noise factor")
	runCmd.Flags().BoolVar(&countStockouts, "count-stockouts", true, "Record unmet demand as stockout units")

	runCmd.Flags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (built-in demo catalog when empty)")
	runCmd.Flags().StringVar(&policyPath, "policy", "", "Policy YAML file (built-in demo policy when empty)")
	runCmd.Flags().StringVar(&evalPath, "eval", "", "Evaluation config YAML file (defaults when empty)")
	runCmd.Flags().StringVar(&outPath, "out", "", "Write the result JSON to this path as well")

	rootCmd.AddCommand(runCmd)
}
