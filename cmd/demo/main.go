package main

import (
	"flag"
	"fmt"
	"strings"

	"mana-backtest/internal/backtest"
	"mana-backtest/internal/config"
)

// Demo:
// - Build the default rotation (or one from --config)
// - Run it with perfect timing so the cadences are easy to read
// - Print the first few ticks with both models side by side
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	horizon := flag.Int("horizon", 60, "Number of ticks to simulate")
	n := flag.Int("n", 20, "Number of ticks to print")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/ledger.csv)")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	cfg.Horizon = *horizon
	cfg.Perfect = true

	params, err := backtest.FromConfig(cfg)
	if err != nil {
		panic(err)
	}

	engine := backtest.New()
	result, err := engine.Run(params)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Simulated %d ticks, %d events (rotation=%s)\n", result.Horizon, result.Events, cfg.Rotation.Name)
	fmt.Printf("Offsets: lacerate=%d multihit=%d smoke=%d bloom=%d\n\n",
		result.Offsets.Lacerate, result.Offsets.Multihit, result.Offsets.Smoke, result.Offsets.Bloom)

	for i := 0; i < min(*n, len(result.Rows)); i++ {
		r := result.Rows[i]
		events := make([]string, len(r.Events))
		for j, e := range r.Events {
			events[j] = string(e)
		}
		fmt.Printf(
			"t=%4d  %-32s  legacy=%5s  revised=%5s  cum=%7s / %7s\n",
			r.Tick,
			strings.Join(events, ","),
			r.Legacy.StringFixed(2),
			r.Revised.StringFixed(2),
			r.CumLegacy.StringFixed(2),
			r.CumRevised.StringFixed(2),
		)
	}

	if *outCSV != "" {
		if err := backtest.WriteLedgerCSV(*outCSV, result.Rows); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}

	fmt.Printf("\nDone. Legacy=%s  Revised=%s  Delta=%s\n",
		result.TotalLegacy.StringFixed(2), result.TotalRevised.StringFixed(2), result.Delta().StringFixed(2))
}
