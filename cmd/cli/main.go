package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mana-backtest/internal/analysis"
	"mana-backtest/internal/backtest"
	"mana-backtest/internal/config"
	"mana-backtest/internal/data"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "accrue":
		cmdAccrue(os.Args[2:])
	case "compare":
		cmdCompare(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml --out results/ledger.csv --json results/ledger.json")
	fmt.Println("  cli accrue --ledger results/ledger.json")
	fmt.Println("  cli compare --config examples/config.yaml --seeds 1,2,3")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate writes one CSV row per tick with both models' gain and running totals")
	fmt.Println("  - accrue re-runs both models on a saved ledger (gaps are rejected)")
	fmt.Println("  - compare runs one jittered simulation per seed and ranks them by revised total")
}

// loadConfig returns the YAML config at path, or the defaults when path is empty.
func loadConfig(path string) *config.Config {
	if path == "" {
		return config.Default()
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	horizon := fs.Int("horizon", 0, "Override horizon in ticks (0=config)")
	perfect := fs.Bool("perfect", false, "Zero all jitter")
	seed := fs.Int64("seed", 0, "Jitter seed (default: config, else clock)")
	sequential := fs.Bool("sequential", false, "Run generators one after another")
	outPath := fs.String("out", "results/ledger.csv", "Output CSV path (empty to skip)")
	jsonPath := fs.String("json", "", "Optional path to write the raw ledger JSON")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath)
	// CLI flags override config values, but only when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "horizon":
			cfg.Horizon = *horizon
		case "perfect":
			cfg.Perfect = *perfect
		case "seed":
			s := *seed
			cfg.Seed = &s
		}
	})

	params, err := backtest.FromConfig(cfg)
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	params.Sequential = *sequential

	res, err := backtest.New().Run(params)
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}

	if *outPath != "" {
		writeCSV(*outPath, res)
	}
	if *jsonPath != "" {
		ensureDir(*jsonPath)
		if err := data.WriteLedgerJSON(*jsonPath, data.LedgerFile{Horizon: res.Horizon, Ticks: res.Ledger}); err != nil {
			log.Fatalf("simulate: %v", err)
		}
		fmt.Printf("Wrote ledger JSON to %s\n", *jsonPath)
	}

	printSummary(analysis.Compare(res))
}

func cmdAccrue(args []string) {
	fs := flag.NewFlagSet("accrue", flag.ExitOnError)
	ledgerPath := fs.String("ledger", "", "Path to ledger JSON (from simulate --json)")
	horizon := fs.Int("horizon", 0, "Override horizon in ticks (0=file)")
	outPath := fs.String("out", "", "Optional output CSV path")
	_ = fs.Parse(args)

	if *ledgerPath == "" {
		fmt.Println("--ledger is required")
		os.Exit(2)
	}

	f, err := data.LoadLedgerJSON(*ledgerPath)
	if err != nil {
		log.Fatalf("accrue: %v", err)
	}
	h := f.Horizon
	if *horizon != 0 {
		h = *horizon
	}

	res, err := backtest.New().Accrue(f.Ticks, h, nil, nil)
	if err != nil {
		log.Fatalf("accrue: %v", err)
	}
	if *outPath != "" {
		writeCSV(*outPath, res)
	}
	printSummary(analysis.Compare(res))
}

func cmdCompare(args []string) {
	fs := flag.NewFlagSet("compare", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config (optional)")
	seeds := fs.String("seeds", "1,2,3", "Comma-separated jitter seeds")
	horizon := fs.Int("horizon", 0, "Override horizon in ticks (0=config)")
	_ = fs.Parse(args)

	base := loadConfig(*cfgPath)
	if *horizon != 0 {
		base.Horizon = *horizon
	}
	base.Perfect = false

	seedList, err := parseSeeds(*seeds)
	if err != nil {
		log.Fatalf("compare: %v", err)
	}

	engine := backtest.New()
	vars := make([]analysis.Variation, 0, len(seedList))
	for _, s := range seedList {
		cfg := *base
		seed := s
		cfg.Seed = &seed

		params, err := backtest.FromConfig(&cfg)
		if err != nil {
			log.Fatalf("compare: %v", err)
		}
		res, err := engine.Run(params)
		if err != nil {
			log.Fatalf("compare: seed %d: %v", s, err)
		}
		vars = append(vars, analysis.Variation{Name: fmt.Sprintf("seed-%d", s), Result: res})
	}

	ranked := analysis.RankVariations(vars)
	fmt.Printf("%-4s %-12s %-8s %-10s %-10s %-10s %-8s\n", "rank", "name", "events", "legacy", "revised", "delta", "active")
	for _, r := range ranked {
		c := r.Comparison
		fmt.Printf(
			"%-4d %-12s %-8d %-10s %-10s %-10s %-8d\n",
			r.Rank,
			r.Name,
			c.Events,
			c.Legacy.Total.StringFixed(2),
			c.Revised.Total.StringFixed(2),
			c.Delta.StringFixed(2),
			c.ActiveTicks,
		)
	}
}

func writeCSV(path string, res *backtest.Result) {
	ensureDir(path)
	if err := backtest.WriteLedgerCSV(path, res.Rows); err != nil {
		log.Fatalf("write csv: %v", err)
	}
	fmt.Printf("Wrote %d rows to %s\n", len(res.Rows), path)
}

// ensure output dir exists
func ensureDir(path string) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}
}

func printSummary(c analysis.Comparison) {
	fmt.Printf("Horizon=%d Events=%d ActiveTicks=%d\n", c.Horizon, c.Events, c.ActiveTicks)
	if c.Perfect {
		fmt.Println("Jitter: perfect")
	} else if c.Seed != 0 {
		fmt.Printf("Jitter: seed=%d\n", c.Seed)
	}
	fmt.Printf("Offsets: lacerate=%d multihit=%d smoke=%d bloom=%d\n",
		c.Offsets.Lacerate, c.Offsets.Multihit, c.Offsets.Smoke, c.Offsets.Bloom)
	for _, s := range []analysis.ModelSummary{c.Legacy, c.Revised} {
		fmt.Printf("%-8s total=%s mean=%s max=%s p95=%s\n",
			s.Name, s.Total.StringFixed(2), s.Mean.StringFixed(2), s.Max.StringFixed(2), s.P95.StringFixed(2))
	}
	fmt.Printf("Delta (revised-legacy)=%s\n", c.Delta.StringFixed(2))
}

func parseSeeds(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad seed %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no seeds given")
	}
	return out, nil
}
