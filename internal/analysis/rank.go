package analysis

import (
	"sort"

	"mana-backtest/internal/backtest"
)

// Variation is one named run to rank, e.g. one seed or one rotation tweak.
type Variation struct {
	Name   string
	Result *backtest.Result
}

type RankedVariation struct {
	Rank       int        `json:"rank"`
	Name       string     `json:"name"`
	Comparison Comparison `json:"comparison"`
}

// RankVariations compares each run and sorts descending by revised total,
// ties broken by name.
func RankVariations(vars []Variation) []RankedVariation {
	out := make([]RankedVariation, 0, len(vars))
	for _, v := range vars {
		out = append(out, RankedVariation{Name: v.Name, Comparison: Compare(v.Result)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Comparison.Revised.Total, out[j].Comparison.Revised.Total
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
