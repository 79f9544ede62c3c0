package model

import "github.com/shopspring/decimal"

// Sequence is a per-tick resource gain, index = tick.
// Values are decimals rounded to 2 places so sums stay exact.
type Sequence []decimal.Decimal

// Sum returns the total gain over the sequence.
func (s Sequence) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

// Cumulative returns the running total at each tick.
func (s Sequence) Cumulative() Sequence {
	out := make(Sequence, len(s))
	cum := decimal.Zero
	for i, v := range s {
		cum = cum.Add(v)
		out[i] = cum
	}
	return out
}

// Max returns the largest per-tick gain, or zero for an empty sequence.
func (s Sequence) Max() decimal.Decimal {
	best := decimal.Zero
	for _, v := range s {
		if v.GreaterThan(best) {
			best = v
		}
	}
	return best
}

// ActiveTicks counts ticks with a positive gain.
func (s Sequence) ActiveTicks() int {
	n := 0
	for _, v := range s {
		if v.IsPositive() {
			n++
		}
	}
	return n
}
