package service

import "math"

// RoundMoney rounds a money amount to 2 decimal places using
// round-half-up. Applied once at the end of each price component so
// repeated rounding cannot drift.
func RoundMoney(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
