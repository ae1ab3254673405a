package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Peak returns the daily representative concentration for a reading series:
// its maximum. An empty series yields 0.
func Peak(readings []float64) float64 {
	if len(readings) == 0 {
		return 0
	}
	peak := readings[0]
	for _, v := range readings[1:] {
		if v > peak {
			peak = v
		}
	}
	return peak
}

// Normalize converts a raw sensor value into the unit of p's breakpoint table.
// Sensors report every gas in ppb; the CO and O3 tables are in ppm, so those
// two are divided by 1000. Particulates already arrive in µg/m³.
// Non-finite input normalizes to 0.
func Normalize(p Pollutant, raw float64) decimal.Decimal {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return decimal.Zero
	}
	c := decimal.NewFromFloat(raw)
	if pollutantTraits[p].ppbToPPM {
		c = c.Shift(-3)
	}
	return c
}

// Truncate drops digits beyond p's regulatory precision. It never rounds:
// 9.09 µg/m³ of PM2.5 becomes 9.0, not 9.1. Negative values become 0.
func Truncate(p Pollutant, c decimal.Decimal) decimal.Decimal {
	if c.IsNegative() {
		return decimal.Zero
	}
	return c.Truncate(p.Precision())
}

// PrepareConcentration normalizes then truncates a raw peak, producing the
// value looked up in the breakpoint table.
func PrepareConcentration(p Pollutant, raw float64) decimal.Decimal {
	return Truncate(p, Normalize(p, raw))
}
