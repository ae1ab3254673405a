package domain

import "github.com/shopspring/decimal"

// SubIndex maps a normalized, truncated concentration to p's 0–500 index.
//
// Inside a bracket the EPA formula applies:
//
//	I = (IHigh-ILow) / (CHigh-CLow) * (C-CLow) + ILow
//
// evaluated in decimal arithmetic and rounded half away from zero.
// Concentrations above the top bracket are capped at MaxIndex rather than
// extrapolated. Anything below the table minimum, or an unknown pollutant,
// yields 0.
func SubIndex(p Pollutant, c decimal.Decimal) int {
	t := table(p)
	if len(t) == 0 || c.LessThan(t[0].CLow) {
		return 0
	}
	if c.GreaterThan(t[len(t)-1].CHigh) {
		return MaxIndex
	}

	for _, b := range t {
		if c.GreaterThan(b.CHigh) {
			continue
		}
		// Only reachable for a value between two brackets, which truncation
		// to the table's resolution rules out.
		if c.LessThan(b.CLow) {
			c = b.CLow
		}
		return interpolate(b, c)
	}
	return MaxIndex
}

func interpolate(b Breakpoint, c decimal.Decimal) int {
	iRange := decimal.NewFromInt(int64(b.IHigh - b.ILow))
	cRange := b.CHigh.Sub(b.CLow)
	index := iRange.Mul(c.Sub(b.CLow)).Div(cRange).Add(decimal.NewFromInt(int64(b.ILow)))
	return int(index.Round(0).IntPart())
}

// PollutantIndex is one pollutant's contribution to a station's AQI.
type PollutantIndex struct {
	Pollutant     Pollutant `json:"pollutant"`
	Peak          float64   `json:"peak"`          // raw sensor units
	Concentration float64   `json:"concentration"` // normalized and truncated
	Unit          Unit      `json:"unit"`
	SubIndex      int       `json:"sub_index"`
	SeverityRatio float64   `json:"severity_ratio"`
}

// Assess runs a raw daily peak through normalization, truncation and
// breakpoint lookup, and computes its severity ratio against the top of p's
// scale.
func Assess(p Pollutant, peak float64) PollutantIndex {
	c := PrepareConcentration(p, peak)
	return PollutantIndex{
		Pollutant:     p,
		Peak:          peak,
		Concentration: c.InexactFloat64(),
		Unit:          p.Unit(),
		SubIndex:      SubIndex(p, c),
		SeverityRatio: severityRatio(p, c),
	}
}

func severityRatio(p Pollutant, c decimal.Decimal) float64 {
	top := TopOfScale(p)
	if top.IsZero() {
		return 0
	}
	return c.Div(top).InexactFloat64()
}
