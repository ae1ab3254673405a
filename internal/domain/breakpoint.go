package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MaxIndex is the top of the AQI scale. Sub-indices are capped here.
const MaxIndex = 500

// Breakpoint is one linear segment of a pollutant's AQI curve.
type Breakpoint struct {
	CLow  decimal.Decimal
	CHigh decimal.Decimal
	ILow  int
	IHigh int
}

func bp(cLow, cHigh string, iLow, iHigh int) Breakpoint {
	return Breakpoint{
		CLow:  decimal.RequireFromString(cLow),
		CHigh: decimal.RequireFromString(cHigh),
		ILow:  iLow,
		IHigh: iHigh,
	}
}

// EPA breakpoint tables, May 2024 revision, in regulatory units.
// These arrays are never written after initialization.
var (
	no2Table = [...]Breakpoint{
		bp("0", "53", 0, 50),
		bp("54", "100", 51, 100),
		bp("101", "360", 101, 150),
		bp("361", "649", 151, 200),
		bp("650", "1249", 201, 300),
		bp("1250", "2049", 301, 500),
	}
	so2Table = [...]Breakpoint{
		bp("0", "35", 0, 50),
		bp("36", "75", 51, 100),
		bp("76", "185", 101, 150),
		bp("186", "304", 151, 200),
		bp("305", "604", 201, 300),
		bp("605", "1004", 301, 500),
	}
	coTable = [...]Breakpoint{
		bp("0.0", "4.4", 0, 50),
		bp("4.5", "9.4", 51, 100),
		bp("9.5", "12.4", 101, 150),
		bp("12.5", "15.4", 151, 200),
		bp("15.5", "30.4", 201, 300),
		bp("30.5", "50.4", 301, 500),
	}
	o3Table = [...]Breakpoint{
		bp("0.000", "0.054", 0, 50),
		bp("0.055", "0.070", 51, 100),
		bp("0.071", "0.085", 101, 150),
		bp("0.086", "0.105", 151, 200),
		bp("0.106", "0.200", 201, 300),
		bp("0.201", "0.604", 301, 500),
	}
	pm25Table = [...]Breakpoint{
		bp("0.0", "9.0", 0, 50),
		bp("9.1", "35.4", 51, 100),
		bp("35.5", "55.4", 101, 150),
		bp("55.5", "125.4", 151, 200),
		bp("125.5", "225.4", 201, 300),
		bp("225.5", "325.4", 301, 500),
	}
	pm10Table = [...]Breakpoint{
		bp("0", "54", 0, 50),
		bp("55", "154", 51, 100),
		bp("155", "254", 101, 150),
		bp("255", "354", 151, 200),
		bp("355", "424", 201, 300),
		bp("425", "604", 301, 500),
	}
)

// table returns the backing table for p without copying. Callers inside the
// package must not modify the result.
func table(p Pollutant) []Breakpoint {
	switch p {
	case NO2:
		return no2Table[:]
	case SO2:
		return so2Table[:]
	case CO:
		return coTable[:]
	case O3:
		return o3Table[:]
	case PM25:
		return pm25Table[:]
	case PM10:
		return pm10Table[:]
	default:
		return nil
	}
}

// Breakpoints returns a copy of the breakpoint table for p, or nil for an
// unknown pollutant.
func Breakpoints(p Pollutant) []Breakpoint {
	t := table(p)
	if t == nil {
		return nil
	}
	out := make([]Breakpoint, len(t))
	copy(out, t)
	return out
}

// TopOfScale returns the highest concentration in p's table (the CHigh of
// the last bracket). Severity ratios are expressed against it.
func TopOfScale(p Pollutant) decimal.Decimal {
	t := table(p)
	if len(t) == 0 {
		return decimal.Zero
	}
	return t[len(t)-1].CHigh
}

// CheckBreakpointTables verifies the structural invariants of every table:
// ranges start at zero, are contiguous at the pollutant's resolution, and both
// concentration and index bounds increase strictly, ending at MaxIndex.
// It returns one error per violation.
func CheckBreakpointTables() []error {
	var errs []error
	for _, p := range Pollutants {
		errs = append(errs, checkTable(p, table(p))...)
	}
	return errs
}

func checkTable(p Pollutant, t []Breakpoint) []error {
	if len(t) == 0 {
		return []error{fmt.Errorf("%s: empty breakpoint table", p)}
	}

	var errs []error
	step := decimal.New(1, -p.Precision())

	if !t[0].CLow.IsZero() || t[0].ILow != 0 {
		errs = append(errs, fmt.Errorf("%s: table must start at concentration 0 and index 0", p))
	}
	if last := t[len(t)-1]; last.IHigh != MaxIndex {
		errs = append(errs, fmt.Errorf("%s: table must end at index %d, got %d", p, MaxIndex, last.IHigh))
	}

	for i, b := range t {
		if !b.CLow.LessThan(b.CHigh) {
			errs = append(errs, fmt.Errorf("%s[%d]: CLow %s not below CHigh %s", p, i, b.CLow, b.CHigh))
		}
		if b.ILow >= b.IHigh {
			errs = append(errs, fmt.Errorf("%s[%d]: ILow %d not below IHigh %d", p, i, b.ILow, b.IHigh))
		}
		if i == 0 {
			continue
		}
		prev := t[i-1]
		if want := prev.CHigh.Add(step); !b.CLow.Equal(want) {
			errs = append(errs, fmt.Errorf("%s[%d]: CLow %s, want %s", p, i, b.CLow, want))
		}
		if b.ILow != prev.IHigh+1 {
			errs = append(errs, fmt.Errorf("%s[%d]: ILow %d, want %d", p, i, b.ILow, prev.IHigh+1))
		}
	}
	return errs
}
