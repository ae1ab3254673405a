package domain

// Pollutant identifies one of the six criteria pollutants covered by the AQI.
type Pollutant string

const (
	NO2  Pollutant = "NO2"
	SO2  Pollutant = "SO2"
	CO   Pollutant = "CO"
	O3   Pollutant = "O3"
	PM25 Pollutant = "PM2.5"
	PM10 Pollutant = "PM10"
)

// Unit is the regulatory unit a pollutant's breakpoint table is expressed in.
type Unit string

const (
	UnitPPB  Unit = "ppb"
	UnitPPM  Unit = "ppm"
	UnitUGM3 Unit = "µg/m³"
)

// Pollutants lists every pollutant in canonical order. The same order is the
// last-resort tie-break when two pollutants share both sub-index and severity
// ratio: the earlier entry wins.
var Pollutants = [...]Pollutant{NO2, SO2, CO, O3, PM25, PM10}

// pollutantTrait holds the per-pollutant constants used by normalization and
// truncation.
type pollutantTrait struct {
	unit      Unit
	precision int32 // decimal places kept by truncation
	ppbToPPM  bool  // sensor reports ppb, table expects ppm
}

var pollutantTraits = map[Pollutant]pollutantTrait{
	NO2:  {unit: UnitPPB, precision: 0},
	SO2:  {unit: UnitPPB, precision: 0},
	CO:   {unit: UnitPPM, precision: 1, ppbToPPM: true},
	O3:   {unit: UnitPPM, precision: 3, ppbToPPM: true},
	PM25: {unit: UnitUGM3, precision: 1},
	PM10: {unit: UnitUGM3, precision: 0},
}

// Unit returns the unit of the pollutant's breakpoint table.
func (p Pollutant) Unit() Unit {
	return pollutantTraits[p].unit
}

// Precision returns the number of decimal places kept when truncating.
func (p Pollutant) Precision() int32 {
	return pollutantTraits[p].precision
}

// Valid reports whether p is one of the six known pollutants.
func (p Pollutant) Valid() bool {
	_, ok := pollutantTraits[p]
	return ok
}

func (p Pollutant) String() string { return string(p) }
