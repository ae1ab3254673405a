// Package domain computes the daily Air Quality Index (AQI) report for a city
// from a table of pollutant sensor readings.
//
// # Data Source
//
// Daily files are exported from the city's monitoring network (Pulsonic
// stations) as one row per timestamp and one column per pollutant/station
// pair. The export window runs from 08:00 the previous day to 08:00 on the
// report day. The ingestion layer locates the header row and hands the table
// over unchanged; no calendar parsing happens here.
//
// # Header Conventions
//
// A pollutant column names the pollutant and the station in parentheses:
//
//	"NO2 (Akpakpa)"  →  station "Akpakpa", pollutant NO2
//	"PM2.5 (Fidjrossè) µg/m3"  →  station "Fidjrossè", pollutant PM2.5
//
// Markers are matched case-sensitively in this order: NO2, SO2, CO, O3,
// PM2.5, PM10. The station group is cut out before matching. See [ParseHeader].
//
// The date column is named "date", "datetime" or "timestamp" (any case). Its
// value up to the first space (or the ISO "T") becomes the report date label.
//
// # Units
//
// Sensors report gases in ppb and particulates in µg/m³. The EPA tables use
// ppb for NO2 and SO2, ppm for CO and O3, µg/m³ for PM2.5 and PM10, so CO and
// O3 are divided by 1000 before anything else happens.
//
// # Truncation
//
// After unit conversion, concentrations are truncated (never rounded) to the
// precision of their table:
//
//	NO2, SO2, PM10: integer
//	CO, PM2.5:      1 decimal
//	O3:             3 decimals
//
// Truncation happens before the breakpoint lookup; it decides which bracket a
// value falls in near a boundary.
//
// # Index Computation
//
// Each pollutant's truncated concentration C is mapped onto its bracket
// [CLow, CHigh] → [ILow, IHigh] by linear interpolation, rounded half away
// from zero. Arithmetic is decimal, so 4400 ppb of CO is exactly 4.4 ppm and
// lands on index 50. Concentrations beyond the last bracket are capped at 500.
//
// The station AQI is the maximum of the six sub-indices, never an average.
// The pollutant reaching it is dominant. Ties go to the higher severity ratio
// (concentration ÷ top of that pollutant's scale), then to canonical order
// (NO2, SO2, CO, O3, PM2.5, PM10).
//
// # City Report
//
// Stations are ordered by AQI then severity ratio, both descending. The city
// maximum and the critical station/pollutant come from the first entry; the
// city average is the rounded mean of station AQIs. A table without usable
// rows has no report.
package domain
