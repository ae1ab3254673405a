package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row maps a header to its raw cell value: a string, a number, or nil.
type Row map[string]any

// Table is a fully materialized daily file: the header row and the data rows
// beneath it.
type Table struct {
	Header []string `json:"header"`
	Rows   []Row    `json:"rows"`
}

// StationReadings holds every valid reading a station produced for the day,
// grouped by pollutant.
type StationReadings struct {
	Station  string
	Readings map[Pollutant][]float64
}

// ReadingSet is the ingested form of a Table.
type ReadingSet struct {
	// Date is the report date label taken from the first usable row.
	Date string
	// Stations appear in the order their first valid reading was seen.
	Stations []StationReadings
}

type pollutantColumn struct {
	header    string
	station   string
	pollutant Pollutant
}

// Ingest groups a table's numeric cells by station and pollutant.
//
// Rows without a date value are skipped. Only columns whose header carries
// both a pollutant marker and a parenthesized station are read (see
// ParseHeader). Non-numeric cells are dropped, never coerced to 0; negative
// readings are clamped to 0.
func Ingest(t Table) ReadingSet {
	var set ReadingSet

	dateCol, ok := findDateColumn(t.Header)
	if !ok {
		return set
	}

	columns := make([]pollutantColumn, 0, len(t.Header))
	for _, h := range t.Header {
		if station, p, ok := ParseHeader(h); ok {
			columns = append(columns, pollutantColumn{header: h, station: station, pollutant: p})
		}
	}

	index := make(map[string]int)
	for _, row := range t.Rows {
		date := DateLabel(row[dateCol])
		if date == "" {
			continue
		}
		if set.Date == "" {
			set.Date = date
		}

		for _, col := range columns {
			v, ok := ParseReading(row[col.header])
			if !ok {
				continue
			}
			if v < 0 {
				v = 0
			}

			i, seen := index[col.station]
			if !seen {
				i = len(set.Stations)
				index[col.station] = i
				set.Stations = append(set.Stations, StationReadings{
					Station:  col.station,
					Readings: make(map[Pollutant][]float64, len(Pollutants)),
				})
			}
			readings := set.Stations[i].Readings
			readings[col.pollutant] = append(readings[col.pollutant], v)
		}
	}

	return set
}

func findDateColumn(header []string) (string, bool) {
	for _, h := range header {
		if IsDateColumn(h) {
			return h, true
		}
	}
	return "", false
}

// ParseReading converts a raw cell into a reading. Strings and json.Number
// must be plain decimal numbers: Go literal forms such as "1_000" or "0x1p6"
// are rejected. It returns false for empty, non-numeric and non-finite values.
// Negative values are returned as-is; Ingest clamps them.
func ParseReading(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		return parseDecimal(string(x))
	case string:
		return parseDecimal(x)
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// DateLabel returns the date portion of a date cell, verbatim: "2025-01-14
// 08:00" and "2025-01-14T08:00:00Z" both become "2025-01-14". No calendar
// validation is done. Empty cells yield "".
func DateLabel(v any) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.DateOnly)
	default:
		s = fmt.Sprint(x)
	}

	s = strings.TrimSpace(s)
	if before, _, found := strings.Cut(s, " "); found {
		s = before
	}
	if len(s) > 10 && s[10] == 'T' {
		s = s[:10]
	}
	return s
}
