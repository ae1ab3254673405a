package domain

import (
	"regexp"
	"strings"
)

var (
	// stationRe matches the first parenthesized group of a column header,
	// e.g. "PM2.5 (Akpakpa) µg/m3" -> "Akpakpa".
	stationRe = regexp.MustCompile(`\(([^()]*)\)`)

	// pollutantMarkers are checked in order against the header text outside
	// the station group. Matching is exact and case-sensitive.
	pollutantMarkers = [...]struct {
		marker    string
		pollutant Pollutant
	}{
		{"NO2", NO2},
		{"SO2", SO2},
		{"CO", CO},
		{"O3", O3},
		{"PM2.5", PM25},
		{"PM10", PM10},
	}

	dateColumns = [...]string{"date", "datetime", "timestamp"}
)

// ParseHeader extracts the station identifier and pollutant encoded in a
// column header such as "NO2 (Cotonou-Nord)". Both parts are required; ok is
// false for any other column (date, temperature, unlabeled totals...).
//
// The station group is removed before scanning for a pollutant marker so a
// station named "(COTONOU)" is never read as CO.
func ParseHeader(header string) (station string, pollutant Pollutant, ok bool) {
	loc := stationRe.FindStringSubmatchIndex(header)
	if loc == nil {
		return "", "", false
	}
	station = strings.TrimSpace(header[loc[2]:loc[3]])
	if station == "" {
		return "", "", false
	}

	rest := header[:loc[0]] + " " + header[loc[1]:]
	for _, m := range pollutantMarkers {
		if strings.Contains(rest, m.marker) {
			return station, m.pollutant, true
		}
	}
	return "", "", false
}

// IsDateColumn reports whether a header names the table's date column.
func IsDateColumn(header string) bool {
	h := strings.TrimSpace(header)
	for _, name := range dateColumns {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}
