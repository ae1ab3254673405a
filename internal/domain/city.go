package domain

import (
	"slices"

	"github.com/shopspring/decimal"
)

// DailyCitySummary is the city-wide report for one daily table.
type DailyCitySummary struct {
	Date string `json:"date"`

	// Stations are ordered most severe first: AQI descending, then severity
	// ratio descending, then input order.
	Stations []StationSummary `json:"stations"`

	AverageAQI int      `json:"city_average_aqi"`
	MaxAQI     int      `json:"city_max_aqi"`
	Category   Category `json:"category"`

	CriticalStation       string    `json:"critical_station"`
	CriticalPollutant     Pollutant `json:"critical_pollutant"`
	CriticalConcentration float64   `json:"critical_concentration"`
	CriticalUnit          Unit      `json:"critical_unit"`
}

// SummarizeCity aggregates station summaries. It returns false when there are
// no stations: an empty day has no summary rather than a zero one.
func SummarizeCity(date string, stations []StationSummary) (DailyCitySummary, bool) {
	if len(stations) == 0 {
		return DailyCitySummary{}, false
	}

	ordered := slices.Clone(stations)
	slices.SortStableFunc(ordered, func(a, b StationSummary) int {
		switch {
		case moreSevere(a.AQI, a.SeverityRatio, b.AQI, b.SeverityRatio):
			return -1
		case moreSevere(b.AQI, b.SeverityRatio, a.AQI, a.SeverityRatio):
			return 1
		default:
			return 0
		}
	})

	var sum int64
	for _, s := range ordered {
		sum += int64(s.AQI)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ordered)))).Round(0)

	critical := ordered[0]
	return DailyCitySummary{
		Date:                  date,
		Stations:              ordered,
		AverageAQI:            int(avg.IntPart()),
		MaxAQI:                critical.AQI,
		Category:              CategoryFor(critical.AQI),
		CriticalStation:       critical.Name,
		CriticalPollutant:     critical.DominantPollutant,
		CriticalConcentration: critical.DominantConcentration,
		CriticalUnit:          critical.DominantUnit,
	}, true
}

// BuildReport runs the whole computation over one daily table. It returns
// false when the table has no usable rows or no station columns.
func BuildReport(t Table) (DailyCitySummary, bool) {
	set := Ingest(t)
	stations := make([]StationSummary, 0, len(set.Stations))
	for _, sr := range set.Stations {
		stations = append(stations, SummarizeStation(sr))
	}
	return SummarizeCity(set.Date, stations)
}
