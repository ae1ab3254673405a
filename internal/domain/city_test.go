package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoStationTable has one station capped by PM10 and one with every
// pollutant in the good range.
func twoStationTable() Table {
	header := []string{"date"}
	for _, station := range []string{testStationA, testStationB} {
		for _, p := range Pollutants {
			header = append(header, string(p)+" ("+station+")")
		}
	}

	return Table{
		Header: header,
		Rows: []Row{
			{
				"date":              "2025-01-14 08:00",
				"NO2 (Akpakpa)":     "150",
				"PM10 (Akpakpa)":    "420",
				"NO2 (Fidjrosse)":   "20",
				"SO2 (Fidjrosse)":   "5",
				"CO (Fidjrosse)":    "1000",
				"O3 (Fidjrosse)":    "20",
				"PM2.5 (Fidjrosse)": "5.0",
				"PM10 (Fidjrosse)":  "30",
			},
			{
				"date":           "2025-01-14 09:00",
				"NO2 (Akpakpa)":  "200",
				"PM10 (Akpakpa)": "650",
			},
		},
	}
}

func TestBuildReport_TwoStations(t *testing.T) {
	report, ok := BuildReport(twoStationTable())
	require.True(t, ok)

	assert.Equal(t, testDate, report.Date)
	require.Len(t, report.Stations, 2)

	a := report.Stations[0]
	assert.Equal(t, testStationA, a.Name)
	assert.Equal(t, 500, a.AQI)
	assert.Equal(t, PM10, a.DominantPollutant)
	assert.Equal(t, 120, a.SubIndices[NO2])

	b := report.Stations[1]
	assert.Equal(t, testStationB, b.Name)
	assert.Equal(t, 28, b.AQI)
	assert.LessOrEqual(t, b.AQI, 50)
	// PM2.5 and PM10 both reach 28; PM10 is further up its scale.
	assert.Equal(t, PM10, b.DominantPollutant)

	assert.Equal(t, 500, report.MaxAQI)
	assert.Equal(t, 264, report.AverageAQI)
	assert.Equal(t, CategoryHazardous, report.Category)
	assert.Equal(t, testStationA, report.CriticalStation)
	assert.Equal(t, PM10, report.CriticalPollutant)
	assert.InDelta(t, 650.0, report.CriticalConcentration, 1e-9)
	assert.Equal(t, UnitUGM3, report.CriticalUnit)
}

func TestBuildReport_Empty(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		_, ok := BuildReport(Table{Header: []string{"date", "NO2 (A)"}})
		assert.False(t, ok)
	})

	t.Run("no dated rows", func(t *testing.T) {
		_, ok := BuildReport(Table{
			Header: []string{"date", "NO2 (A)"},
			Rows:   []Row{{"date": "", "NO2 (A)": "12"}},
		})
		assert.False(t, ok)
	})

	t.Run("no station columns", func(t *testing.T) {
		_, ok := BuildReport(Table{
			Header: []string{"date", "Temperature"},
			Rows:   []Row{{"date": testDate, "Temperature": "31"}},
		})
		assert.False(t, ok)
	})

	t.Run("zero value", func(t *testing.T) {
		_, ok := BuildReport(Table{})
		assert.False(t, ok)
	})
}

func TestSummarizeCity_Ordering(t *testing.T) {
	stations := []StationSummary{
		{Name: "low", AQI: 40, SeverityRatio: 0.02},
		{Name: "capped-pm10", AQI: 500, SeverityRatio: 1.07, DominantPollutant: PM10},
		{Name: "mid", AQI: 120, SeverityRatio: 0.3},
		{Name: "capped-no2", AQI: 500, SeverityRatio: 1.46, DominantPollutant: NO2},
		{Name: "mid-twin", AQI: 120, SeverityRatio: 0.3},
	}

	report, ok := SummarizeCity(testDate, stations)
	require.True(t, ok)

	var names []string
	for _, s := range report.Stations {
		names = append(names, s.Name)
	}
	want := []string{"capped-no2", "capped-pm10", "mid", "mid-twin", "low"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("station order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, "capped-no2", report.CriticalStation)
	assert.Equal(t, NO2, report.CriticalPollutant)
	assert.Equal(t, 500, report.MaxAQI)
	assert.Equal(t, 256, report.AverageAQI) // 1280 / 5
	assert.Equal(t, "low", stations[0].Name, "input must not be reordered")
}

func TestSummarizeCity_AverageRounding(t *testing.T) {
	tests := []struct {
		name     string
		aqis     []int
		expected int
	}{
		{"exact", []int{50, 100}, 75},
		{"half rounds up", []int{50, 51}, 51},
		{"below half", []int{10, 10, 11}, 10},
		{"above half", []int{10, 11, 11}, 11},
		{"single", []int{37}, 37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stations := make([]StationSummary, 0, len(tt.aqis))
			for _, a := range tt.aqis {
				stations = append(stations, StationSummary{AQI: a})
			}
			report, ok := SummarizeCity(testDate, stations)
			require.True(t, ok)
			assert.Equal(t, tt.expected, report.AverageAQI)
		})
	}
}

func TestSummarizeCity_NoStations(t *testing.T) {
	report, ok := SummarizeCity(testDate, nil)
	assert.False(t, ok)
	assert.Equal(t, DailyCitySummary{}, report)
}
