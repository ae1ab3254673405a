package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testStationA = "Akpakpa"
	testStationB = "Fidjrosse"
	testDate     = "2025-01-14"
)

func TestIngest(t *testing.T) {
	tbl := Table{
		Header: []string{"date", "NO2 (Akpakpa)", "PM10 (Akpakpa)", "Temperature (Akpakpa)", "NO2 (Fidjrosse)"},
		Rows: []Row{
			{"date": "2025-01-14 08:00", "NO2 (Akpakpa)": "12.5", "PM10 (Akpakpa)": 40.0, "Temperature (Akpakpa)": "31", "NO2 (Fidjrosse)": ""},
			{"date": "", "NO2 (Akpakpa)": "999", "PM10 (Akpakpa)": "999"},
			{"date": "2025-01-14 09:00", "NO2 (Akpakpa)": "-4", "PM10 (Akpakpa)": "n/a", "NO2 (Fidjrosse)": 7},
			{"NO2 (Akpakpa)": "500"},
			{"date": "2025-01-14 10:00", "NO2 (Akpakpa)": "NaN", "PM10 (Akpakpa)": nil, "NO2 (Fidjrosse)": json.Number("8.25")},
		},
	}

	set := Ingest(tbl)

	assert.Equal(t, testDate, set.Date)
	require.Len(t, set.Stations, 2)

	a := set.Stations[0]
	assert.Equal(t, testStationA, a.Station)
	assert.Equal(t, []float64{12.5, 0}, a.Readings[NO2])
	assert.Equal(t, []float64{40}, a.Readings[PM10])
	assert.Len(t, a.Readings, 2, "temperature column must be ignored")

	b := set.Stations[1]
	assert.Equal(t, testStationB, b.Station)
	assert.Equal(t, []float64{7, 8.25}, b.Readings[NO2])
}

func TestIngest_StationOrderFollowsFirstReading(t *testing.T) {
	tbl := Table{
		Header: []string{"date", "NO2 (A)", "NO2 (B)"},
		Rows: []Row{
			{"date": testDate, "NO2 (A)": "", "NO2 (B)": "3"},
			{"date": testDate, "NO2 (A)": "4", "NO2 (B)": "5"},
		},
	}

	set := Ingest(tbl)
	require.Len(t, set.Stations, 2)
	assert.Equal(t, "B", set.Stations[0].Station)
	assert.Equal(t, "A", set.Stations[1].Station)
}

func TestIngest_NoDateColumn(t *testing.T) {
	tbl := Table{
		Header: []string{"hour", "NO2 (A)"},
		Rows:   []Row{{"hour": "08:00", "NO2 (A)": "4"}},
	}

	set := Ingest(tbl)
	assert.Empty(t, set.Date)
	assert.Empty(t, set.Stations)
}

func TestIngest_HeaderOnly(t *testing.T) {
	set := Ingest(Table{Header: []string{"date", "NO2 (A)"}})
	assert.Empty(t, set.Stations)
}

func TestParseReading(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected float64
		ok       bool
	}{
		{"float", 12.5, 12.5, true},
		{"float32", float32(2.5), 2.5, true},
		{"int", 7, 7, true},
		{"int64", int64(9), 9, true},
		{"json number", json.Number("4.25"), 4.25, true},
		{"numeric string", " 33.1 ", 33.1, true},
		{"negative string", "-2", -2, true},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"text", "n/a", 0, false},
		{"number with unit", "12 ppb", 0, false},
		{"NaN string", "NaN", 0, false},
		{"Inf string", "+Inf", 0, false},
		{"NaN float", math.NaN(), 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"bad json number", json.Number("x"), 0, false},
		{"negative json number", json.Number("-3"), -3, true},
		{"exponent string", "1.5e2", 150, true},
		{"digit separators", "1_000", 0, false},
		{"hex float", "0x1p6", 0, false},
		{"hex int", "0x40", 0, false},
		{"bare Inf", "Inf", 0, false},
		{"infinity word", "Infinity", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseReading(tt.value)
			assert.Equal(t, tt.ok, ok)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestDateLabel(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{"date and time", "2025-01-14 08:00:00", testDate},
		{"date only", "14/01/2025", "14/01/2025"},
		{"ISO timestamp", "2025-01-14T08:00:00Z", testDate},
		{"padded", "  2025-01-14  ", testDate},
		{"time value", time.Date(2025, time.January, 14, 8, 0, 0, 0, time.UTC), testDate},
		{"zero time", time.Time{}, ""},
		{"number", 20250114, "20250114"},
		{"empty", "", ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DateLabel(tt.value))
		})
	}
}
