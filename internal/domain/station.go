package domain

// StationSummary is the derived daily result for one monitoring station.
type StationSummary struct {
	Name string `json:"name"`

	// Peaks are daily maxima in raw sensor units (ppb for gases, µg/m³ for
	// particulates).
	Peaks      map[Pollutant]float64 `json:"peak_concentrations"`
	SubIndices map[Pollutant]int     `json:"sub_indices"`

	AQI      int      `json:"aqi"`
	Category Category `json:"category"`

	DominantPollutant     Pollutant `json:"dominant_pollutant"`
	DominantConcentration float64   `json:"dominant_concentration"` // truncated, regulatory unit
	DominantUnit          Unit      `json:"dominant_unit"`

	// SeverityRatio is the dominant concentration over the top of its
	// pollutant's scale. It only breaks ties between equal AQIs.
	SeverityRatio float64 `json:"severity_ratio"`
}

// SummarizeStation reduces a station's readings to peaks, assesses all six
// pollutants and selects the dominant one. A pollutant without readings
// counts as concentration 0.
func SummarizeStation(sr StationReadings) StationSummary {
	indices := make([]PollutantIndex, 0, len(Pollutants))
	for _, p := range Pollutants {
		indices = append(indices, Assess(p, Peak(sr.Readings[p])))
	}

	summary := StationSummary{
		Name:       sr.Station,
		Peaks:      make(map[Pollutant]float64, len(indices)),
		SubIndices: make(map[Pollutant]int, len(indices)),
	}
	for _, idx := range indices {
		summary.Peaks[idx.Pollutant] = idx.Peak
		summary.SubIndices[idx.Pollutant] = idx.SubIndex
	}

	dominant := SelectDominant(indices)
	summary.AQI = dominant.SubIndex
	summary.Category = CategoryFor(dominant.SubIndex)
	summary.DominantPollutant = dominant.Pollutant
	summary.DominantConcentration = dominant.Concentration
	summary.DominantUnit = dominant.Unit
	summary.SeverityRatio = dominant.SeverityRatio
	return summary
}

// SelectDominant returns the entry with the highest sub-index, which is
// therefore the station's AQI. Equal sub-indices (typically two pollutants
// capped at 500) go to the larger severity ratio; if that ties too, the entry
// that comes first in indices wins. Callers pass indices in canonical
// Pollutants order.
func SelectDominant(indices []PollutantIndex) PollutantIndex {
	if len(indices) == 0 {
		return PollutantIndex{}
	}
	best := indices[0]
	for _, idx := range indices[1:] {
		if moreSevere(idx.SubIndex, idx.SeverityRatio, best.SubIndex, best.SeverityRatio) {
			best = idx
		}
	}
	return best
}

// moreSevere orders by index, then by severity ratio. Equal pairs are not
// more severe, which keeps earlier candidates on a full tie.
func moreSevere(index int, ratio float64, otherIndex int, otherRatio float64) bool {
	if index != otherIndex {
		return index > otherIndex
	}
	return ratio > otherRatio
}
