// Command validate checks a daily AQI report against the table it was built
// from. It recomputes the report, verifies the index laws every report must
// satisfy, and cross-checks station ordering and the breakpoint tables.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -table data/cotonou_2025-01-14.csv \
//	  -report out/report_2025-01-14.json
//
// The report may be a bare report or a sink-topic envelope with a "report"
// field.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/table"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	tablePath := flag.String("table", "", "path to the daily table (.csv or .json)")
	reportPath := flag.String("report", "", "path to the report JSON to validate")
	flag.Parse()

	if *tablePath == "" || *reportPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*tablePath, *reportPath))
}

func run(tablePath, reportPath string) int {
	// ── Load inputs ──
	fmt.Println("=== Daily AQI Report Validation ===")
	fmt.Println()

	tbl, err := loadTable(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load table: %v\n", err)
		return 1
	}

	report, err := loadReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load report: %v\n", err)
		return 1
	}

	// ── Run validation phases ──
	phases := []*phase{
		validateBreakpointTables(),
		validateTableIntegrity(tbl),
		validateRecomputation(tbl, report),
		validateIndexLaws(report),
		validateOrdering(report),
	}

	// ── Report results ──
	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Table: %d rows, %d columns; report: %s, %d stations, city AQI %d\n",
		len(tbl.Rows), len(tbl.Header), report.Date, len(report.Stations), report.MaxAQI)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

func loadTable(path string) (domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Table{}, err
	}
	contentType := table.ContentTypeCSV
	if strings.EqualFold(filepath.Ext(path), ".json") {
		contentType = table.ContentTypeJSON
	}
	return table.Decode(contentType, bytes.NewReader(data))
}

// loadReport accepts a bare report or an envelope.
func loadReport(path string) (domain.DailyCitySummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DailyCitySummary{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return domain.DailyCitySummary{}, err
	}
	if inner, ok := fields["report"]; ok {
		data = inner
	}

	var report domain.DailyCitySummary
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.DailyCitySummary{}, err
	}
	return report, nil
}

// ── Phases ──

func validateBreakpointTables() *phase {
	p := &phase{name: "Breakpoint tables"}
	fmt.Println("Checking breakpoint tables...")
	for _, err := range domain.CheckBreakpointTables() {
		p.errorf("%v", err)
	}
	return p
}

// validateTableIntegrity reports cells that would be silently dropped and rows
// that belong to another day.
func validateTableIntegrity(tbl domain.Table) *phase {
	p := &phase{name: "Table integrity"}
	fmt.Println("Checking table integrity...")

	dateCol := ""
	var columns []string
	for _, h := range tbl.Header {
		if dateCol == "" && domain.IsDateColumn(h) {
			dateCol = h
			continue
		}
		if _, _, ok := domain.ParseHeader(h); ok {
			columns = append(columns, h)
		}
	}
	if len(columns) == 0 {
		p.errorf("no station pollutant columns in header")
	}

	if dateCol == "" {
		p.errorf("no date column in header")
		return p
	}

	reportDate := ""
	for i, row := range tbl.Rows {
		label := domain.DateLabel(row[dateCol])
		switch {
		case label == "":
			p.errorf("row %d: no date, row is ignored", i+1)
			continue
		case reportDate == "":
			reportDate = label
		case label != reportDate:
			p.errorf("row %d: dated %s, report day is %s", i+1, label, reportDate)
		}
		checkCells(p, i+1, row, columns)
	}
	return p
}

// checkCells parses every pollutant cell the way ingestion does, so string and
// numeric cells alike are flagged when they would be dropped or clamped.
func checkCells(p *phase, rowNum int, row domain.Row, columns []string) {
	for _, col := range columns {
		v := row[col]
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		f, ok := domain.ParseReading(v)
		if !ok {
			p.errorf("row %d, %s: %q is not a number", rowNum, col, fmt.Sprint(v))
			continue
		}
		if f < 0 {
			p.errorf("row %d, %s: negative reading %v counts as 0", rowNum, col, v)
		}
	}
}

func validateRecomputation(tbl domain.Table, report domain.DailyCitySummary) *phase {
	p := &phase{name: "Recomputation parity"}
	fmt.Println("Recomputing report from table...")

	want, ok := domain.BuildReport(tbl)
	if !ok {
		p.errorf("table produces no report")
		return p
	}
	if diff := cmp.Diff(want, report, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		p.errorf("report differs from recomputation (-want +got):\n%s", diff)
	}
	return p
}

func validateIndexLaws(r domain.DailyCitySummary) *phase {
	p := &phase{name: "Index laws"}
	fmt.Println("Checking index laws...")

	if len(r.Stations) == 0 {
		p.errorf("report has no stations")
		return p
	}

	maxAQI, sum := 0, 0
	for _, s := range r.Stations {
		checkStation(p, s)
		maxAQI = max(maxAQI, s.AQI)
		sum += s.AQI
	}

	if r.MaxAQI != maxAQI {
		p.errorf("city max AQI %d, highest station AQI %d", r.MaxAQI, maxAQI)
	}
	if want := domain.CategoryFor(r.MaxAQI); r.Category != want {
		p.errorf("city category %s, want %s", r.Category, want)
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(r.Stations)))).Round(0)
	if int64(r.AverageAQI) != avg.IntPart() {
		p.errorf("city average AQI %d, want %s", r.AverageAQI, avg)
	}
	return p
}

func checkStation(p *phase, s domain.StationSummary) {
	highest := 0
	for _, pol := range domain.Pollutants {
		idx, ok := s.SubIndices[pol]
		if !ok {
			p.errorf("%s: no sub-index for %s", s.Name, pol)
			continue
		}
		if idx < 0 || idx > domain.MaxIndex {
			p.errorf("%s: %s sub-index %d outside 0..%d", s.Name, pol, idx, domain.MaxIndex)
		}
		highest = max(highest, idx)

		want := domain.Assess(pol, s.Peaks[pol]).SubIndex
		if idx != want {
			p.errorf("%s: %s sub-index %d, peak %g gives %d", s.Name, pol, idx, s.Peaks[pol], want)
		}
	}

	if s.AQI != highest {
		p.errorf("%s: AQI %d, highest sub-index %d", s.Name, s.AQI, highest)
	}
	if s.SubIndices[s.DominantPollutant] != s.AQI {
		p.errorf("%s: dominant %s has sub-index %d, AQI %d",
			s.Name, s.DominantPollutant, s.SubIndices[s.DominantPollutant], s.AQI)
	}
	if want := domain.CategoryFor(s.AQI); s.Category != want {
		p.errorf("%s: category %s, want %s", s.Name, s.Category, want)
	}
	if s.DominantUnit != s.DominantPollutant.Unit() {
		p.errorf("%s: dominant unit %s, want %s", s.Name, s.DominantUnit, s.DominantPollutant.Unit())
	}
}

func validateOrdering(r domain.DailyCitySummary) *phase {
	p := &phase{name: "Station ordering"}
	fmt.Println("Checking station ordering...")

	for i := 1; i < len(r.Stations); i++ {
		prev, cur := r.Stations[i-1], r.Stations[i]
		if cur.AQI > prev.AQI || (cur.AQI == prev.AQI && cur.SeverityRatio > prev.SeverityRatio+1e-12) {
			p.errorf("position %d: %s (AQI %d, ratio %.4f) ranks below %s (AQI %d, ratio %.4f)",
				i+1, cur.Name, cur.AQI, cur.SeverityRatio, prev.Name, prev.AQI, prev.SeverityRatio)
		}
	}

	if len(r.Stations) > 0 {
		first := r.Stations[0]
		if r.CriticalStation != first.Name {
			p.errorf("critical station %s, first station %s", r.CriticalStation, first.Name)
		}
		if r.CriticalPollutant != first.DominantPollutant {
			p.errorf("critical pollutant %s, first station dominant %s", r.CriticalPollutant, first.DominantPollutant)
		}
		if math.Abs(r.CriticalConcentration-first.DominantConcentration) > 1e-9 {
			p.errorf("critical concentration %g, first station %g", r.CriticalConcentration, first.DominantConcentration)
		}
	}
	return p
}
