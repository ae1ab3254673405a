// Command aqireport computes the daily air quality report for one exported
// measurement table and prints it as a bulletin or as JSON.
//
// Usage:
//
//	go run ./cmd/aqireport -in data/cotonou_2025-01-14.csv
//	go run ./cmd/aqireport -in day.json -format json -out report.json
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
	"github.com/couchcryptid/air-quality-etl/internal/table"
)

var errNoReport = errors.New("table has no usable rows or station columns")

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	in := flag.String("in", "", "path to a daily table (.csv or .json)")
	out := flag.String("out", "", "optional path to write the report as JSON")
	format := flag.String("format", "text", "stdout format: text or json")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -in")
	}
	if *format != "text" && *format != "json" {
		return fmt.Errorf("unknown -format %q", *format)
	}

	report, err := buildReport(*in)
	if err != nil {
		return err
	}

	if *out != "" {
		if err := writeJSON(*out, report); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		log.Printf("wrote report: %s", *out)
	}

	if *format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printBulletin(os.Stdout, report)
}

func buildReport(path string) (domain.DailyCitySummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.DailyCitySummary{}, fmt.Errorf("read table: %w", err)
	}

	tbl, err := table.Decode(contentTypeFor(path), bytes.NewReader(data))
	if err != nil {
		return domain.DailyCitySummary{}, fmt.Errorf("%s: %w", path, err)
	}

	report, ok := domain.BuildReport(tbl)
	if !ok {
		return domain.DailyCitySummary{}, fmt.Errorf("%s: %w", path, errNoReport)
	}
	return report, nil
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return table.ContentTypeJSON
	}
	return table.ContentTypeCSV
}

func printBulletin(w io.Writer, r domain.DailyCitySummary) error {
	advice := r.Category.Advice()

	fmt.Fprintf(w, "Bulletin du %s\n\n", r.Date)
	fmt.Fprintf(w, "AQI ville (max):   %d  %s\n", r.MaxAQI, r.Category.Label())
	fmt.Fprintf(w, "AQI ville (moy.):  %d  %s\n", r.AverageAQI, domain.CategoryFor(r.AverageAQI).Label())
	fmt.Fprintf(w, "Station critique:  %s (%s %g %s)\n\n",
		r.CriticalStation, r.CriticalPollutant, r.CriticalConcentration, r.CriticalUnit)
	fmt.Fprintf(w, "Population générale: %s\n", advice.General)
	fmt.Fprintf(w, "Personnes sensibles: %s\n\n", advice.Sensitive)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATION\tAQI\tCATEGORIE\tPOLLUANT\tCONCENTRATION")
	for _, s := range r.Stations {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%g %s\n",
			s.Name, s.AQI, s.Category.Label(), s.DominantPollutant, s.DominantConcentration, s.DominantUnit)
	}
	return tw.Flush()
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644) //nolint:gosec // report output is not sensitive
}
