package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

const utf8BOM = "\ufeff"

// DecodeCSV reads a CSV export. Title rows above the header are skipped: the
// header is the first record that names a date column. Blank records are
// dropped and ragged records are allowed.
func DecodeCSV(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var (
		t     domain.Table
		found bool
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("decode csv: %w", err)
		}
		if len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], utf8BOM)
		}

		if !found {
			if hasDateColumn(record) {
				t.Header = trimAll(record)
				found = true
			}
			continue
		}
		if blank(record) {
			continue
		}
		t.Rows = append(t.Rows, toRow(t.Header, record))
	}

	if !found {
		return domain.Table{}, ErrNoHeader
	}
	return t, nil
}

func toRow(header, record []string) domain.Row {
	row := make(domain.Row, len(header))
	for i, h := range header {
		if h == "" || i >= len(record) {
			continue
		}
		row[h] = record[i]
	}
	return row
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
