package table

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// DecodeJSON reads either an array of row objects or a
// {"header": [...], "rows": [...]} object. For the array form the header is
// the union of row keys in first-seen order; an empty array decodes to an
// empty table. Numbers are kept as json.Number.
func DecodeJSON(r io.Reader) (domain.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Table{}, fmt.Errorf("decode json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return domain.Table{}, ErrNoHeader
	}

	var t domain.Table
	if data[0] == '[' {
		t, err = decodeRecords(data)
	} else {
		t, err = decodeObject(data)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("decode json: %w", err)
	}
	// An empty array is a day without readings, not a missing header.
	if data[0] == '[' && len(t.Rows) == 0 {
		return domain.Table{}, nil
	}
	if !hasDateColumn(t.Header) {
		return domain.Table{}, ErrNoHeader
	}
	return t, nil
}

func decodeObject(data []byte) (domain.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var t domain.Table
	if err := dec.Decode(&t); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

// decodeRecords walks the token stream so header order matches the input;
// decoding into []map[string]any would lose it.
func decodeRecords(data []byte) (domain.Table, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return domain.Table{}, err
	}

	var t domain.Table
	seen := make(map[string]bool)
	for dec.More() {
		if err := expectDelim(dec, '{'); err != nil {
			return domain.Table{}, err
		}
		row := make(domain.Row)
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return domain.Table{}, err
			}
			key, ok := tok.(string)
			if !ok {
				return domain.Table{}, fmt.Errorf("unexpected token %v", tok)
			}
			var v any
			if err := dec.Decode(&v); err != nil {
				return domain.Table{}, fmt.Errorf("field %q: %w", key, err)
			}
			if !seen[key] {
				seen[key] = true
				t.Header = append(t.Header, key)
			}
			row[key] = v
		}
		if err := expectDelim(dec, '}'); err != nil {
			return domain.Table{}, err
		}
		t.Rows = append(t.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return domain.Table{}, err
	}
	return t, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errors.New("expected " + want.String())
	}
	return nil
}
