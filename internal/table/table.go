// Package table decodes daily measurement files into domain.Table values.
//
// Two encodings are accepted: CSV exports of the monitoring spreadsheet and
// JSON, either as an array of row objects (the shape spreadsheet tools emit)
// or as an explicit {"header": [...], "rows": [...]} object.
package table

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/couchcryptid/air-quality-etl/internal/domain"
)

// Media types understood by Decode.
const (
	ContentTypeCSV  = "text/csv"
	ContentTypeJSON = "application/json"
)

var (
	// ErrNoHeader means no row of the input names a date column.
	ErrNoHeader = errors.New("no header row with a date column")
	// ErrUnsupportedMediaType is returned by Decode for unknown content types.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)

// Decode dispatches on contentType. An empty content type is treated as CSV.
func Decode(contentType string, r io.Reader) (domain.Table, error) {
	mediaType := ""
	if strings.TrimSpace(contentType) != "" {
		mt, _, err := mime.ParseMediaType(contentType)
		if err != nil {
			return domain.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
		}
		mediaType = mt
	}

	switch mediaType {
	case "", ContentTypeCSV, "application/csv":
		return DecodeCSV(r)
	case ContentTypeJSON:
		return DecodeJSON(r)
	default:
		return domain.Table{}, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mediaType)
	}
}

func hasDateColumn(header []string) bool {
	for _, h := range header {
		if domain.IsDateColumn(h) {
			return true
		}
	}
	return false
}
