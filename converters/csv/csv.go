// Package csv converts a result set into CSV. The first record is always the
// header, taken from the result set's authoritative column order, even when
// zero rows follow. Booleans are written as the literals True and False to
// stay byte-compatible with existing reference exports; documents are
// serialized to compact JSON text.
package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"time"

	"pgconvert/converters"
	"pgconvert/converters/common"
)

func init() {
	converters.Register("csv", &Converter{})
}

// Converter implements the CSV output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess is the identity: field rendering happens during Convert.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	return rs
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if req != nil && req.Delimiter != 0 {
		w.Comma = req.Delimiter
	}

	if err := w.Write(rs.Columns); err != nil {
		return nil, fmt.Errorf("csv: failed to write header: %w", err)
	}

	record := make([]string, len(rs.Columns))
	for _, row := range rs.Rows {
		for i, name := range rs.Columns {
			if i >= len(row) {
				record[i] = ""
				continue
			}
			record[i] = formatField(name, row[i])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("csv: failed to write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: failed to flush output: %w", err)
	}
	return common.BytesArtifact(buf.Bytes()), nil
}

// formatField renders one value as CSV field text. Quoting (including
// doubling embedded quotes) is left to encoding/csv.
func formatField(column string, v common.Value) string {
	switch v.Kind {
	case common.KindNull:
		return ""
	case common.KindInteger, common.KindFloat, common.KindText:
		return v.String()
	case common.KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case common.KindTimestamp:
		return v.Time.Format(time.RFC3339)
	case common.KindDocument:
		return v.DocJSON()
	}
	slog.Warn("Falling back to text representation", "column", column, "kind", v.Kind.String(), "error", converters.ErrUnsupportedType)
	return v.String()
}
