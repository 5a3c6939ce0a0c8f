// Package json converts a result set into a JSON array of objects, one
// object per row in source order with fields in column order. The default
// output is indented with two spaces and is stable across runs, so it can
// be golden-file tested.
package json

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"pgconvert/converters"
	"pgconvert/converters/common"
)

func init() {
	converters.Register("json", &Converter{})
}

// Converter implements the JSON output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess is the identity: the JSON encoding handles every kind directly.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	return rs
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	records := make([]*common.Record, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		record := common.NewRecord(len(rs.Columns))
		for i, name := range rs.Columns {
			if i >= len(row) {
				record.Set(name, nil)
				continue
			}
			record.Set(name, encodeValue(name, row[i]))
		}
		records = append(records, record)
	}

	var (
		out []byte
		err error
	)
	if req != nil && req.Compact {
		out, err = json.Marshal(records)
	} else {
		out, err = json.MarshalIndent(records, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("json: failed to encode %d records: %w", len(records), err)
	}
	return common.BytesArtifact(out), nil
}

// encodeValue maps a Value onto its JSON representation: timestamps become
// RFC 3339 strings, documents embed as-is, nulls become JSON null.
func encodeValue(column string, v common.Value) any {
	switch v.Kind {
	case common.KindNull:
		return nil
	case common.KindInteger:
		return v.Int
	case common.KindFloat:
		return v.Float
	case common.KindText:
		return v.Text
	case common.KindBool:
		return v.Bool
	case common.KindTimestamp:
		return v.Time.Format(time.RFC3339)
	case common.KindDocument:
		return v.Doc
	}
	slog.Warn("Falling back to text representation", "column", column, "kind", v.Kind.String(), "error", converters.ErrUnsupportedType)
	return v.String()
}
