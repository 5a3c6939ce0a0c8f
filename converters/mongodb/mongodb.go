// Package mongodb converts a result set into MongoDB-style documents.
// Document-kind values embed as nested documents rather than strings, and
// timestamps are tagged as {"$date": "<RFC 3339>"} when Request.MongoDateTags
// is set, matching mongoimport's extended JSON. The artifact is an
// import-ready JSON array; direct insertion into a live collection goes
// through the DocumentSink collaborator instead (see client.go).
package mongodb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pgconvert/converters"
	"pgconvert/converters/common"
)

func init() {
	converters.Register("mongodb", &Converter{})
}

// Converter implements the MongoDB document output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess rewrites column names that MongoDB cannot store as field names:
// a leading digit gets an underscore prefix and dots become underscores.
// Rows are shared with the input result set.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	columns := make([]string, len(rs.Columns))
	for i, name := range rs.Columns {
		columns[i] = sanitizeFieldName(name)
	}
	return &common.ResultSet{Columns: columns, Rows: rs.Rows}
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	docs := BuildDocuments(rs, req)
	out, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to encode %d documents: %w", len(docs), err)
	}
	return common.BytesArtifact(out), nil
}

// BuildDocuments maps every row onto a document with fields in column
// order, row order preserved. It is shared by the file artifact and the
// direct-import path.
func BuildDocuments(rs *common.ResultSet, req *common.Request) []*common.Record {
	dateTags := req == nil || req.MongoDateTags
	docs := make([]*common.Record, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		doc := common.NewRecord(len(rs.Columns))
		for i, name := range rs.Columns {
			if i >= len(row) {
				doc.Set(name, nil)
				continue
			}
			doc.Set(name, encodeValue(name, row[i], dateTags))
		}
		docs = append(docs, doc)
	}
	return docs
}

func encodeValue(field string, v common.Value, dateTags bool) any {
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
		iso := v.Time.Format(time.RFC3339)
		if dateTags {
			return map[string]any{"$date": iso}
		}
		return iso
	case common.KindDocument:
		return v.Doc
	}
	slog.Warn("Falling back to text representation", "field", field, "kind", v.Kind.String(), "error", converters.ErrUnsupportedType)
	return v.String()
}

func sanitizeFieldName(name string) string {
	name = strings.ReplaceAll(name, ".", "_")
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}
