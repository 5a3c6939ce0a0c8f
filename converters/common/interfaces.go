package common

import (
	"io"
	"path/filepath"
	"strings"
)

// Artifact is the serialized output of a conversion, ready to be streamed to
// its destination.
type Artifact = io.WriterTo

// Converter is implemented by each output format. Preprocess must be pure
// (no I/O) and must not reorder rows; the default implementation returns the
// result set unchanged. Convert produces the artifact for the whole result
// set, including a structurally valid empty artifact for zero rows.
type Converter interface {
	Preprocess(rs *ResultSet, req *Request) *ResultSet
	Convert(rs *ResultSet, req *Request) (Artifact, error)
}

// Request is the resolved configuration for one conversion run, assembled
// once from CLI flags and the configuration file.
type Request struct {
	Format string
	Table  string // source table (exclusive with Query)
	Query  string // source query (exclusive with Table)
	Output string // destination path, or a mongodb:// URI for direct import

	TableName    string // target table / sheet name; derived from Output when empty
	Compact      bool   // JSON: emit compact output instead of two-space indent
	Delimiter    rune   // CSV: field delimiter, ',' when zero
	SQLBatchSize int    // SQL: rows per INSERT, single-row statements when <= 1

	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	MongoDateTags   bool // tag timestamps as {"$date": ...} documents
}

// TargetTable resolves the table name for SQL-flavored outputs: the
// configured name if set, otherwise the output filename without extension.
func (r *Request) TargetTable() string {
	if r.TableName != "" {
		return r.TableName
	}
	base := filepath.Base(r.Output)
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" && name != "." && name != string(filepath.Separator) {
		return name
	}
	return "converted_data"
}

// BytesArtifact is the common in-memory artifact used by the text formats.
type BytesArtifact []byte

func (b BytesArtifact) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b)
	return int64(n), err
}
