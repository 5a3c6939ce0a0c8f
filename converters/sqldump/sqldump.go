// Package sqldump converts a result set into SQL statements: one CREATE
// TABLE whose column types are inferred from the first non-null value
// observed per column, followed by INSERT statements in row order.
// Identifiers are backtick-quoted so reserved words survive; NULL is always
// the unquoted literal, numbers and booleans (TRUE/FALSE) are unquoted, and
// text, timestamps and documents are single-quoted with embedded quotes
// doubled.
//
// The default is one INSERT per row. Setting Request.SQLBatchSize above one
// switches to multi-row INSERTs of at most that many rows each.
package sqldump

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pgconvert/converters"
	"pgconvert/converters/common"
)

func init() {
	converters.Register("sql", &Converter{})
}

// Text columns get VARCHAR(n) sized to the longest observed value, clamped
// to defaultVarcharLen. Columns that never carry a value also fall back to
// defaultVarcharLen.
const defaultVarcharLen = 255

// Converter implements the SQL statement output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess sanitizes column names into SQL-friendly identifiers. Rows are
// shared with the input result set; only the column list is replaced.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	return &common.ResultSet{
		Columns: common.SanitizeColumnNames(rs.Columns),
		Rows:    rs.Rows,
	}
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	table := req.TargetTable()
	kinds := rs.ColumnKinds()

	var b strings.Builder
	writeCreateTable(&b, table, rs, kinds)

	batchSize := 1
	if req != nil && req.SQLBatchSize > 1 {
		batchSize = req.SQLBatchSize
	}

	if len(rs.Rows) > 0 {
		b.WriteString("\n")
		for start := 0; start < len(rs.Rows); start += batchSize {
			end := start + batchSize
			if end > len(rs.Rows) {
				end = len(rs.Rows)
			}
			writeInsert(&b, table, rs, rs.Rows[start:end])
		}
	}

	return common.BytesArtifact([]byte(b.String())), nil
}

func writeCreateTable(b *strings.Builder, table string, rs *common.ResultSet, kinds []common.Kind) {
	fmt.Fprintf(b, "CREATE TABLE %s (\n", common.QuoteIdent(table))
	for i, name := range rs.Columns {
		fmt.Fprintf(b, "    %s %s", common.QuoteIdent(name), columnType(rs, i, kinds[i]))
		if i < len(rs.Columns)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(");\n")
}

// columnType maps a column's kind onto a SQL type declaration.
func columnType(rs *common.ResultSet, col int, kind common.Kind) string {
	switch kind {
	case common.KindInteger:
		return "INT"
	case common.KindFloat:
		return "DECIMAL(18, 6)"
	case common.KindBool:
		return "BOOLEAN"
	case common.KindTimestamp:
		return "VARCHAR(32)"
	case common.KindDocument:
		return "JSON"
	case common.KindText:
		return fmt.Sprintf("VARCHAR(%d)", varcharLen(rs, col))
	}
	return fmt.Sprintf("VARCHAR(%d)", defaultVarcharLen)
}

func varcharLen(rs *common.ResultSet, col int) int {
	maxLen := 0
	for _, row := range rs.Rows {
		if col >= len(row) || row[col].Kind != common.KindText {
			continue
		}
		if n := len(row[col].Text); n > maxLen {
			maxLen = n
		}
	}
	if maxLen < 1 {
		return 1
	}
	if maxLen > defaultVarcharLen {
		return defaultVarcharLen
	}
	return maxLen
}

func writeInsert(b *strings.Builder, table string, rs *common.ResultSet, rows []common.Row) {
	quoted := make([]string, len(rs.Columns))
	for i, name := range rs.Columns {
		quoted[i] = common.QuoteIdent(name)
	}
	fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES", common.QuoteIdent(table), strings.Join(quoted, ", "))

	for r, row := range rows {
		if r > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    (")
		for i, name := range rs.Columns {
			if i > 0 {
				b.WriteString(", ")
			}
			if i < len(row) {
				b.WriteString(formatValue(name, row[i]))
			} else {
				b.WriteString("NULL")
			}
		}
		b.WriteString(")")
	}
	b.WriteString(";\n")
}

// formatValue renders one value as a SQL literal.
func formatValue(column string, v common.Value) string {
	switch v.Kind {
	case common.KindNull:
		return "NULL"
	case common.KindInteger, common.KindFloat:
		return v.String()
	case common.KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case common.KindTimestamp:
		return "'" + v.Time.Format(time.RFC3339) + "'"
	case common.KindText:
		return "'" + common.EscapeString(v.Text) + "'"
	case common.KindDocument:
		return "'" + common.EscapeString(v.DocJSON()) + "'"
	}
	slog.Warn("Falling back to text representation", "column", column, "kind", v.Kind.String(), "error", converters.ErrUnsupportedType)
	return "'" + common.EscapeString(v.String()) + "'"
}
