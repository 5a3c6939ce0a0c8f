// Package sqlite converts a result set into a self-contained SQLite
// database file with a single table. The database is assembled in a
// temporary file and streamed to the destination when the artifact is
// written.
package sqlite

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"pgconvert/converters"
	"pgconvert/converters/common"

	_ "modernc.org/sqlite"
)

func init() {
	converters.Register("sqlite", &Converter{})
}

// commitBatchSize is the number of inserted rows per transaction.
const commitBatchSize = 1000

// Converter implements the SQLite database output format.
type Converter struct{}

var _ common.Converter = (*Converter)(nil)

// Preprocess sanitizes column names into SQL-friendly identifiers. Rows are
// shared with the input result set.
func (c *Converter) Preprocess(rs *common.ResultSet, req *common.Request) *common.ResultSet {
	return &common.ResultSet{
		Columns: common.SanitizeColumnNames(rs.Columns),
		Rows:    rs.Rows,
	}
}

func (c *Converter) Convert(rs *common.ResultSet, req *common.Request) (common.Artifact, error) {
	tmp, err := os.CreateTemp("", "pgconvert-*.db")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to create temp file: %w", err)
	}
	path := tmp.Name()
	tmp.Close() // sql.Open reopens it

	if err := populate(path, rs, req.TargetTable()); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &artifact{path: path}, nil
}

func populate(path string, rs *common.ResultSet, table string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("sqlite: failed to open database: %w", err)
	}
	defer db.Close()

	// Single connection avoids locking issues on the temp file.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(buildCreateTable(table, rs)); err != nil {
		return fmt.Errorf("sqlite: failed to create table %s: %w", table, err)
	}
	if len(rs.Rows) == 0 {
		return nil
	}

	insertSQL := buildInsert(table, rs.Columns)
	args := make([]any, len(rs.Columns))

	for start := 0; start < len(rs.Rows); start += commitBatchSize {
		end := start + commitBatchSize
		if end > len(rs.Rows) {
			end = len(rs.Rows)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("sqlite: failed to begin transaction: %w", err)
		}
		stmt, err := tx.Prepare(insertSQL)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("sqlite: failed to prepare insert: %w", err)
		}

		for _, row := range rs.Rows[start:end] {
			for i := range args {
				if i < len(row) {
					args[i] = bindValue(row[i])
				} else {
					args[i] = nil
				}
			}
			if _, err := stmt.Exec(args...); err != nil {
				stmt.Close()
				tx.Rollback()
				return fmt.Errorf("sqlite: failed to insert row: %w", err)
			}
		}

		stmt.Close()
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("sqlite: failed to commit batch: %w", err)
		}
		slog.Debug("Committed insert batch", "table", table, "rows", end-start)
	}
	return nil
}

func buildCreateTable(table string, rs *common.ResultSet) string {
	kinds := rs.ColumnKinds()
	cols := make([]string, len(rs.Columns))
	for i, name := range rs.Columns {
		cols[i] = quoteIdent(name) + " " + affinity(kinds[i])
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(cols, ", "))
}

func buildInsert(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, name := range columns {
		quoted[i] = quoteIdent(name)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table),
		strings.Join(quoted, ", "),
		strings.Repeat("?, ", len(columns)-1)+"?",
	)
}

func affinity(kind common.Kind) string {
	switch kind {
	case common.KindInteger, common.KindBool:
		return "INTEGER"
	case common.KindFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// bindValue maps a Value onto a driver argument. Booleans are stored as 0/1,
// timestamps as RFC 3339 text, documents as compact JSON text.
func bindValue(v common.Value) any {
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
		if v.Bool {
			return int64(1)
		}
		return int64(0)
	case common.KindTimestamp:
		return v.Time.Format(time.RFC3339)
	case common.KindDocument:
		return v.DocJSON()
	}
	return v.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// artifact streams the temp-built database file to the destination and
// removes it afterwards.
type artifact struct {
	path string
}

func (a *artifact) WriteTo(w io.Writer) (int64, error) {
	defer os.Remove(a.path)

	f, err := os.Open(a.path)
	if err != nil {
		return 0, fmt.Errorf("sqlite: failed to reopen temp database: %w", err)
	}
	defer f.Close()

	return io.Copy(w, f)
}
