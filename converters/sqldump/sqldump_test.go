package sqldump

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"pgconvert/converters/common"
)

func sampleResultSet() *common.ResultSet {
	return &common.ResultSet{
		Columns: []string{"id", "name", "email", "age", "address", "created_at", "is_active"},
		Rows: []common.Row{
			{
				common.IntValue(1),
				common.TextValue("John Doe"),
				common.TextValue("john@example.com"),
				common.IntValue(30),
				common.DocumentValue(map[string]any{"city": "New York"}),
				common.TimeValue(time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)),
				common.BoolValue(true),
			},
			{
				common.IntValue(2),
				common.TextValue("Jane Smith"),
				common.NullValue(),
				common.IntValue(25),
				common.NullValue(),
				common.TimeValue(time.Date(2023, 2, 20, 8, 0, 0, 0, time.UTC)),
				common.BoolValue(false),
			},
			{
				common.IntValue(3),
				common.TextValue("Bob O'Brien"),
				common.TextValue("bob@test.io"),
				common.NullValue(),
				common.DocumentValue(map[string]any{"zip": "10001"}),
				common.NullValue(),
				common.BoolValue(true),
			},
		},
	}
}

func render(t *testing.T, rs *common.ResultSet, req *common.Request) string {
	t.Helper()
	c := &Converter{}
	artifact, err := c.Convert(c.Preprocess(rs, req), req)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	var buf bytes.Buffer
	if _, err := artifact.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo failed: %v", err)
	}
	return buf.String()
}

func TestConvertGolden(t *testing.T) {
	got := render(t, sampleResultSet(), &common.Request{TableName: "users"})

	expected := "CREATE TABLE `users` (\n" +
		"    `id` INT,\n" +
		"    `name` VARCHAR(11),\n" +
		"    `email` VARCHAR(16),\n" +
		"    `age` INT,\n" +
		"    `address` JSON,\n" +
		"    `created_at` VARCHAR(32),\n" +
		"    `is_active` BOOLEAN\n" +
		");\n" +
		"\n" +
		"INSERT INTO `users` (`id`, `name`, `email`, `age`, `address`, `created_at`, `is_active`) VALUES\n" +
		"    (1, 'John Doe', 'john@example.com', 30, '{\"city\":\"New York\"}', '2023-01-15T10:30:00Z', TRUE);\n" +
		"INSERT INTO `users` (`id`, `name`, `email`, `age`, `address`, `created_at`, `is_active`) VALUES\n" +
		"    (2, 'Jane Smith', NULL, 25, NULL, '2023-02-20T08:00:00Z', FALSE);\n" +
		"INSERT INTO `users` (`id`, `name`, `email`, `age`, `address`, `created_at`, `is_active`) VALUES\n" +
		"    (3, 'Bob O''Brien', 'bob@test.io', NULL, '{\"zip\":\"10001\"}', NULL, TRUE);\n"

	if got != expected {
		t.Errorf("Output mismatch.\nGot:\n%s\nWant:\n%s", got, expected)
	}
}

func TestNullValuesUnquoted(t *testing.T) {
	out := render(t, sampleResultSet(), &common.Request{TableName: "users"})
	if strings.Contains(out, "'NULL'") || strings.Contains(out, "'None'") || strings.Contains(out, "''," ) {
		t.Errorf("NULL rendered as a quoted string:\n%s", out)
	}
}

func TestBatchInsert(t *testing.T) {
	out := render(t, sampleResultSet(), &common.Request{TableName: "users", SQLBatchSize: 2})

	if got := strings.Count(out, "INSERT INTO"); got != 2 {
		t.Errorf("Expected 2 batched INSERT statements, got %d:\n%s", got, out)
	}
	if !strings.Contains(out, "),\n    (") {
		t.Errorf("Expected multi-row tuples in batch mode:\n%s", out)
	}
}

func TestEmptyResultSet(t *testing.T) {
	rs := &common.ResultSet{Columns: []string{"id", "note"}}
	out := render(t, rs, &common.Request{TableName: "empty"})

	if !strings.Contains(out, "CREATE TABLE `empty`") {
		t.Errorf("Missing CREATE TABLE for empty result set:\n%s", out)
	}
	if strings.Contains(out, "INSERT") {
		t.Errorf("Unexpected INSERT for empty result set:\n%s", out)
	}
	// Columns with no observed values fall back to the default width.
	if !strings.Contains(out, "VARCHAR(255)") {
		t.Errorf("Expected default VARCHAR(255) for all-null columns:\n%s", out)
	}
}

func TestPreprocessSanitizesColumns(t *testing.T) {
	rs := &common.ResultSet{
		Columns: []string{"user id", "2nd col"},
		Rows:    []common.Row{{common.IntValue(1), common.TextValue("x")}},
	}

	c := &Converter{}
	got := c.Preprocess(rs, &common.Request{})
	if got.Columns[0] != "user_id" || got.Columns[1] != "c_2nd_col" {
		t.Errorf("Sanitized columns = %v", got.Columns)
	}
	if len(got.Rows) != 1 {
		t.Errorf("Preprocess must not drop rows")
	}
	if rs.Columns[0] != "user id" {
		t.Errorf("Preprocess mutated the input result set")
	}
}
