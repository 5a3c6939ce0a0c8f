package csv

import (
	"bytes"
	"testing"
	"time"

	"pgconvert/converters/common"
)

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
	rs := &common.ResultSet{
		Columns: []string{"id", "name", "address", "created_at", "is_active"},
		Rows: []common.Row{
			{
				common.IntValue(1),
				common.TextValue("Doe, John"),
				common.DocumentValue(map[string]any{"city": "NY"}),
				common.TimeValue(time.Date(2023, 1, 15, 10, 30, 0, 0, time.UTC)),
				common.BoolValue(true),
			},
			{
				common.IntValue(2),
				common.TextValue("Jane"),
				common.NullValue(),
				common.TimeValue(time.Date(2023, 2, 20, 8, 0, 0, 0, time.UTC)),
				common.BoolValue(false),
			},
		},
	}

	expected := "id,name,address,created_at,is_active\n" +
		"1,\"Doe, John\",\"{\"\"city\"\":\"\"NY\"\"}\",2023-01-15T10:30:00Z,True\n" +
		"2,Jane,,2023-02-20T08:00:00Z,False\n"

	if got := render(t, rs, &common.Request{}); got != expected {
		t.Errorf("Output mismatch.\nGot:\n%s\nWant:\n%s", got, expected)
	}
}

func TestHeaderOnlyForEmptyResultSet(t *testing.T) {
	rs := &common.ResultSet{Columns: []string{"id", "name", "email"}}
	if got := render(t, rs, &common.Request{}); got != "id,name,email\n" {
		t.Errorf("Empty result set output = %q, want header only", got)
	}
}

func TestHeaderMatchesColumnOrder(t *testing.T) {
	rs := &common.ResultSet{
		Columns: []string{"zeta", "alpha", "mid"},
		Rows: []common.Row{
			{common.IntValue(1), common.IntValue(2), common.IntValue(3)},
		},
	}
	expected := "zeta,alpha,mid\n1,2,3\n"
	if got := render(t, rs, &common.Request{}); got != expected {
		t.Errorf("Column order not preserved.\nGot:\n%s\nWant:\n%s", got, expected)
	}
}

func TestEmbeddedQuotesDoubled(t *testing.T) {
	rs := &common.ResultSet{
		Columns: []string{"quote"},
		Rows:    []common.Row{{common.TextValue(`say "hi"`)}},
	}
	expected := "quote\n\"say \"\"hi\"\"\"\n"
	if got := render(t, rs, &common.Request{}); got != expected {
		t.Errorf("Quoting mismatch.\nGot:\n%q\nWant:\n%q", got, expected)
	}
}

func TestCustomDelimiter(t *testing.T) {
	rs := &common.ResultSet{
		Columns: []string{"a", "b"},
		Rows:    []common.Row{{common.IntValue(1), common.IntValue(2)}},
	}
	expected := "a;b\n1;2\n"
	if got := render(t, rs, &common.Request{Delimiter: ';'}); got != expected {
		t.Errorf("Output = %q, want %q", got, expected)
	}
}
