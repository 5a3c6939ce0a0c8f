package common

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the semantic type of a Value. A column keeps the same kind
// for every row of one result set; converters fall back to the text
// representation when they meet a kind they have no mapping for.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindFloat
	KindText
	KindBool
	KindTimestamp
	KindDocument
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindDocument:
		return "document"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Value is a tagged union over the column types the tool understands.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Bool  bool
	Time  time.Time
	Doc   any // decoded JSON document (map[string]any, []any or scalar)
}

func NullValue() Value            { return Value{Kind: KindNull} }
func IntValue(i int64) Value      { return Value{Kind: KindInteger, Int: i} }
func FloatValue(f float64) Value  { return Value{Kind: KindFloat, Float: f} }
func TextValue(s string) Value    { return Value{Kind: KindText, Text: s} }
func BoolValue(b bool) Value      { return Value{Kind: KindBool, Bool: b} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTimestamp, Time: t} }
func DocumentValue(doc any) Value { return Value{Kind: KindDocument, Doc: doc} }

func (v Value) IsNull() bool { return v.Kind == KindNull }

// String returns the text fallback representation. It is what a converter
// emits for a kind it cannot map natively, so it must never fail.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInteger:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindText:
		return v.Text
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindTimestamp:
		return v.Time.Format(time.RFC3339)
	case KindDocument:
		return v.DocJSON()
	}
	return ""
}

// DocJSON renders the document as compact JSON text. Used by formats that
// store documents as strings (CSV, SQL).
func (v Value) DocJSON() string {
	b, err := json.Marshal(v.Doc)
	if err != nil {
		return fmt.Sprintf("%v", v.Doc)
	}
	return string(b)
}

// Row holds one record's values, positionally aligned with ResultSet.Columns.
type Row []Value

// ResultSet is the immutable product of a single fetch: the authoritative
// column order plus the rows in source order. It stays valid with zero rows.
type ResultSet struct {
	Columns []string
	Rows    []Row
}

// ColumnKinds reports the first non-null kind observed per column, in column
// order. A column that never carries a value reports KindNull.
func (rs *ResultSet) ColumnKinds() []Kind {
	kinds := make([]Kind, len(rs.Columns))
	for i := range kinds {
		kinds[i] = KindNull
	}
	for _, row := range rs.Rows {
		done := true
		for i := range kinds {
			if kinds[i] != KindNull {
				continue
			}
			if i < len(row) && row[i].Kind != KindNull {
				kinds[i] = row[i].Kind
			} else {
				done = false
			}
		}
		if done {
			break
		}
	}
	return kinds
}
