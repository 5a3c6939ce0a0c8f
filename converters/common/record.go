package common

import (
	"bytes"
	"encoding/json"
)

// Record is a JSON object whose fields marshal in insertion order, so
// serialized artifacts keep the result set's column order instead of
// encoding/json's alphabetical map order.
type Record struct {
	Keys   []string
	Values []any
}

func NewRecord(capacity int) *Record {
	return &Record{
		Keys:   make([]string, 0, capacity),
		Values: make([]any, 0, capacity),
	}
}

func (r *Record) Set(key string, value any) {
	r.Keys = append(r.Keys, key)
	r.Values = append(r.Values, value)
}

func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(r.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
