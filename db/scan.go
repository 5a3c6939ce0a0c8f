package db

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"pgconvert/converters/common"
)

// valueFor tags a scanned column value with its semantic kind. dbType is the
// driver's DatabaseTypeName for the column; it decides whether textual
// payloads are JSON documents or numerics. Anything unrecognized degrades to
// text rather than failing the fetch.
func valueFor(dbType string, raw any) common.Value {
	if raw == nil {
		return common.NullValue()
	}

	switch v := raw.(type) {
	case int64:
		return common.IntValue(v)
	case int32:
		return common.IntValue(int64(v))
	case int16:
		return common.IntValue(int64(v))
	case float64:
		return common.FloatValue(v)
	case float32:
		return common.FloatValue(float64(v))
	case bool:
		return common.BoolValue(v)
	case time.Time:
		return common.TimeValue(v)
	case string:
		return textValue(dbType, v)
	case []byte:
		return textValue(dbType, string(v))
	}

	slog.Warn("Unexpected driver value, degrading to text", "db_type", dbType, "go_type", fmt.Sprintf("%T", raw))
	return common.TextValue(fmt.Sprintf("%v", raw))
}

func textValue(dbType, s string) common.Value {
	switch strings.ToUpper(dbType) {
	case "JSON", "JSONB":
		var doc any
		if err := json.Unmarshal([]byte(s), &doc); err == nil {
			return common.DocumentValue(doc)
		}
		slog.Warn("Invalid JSON column payload, keeping raw text", "db_type", dbType)
		return common.TextValue(s)
	case "NUMERIC", "DECIMAL":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return common.FloatValue(f)
		}
		return common.TextValue(s)
	}
	return common.TextValue(s)
}
