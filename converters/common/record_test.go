package common

import (
	"encoding/json"
	"testing"
)

func TestRecordMarshalPreservesOrder(t *testing.T) {
	r := NewRecord(3)
	r.Set("zeta", 1)
	r.Set("alpha", 2)
	r.Set("mid", nil)

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(out); got != `{"zeta":1,"alpha":2,"mid":null}` {
		t.Errorf("Marshal = %s, want insertion order preserved", got)
	}
}

func TestRecordMarshalEmpty(t *testing.T) {
	out, err := json.Marshal(NewRecord(0))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("Marshal = %s, want {}", out)
	}
}

func TestRecordMarshalEscapesKeys(t *testing.T) {
	r := NewRecord(1)
	r.Set(`quo"te`, "v")

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if got := string(out); got != `{"quo\"te":"v"}` {
		t.Errorf("Marshal = %s, want escaped key", got)
	}
}
