package speakermerge

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestReadMapping(t *testing.T) {
	dup, canon := uuid.New(), uuid.New()
	doc := dup.String() + ": " + canon.String() + "\n" + canon.String() + ": " + canon.String() + "\n"
	m, err := ReadMapping(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadMapping: err=%v", err)
	}
	if len(m) != 1 || m[dup] != canon {
		t.Fatalf("unexpected mapping: %v", m)
	}
}

func TestReadMappingRejectsBadIDs(t *testing.T) {
	if _, err := ReadMapping(strings.NewReader("nope: " + uuid.NewString() + "\n")); err == nil {
		t.Fatalf("expected error for malformed duplicate id")
	}
}

func TestReadMappingEmpty(t *testing.T) {
	m, err := ReadMapping(strings.NewReader(""))
	if err != nil || len(m) != 0 {
		t.Fatalf("empty document: m=%v err=%v", m, err)
	}
}

func TestWriteMappingReadsBack(t *testing.T) {
	in := Mapping{uuid.New(): uuid.New(), uuid.New(): uuid.New()}
	var buf bytes.Buffer
	if err := WriteMapping(&buf, in); err != nil {
		t.Fatalf("WriteMapping: err=%v", err)
	}
	out, err := ReadMapping(&buf)
	if err != nil {
		t.Fatalf("ReadMapping: err=%v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("size mismatch: %d != %d", len(out), len(in))
	}
	for k, v := range in {
		if out[k] != v {
			t.Fatalf("entry %s: got %s want %s", k, out[k], v)
		}
	}
}
