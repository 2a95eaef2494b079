package id

import (
	"encoding/hex"
	"strings"
	"testing"
)

func TestRequestIDGenerator_Format(t *testing.T) {
	t.Parallel()

	gen := NewRequestIDGenerator()
	seen := make(map[string]struct{}, 64)
	for range 64 {
		got, err := gen.NewID()
		if err != nil {
			t.Fatalf("new id: %v", err)
		}
		raw, ok := strings.CutPrefix(got, RequestPrefix)
		if !ok {
			t.Fatalf("missing prefix in %q", got)
		}
		if len(raw) != 24 {
			t.Fatalf("expected 24 hex chars, got %d in %q", len(raw), got)
		}
		if _, err := hex.DecodeString(raw); err != nil {
			t.Fatalf("not hex: %q", got)
		}
		if _, dup := seen[got]; dup {
			t.Fatalf("duplicate id %q", got)
		}
		seen[got] = struct{}{}
	}
}

func TestRandomGenerator_DefaultsEntropy(t *testing.T) {
	t.Parallel()

	got, err := NewRandomGenerator("", 0).NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if len(got) != 2*defaultEntropy {
		t.Fatalf("unexpected length %d for %q", len(got), got)
	}
}
