package ident

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()

	id, err := g.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", id, err)
	}
	if parsed.Version() != 4 {
		t.Errorf("expected UUID v4, got v%d", parsed.Version())
	}
}

func TestParticipantIDGenerator(t *testing.T) {
	g := NewParticipantIDGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id, err := g.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(id) != ParticipantIDSize {
			t.Fatalf("expected length %d, got %q", ParticipantIDSize, id)
		}
		for _, c := range id {
			if !strings.ContainsRune(ParticipantIDAlphabet, c) {
				t.Fatalf("character %q outside hex alphabet in %q", c, id)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q after %d generations", id, i)
		}
		seen[id] = true
	}
}

func TestNewNanoIDGeneratorValidation(t *testing.T) {
	if _, err := NewNanoIDGenerator(0, "ab"); err == nil {
		t.Error("expected error for size 0")
	}
	if _, err := NewNanoIDGenerator(8, "a"); err == nil {
		t.Error("expected error for single-character alphabet")
	}
}
