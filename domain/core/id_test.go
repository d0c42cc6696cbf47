package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestTypedIDEmptiness tests IsEmpty on the domain-specific ID types
func TestTypedIDEmptiness(t *testing.T) {
	if !SnapshotID("").IsEmpty() || !RunID("").IsEmpty() {
		t.Error("Expected zero-valued typed IDs to report empty")
	}

	snap := SnapshotID(NewID())
	run := RunID(NewID())
	if snap.IsEmpty() || run.IsEmpty() {
		t.Errorf("Expected generated IDs to be non-empty, got %q and %q", snap, run)
	}
}

// TestParseSnapshotID tests snapshot ID parsing
func TestParseSnapshotID(t *testing.T) {
	tests := []struct {
		input    string
		expected SnapshotID
		hasError bool
	}{
		{"valid-id", SnapshotID("valid-id"), false},
		{"", "", true},
		{"   ", "", true},
	}

	for _, test := range tests {
		result, err := ParseSnapshotID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %v for input '%s', got %v", test.expected, test.input, result)
		}
	}
}

// TestHashDeterminism tests that identical payloads hash identically
func TestHashDeterminism(t *testing.T) {
	a := NewHash([]byte("payload"))
	b := NewHash([]byte("payload"))
	if !a.Equals(b) {
		t.Errorf("Expected identical hashes, got %s and %s", a, b)
	}

	c := NewHash([]byte("other payload"))
	if a.Equals(c) {
		t.Error("Expected different payloads to hash differently")
	}

	if a.IsEmpty() {
		t.Error("Expected non-empty hash")
	}
}
