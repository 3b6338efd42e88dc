package favorite

import (
	"context"
	"testing"
)

func TestInMemoryStore(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	got, err := s.IDsForUser(ctx, "unknown")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("unknown user should have an empty set, got %v", got)
	}

	s.Add("u1", "l1")
	s.Add("u1", "l2")
	s.Add("u2", "l3")

	got, err = s.IDsForUser(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !got["l1"] || !got["l2"] || got["l3"] {
		t.Errorf("u1 favorites = %v, want l1 and l2 only", got)
	}

	s.Remove("u1", "l1")
	s.Remove("u1", "never-added")
	got, _ = s.IDsForUser(ctx, "u1")
	if got["l1"] || !got["l2"] {
		t.Errorf("after remove, favorites = %v, want l2 only", got)
	}

	// The returned set is a copy; mutating it must not leak back.
	got["l9"] = true
	again, _ := s.IDsForUser(ctx, "u1")
	if again["l9"] {
		t.Error("caller mutation leaked into the store")
	}
}
