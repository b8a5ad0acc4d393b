package rtfsvalue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMapSortedKeysIsStableAndOrdered(t *testing.T) {
	m := NewMap()
	m.Set(MapKey{Kind: MapKeyKeyword, Str: "b"}, IntValue(2))
	m.Set(MapKey{Kind: MapKeyKeyword, Str: "a"}, IntValue(1))
	m.Set(MapKey{Kind: MapKeyInt, Int: 3}, IntValue(3))

	want := []MapKey{
		{Kind: MapKeyKeyword, Str: "a"},
		{Kind: MapKeyKeyword, Str: "b"},
		{Kind: MapKeyInt, Int: 3},
	}
	got := m.SortedKeys()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SortedKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestMapCloneIsIndependent(t *testing.T) {
	m := NewMap()
	m.Set(MapKey{Kind: MapKeyKeyword, Str: "x"}, IntValue(1))

	clone := m.Clone()
	clone.Set(MapKey{Kind: MapKeyKeyword, Str: "x"}, IntValue(2))

	orig, _ := m.Get(MapKey{Kind: MapKeyKeyword, Str: "x"})
	if !Equal(orig, IntValue(1)) {
		t.Fatalf("mutating clone changed original: got %v", orig)
	}

	if diff := cmp.Diff([]MapKey{{Kind: MapKeyKeyword, Str: "x"}}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualVectorAndMap(t *testing.T) {
	a := NewVector(IntValue(1), StringValue("s"))
	b := NewVector(IntValue(1), StringValue("s"))
	if !Equal(a, b) {
		t.Errorf("expected structurally equal vectors to be Equal")
	}

	c := NewVector(IntValue(1), StringValue("different"))
	if Equal(a, c) {
		t.Errorf("expected structurally different vectors to not be Equal")
	}
}
