package world

import "testing"

func TestSlotTableTryAddAndRemove(t *testing.T) {
	tbl := NewSlotTable([]string{"ks_ferrari_sf70h", "ks_ferrari_sf70h"}, []string{"red", "blue"})
	id1, ok := tbl.TryAdd("ks_ferrari_sf70h", Driver{GUID: "a"})
	if !ok || id1 != 0 {
		t.Fatalf("expected slot 0, got %d ok=%v", id1, ok)
	}
	id2, ok := tbl.TryAdd("ks_ferrari_sf70h", Driver{GUID: "b"})
	if !ok || id2 != 1 {
		t.Fatalf("expected slot 1, got %d ok=%v", id2, ok)
	}
	if _, ok := tbl.TryAdd("ks_ferrari_sf70h", Driver{GUID: "c"}); ok {
		t.Error("expected slot exhaustion")
	}

	tbl.Remove(id1)
	id3, ok := tbl.TryAdd("ks_ferrari_sf70h", Driver{GUID: "d"})
	if !ok || id3 != 0 {
		t.Fatalf("expected freed slot 0 reused, got %d ok=%v", id3, ok)
	}
}

func TestSlotTableModelMismatchSkipped(t *testing.T) {
	tbl := NewSlotTable([]string{"car_a", "car_b"}, []string{"", ""})
	id, ok := tbl.TryAdd("car_b", Driver{})
	if !ok || id != 1 {
		t.Fatalf("expected slot 1 for car_b, got %d ok=%v", id, ok)
	}
}

func TestSlotTableLenMatchesConfiguredCars(t *testing.T) {
	tbl := NewSlotTable([]string{"a", "b", "c"}, nil)
	if tbl.Len() != 3 {
		t.Errorf("expected 3 slots, got %d", tbl.Len())
	}
}
