package core

import (
	"path/filepath"
	"testing"
)

func TestMemberTableUpsertIsIdempotent(t *testing.T) {
	table := NewMemberTable()
	table.Upsert("id-1", "sim", "/data/first")
	table.Upsert("id-1", "sim", "/data/second")
	if table.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", table.Len())
	}
	rec, ok := table.Get("id-1")
	if !ok {
		t.Fatalf("expected row for id-1")
	}
	if rec.Location != filepath.FromSlash("/data/second") {
		t.Fatalf("expected refreshed location, got %q", rec.Location)
	}
	if rec.Kind != "sim" {
		t.Fatalf("expected kind sim, got %q", rec.Kind)
	}
}

func TestMemberTableKindImmutableOnUpsert(t *testing.T) {
	table := NewMemberTable()
	table.Upsert("id-1", "sim", "/data/a")
	table.Upsert("id-1", "group", "/data/b")
	rec, _ := table.Get("id-1")
	if rec.Kind != "sim" {
		t.Fatalf("kind must not change on re-add, got %q", rec.Kind)
	}
}

func TestMemberTableInsertionOrder(t *testing.T) {
	table := NewMemberTable()
	for _, id := range []string{"c", "a", "b"} {
		table.Upsert(id, "sim", "/data/"+id)
	}
	ids := table.IDs()
	want := []string{"c", "a", "b"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}
	kinds := table.Kinds()
	locations := table.Locations()
	if len(kinds) != 3 || len(locations) != 3 {
		t.Fatalf("projections must parallel snapshot: %d kinds %d locations", len(kinds), len(locations))
	}
	for i, rec := range table.Snapshot() {
		if rec.ID != ids[i] || rec.Kind != kinds[i] || rec.Location != locations[i] {
			t.Fatalf("projection mismatch at %d: %+v", i, rec)
		}
	}
}

func TestMemberTableDeleteIgnoresUnknownIDs(t *testing.T) {
	table := NewMemberTable()
	table.Upsert("a", "sim", "/data/a")
	table.Delete("nope", "a", "nope")
	if table.Len() != 0 {
		t.Fatalf("expected empty table, got %d rows", table.Len())
	}
	// idempotent
	table.Delete("a")
}

func TestMemberTableDeleteKeepsSurvivorsConsistent(t *testing.T) {
	table := NewMemberTable()
	for _, id := range []string{"a", "b", "c", "d"} {
		table.Upsert(id, "sim", "/data/"+id)
	}
	table.Delete("b")
	if table.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", table.Len())
	}
	if _, ok := table.Get("b"); ok {
		t.Fatalf("b should be gone")
	}
	for _, id := range []string{"a", "c", "d"} {
		rec, ok := table.Get(id)
		if !ok || rec.ID != id {
			t.Fatalf("survivor %s lost after delete", id)
		}
	}
}

func TestMemberTableDeleteAll(t *testing.T) {
	table := NewMemberTable()
	table.Upsert("a", "sim", "/data/a")
	table.Upsert("b", "group", "/data/b")
	table.DeleteAll()
	if table.Len() != 0 {
		t.Fatalf("expected 0 rows, got %d", table.Len())
	}
	if snap := table.Snapshot(); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %v", snap)
	}
	table.Upsert("a", "sim", "/data/a2")
	if table.Len() != 1 {
		t.Fatalf("table unusable after DeleteAll")
	}
}
