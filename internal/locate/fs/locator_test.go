package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"catalogcore/pkg/domain"
)

func writeEntity(t *testing.T, dir, kind, name string) *domain.Entity {
	t.Helper()
	e := &domain.Entity{EntityID: domain.NewID(), EntityKind: kind, EntityName: name, Dir: dir}
	if _, err := WriteStatefile(dir, e); err != nil {
		t.Fatalf("write statefile: %v", err)
	}
	return e
}

func TestResolveFromHintedDirectory(t *testing.T) {
	dir := t.TempDir()
	e := writeEntity(t, dir, "sim", "run1")
	locator := New()

	out, err := locator.Resolve(context.Background(), []string{e.EntityID}, map[string]string{e.EntityID: dir})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	h := out[e.EntityID]
	if h == nil {
		t.Fatalf("expected hinted resolution")
	}
	if h.Kind() != "sim" || h.Name() != "run1" {
		t.Fatalf("unexpected handle: %v", h)
	}
	if h.Location() != dir {
		t.Fatalf("expected location %s, got %s", dir, h.Location())
	}
}

func TestResolveFallsBackToRootWalk(t *testing.T) {
	root := t.TempDir()
	moved := filepath.Join(root, "deep", "nested")
	e := writeEntity(t, moved, "sim", "wanderer")
	locator := New(root)

	// hint points at the old, now-empty directory
	stale := t.TempDir()
	out, err := locator.Resolve(context.Background(), []string{e.EntityID}, map[string]string{e.EntityID: stale})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	h := out[e.EntityID]
	if h == nil {
		t.Fatalf("expected fallback discovery to find the moved entity")
	}
	if h.Location() != moved {
		t.Fatalf("expected discovered location %s, got %s", moved, h.Location())
	}
}

func TestResolveReportsAbsentEntities(t *testing.T) {
	locator := New(t.TempDir())
	id := domain.NewID()
	out, err := locator.Resolve(context.Background(), []string{id}, map[string]string{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if h, present := out[id]; !present || h != nil {
		t.Fatalf("expected explicit absent entry, got %v (present=%v)", h, present)
	}
}

func TestResolveIgnoresForeignAndMalformedFiles(t *testing.T) {
	root := t.TempDir()
	e := writeEntity(t, root, "sim", "good")
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	bad := filepath.Join(root, "sim."+domain.NewID()+".json")
	if err := os.WriteFile(bad, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	locator := New(root)
	out, err := locator.Resolve(context.Background(), []string{e.EntityID}, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if out[e.EntityID] == nil {
		t.Fatalf("malformed neighbors must not break discovery")
	}
}

func TestExpandDirectoryYieldsAllEntities(t *testing.T) {
	dir := t.TempDir()
	a := writeEntity(t, dir, "sim", "a")
	b := writeEntity(t, dir, "group", "b")
	locator := New()

	handles, err := locator.Expand(context.Background(), dir)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(handles))
	}
	got := map[string]bool{}
	for _, h := range handles {
		got[h.ID()] = true
	}
	if !got[a.EntityID] || !got[b.EntityID] {
		t.Fatalf("expected both entities, got %v", got)
	}
}

func TestExpandStatefilePathYieldsOneEntity(t *testing.T) {
	dir := t.TempDir()
	e := writeEntity(t, dir, "sim", "single")
	path, err := WriteStatefile(dir, e)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	locator := New()
	handles, err := locator.Expand(context.Background(), path)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(handles) != 1 || handles[0].ID() != e.EntityID {
		t.Fatalf("expected exactly the one entity, got %v", handles)
	}
}

func TestExpandMissingLocationYieldsNothing(t *testing.T) {
	locator := New()
	handles, err := locator.Expand(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(handles) != 0 {
		t.Fatalf("expected no handles, got %v", handles)
	}
}
