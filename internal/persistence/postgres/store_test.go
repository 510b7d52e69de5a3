package postgres

import (
	"context"
	"os"
	"testing"

	"catalogcore/pkg/domain"
)

// Postgres tests require a reachable server; they are skipped unless
// CATALOGCORE_TEST_POSTGRES_DSN is set.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("CATALOGCORE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CATALOGCORE_TEST_POSTGRES_DSN not set")
	}
	store, err := New(dsn)
	if err != nil {
		t.Fatalf("new postgres store: %v", err)
	}
	t.Cleanup(func() {
		_, _ = store.DB().Exec(`DELETE FROM members`)
		_ = store.Close()
	})
	return store
}

func TestUpsertLoadDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	records := []domain.MemberRecord{
		{ID: "pg-a", Kind: "sim", Location: "/data/a"},
		{ID: "pg-b", Kind: "group", Location: "/data/b"},
	}
	for _, r := range records {
		if err := store.UpsertMember(ctx, r); err != nil {
			t.Fatalf("upsert %s: %v", r.ID, err)
		}
	}
	if err := store.UpsertMember(ctx, domain.MemberRecord{ID: "pg-a", Kind: "other", Location: "/data/moved"}); err != nil {
		t.Fatalf("re-upsert: %v", err)
	}
	rows, err := store.LoadMembers(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].ID != "pg-a" || rows[0].Kind != "sim" || rows[0].Location != "/data/moved" {
		t.Fatalf("expected refreshed location with immutable kind, got %+v", rows[0])
	}
	if err := store.DeleteMembers(ctx, "pg-a", "ghost"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err = store.LoadMembers(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "pg-b" {
		t.Fatalf("expected only pg-b, got %v", rows)
	}
}
