package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"catalogcore/pkg/domain"
)

func TestMapPreservesMemberOrder(t *testing.T) {
	ctx := context.Background()
	handles, resolver := handleFixtures(10)
	c := mustCatalog(t, resolver)
	if err := c.Add(ctx, []domain.Handle(handles)); err != nil {
		t.Fatalf("add: %v", err)
	}

	fn := func(_ context.Context, m domain.Handle) (string, error) {
		// vary completion time so parallel completion order differs
		// from member order
		time.Sleep(time.Duration(len(m.Name())%3) * time.Millisecond)
		return m.ID(), nil
	}

	for _, concurrency := range []int{1, 4} {
		got, err := Map(ctx, c, fn, concurrency)
		if err != nil {
			t.Fatalf("map concurrency=%d: %v", concurrency, err)
		}
		ids := c.IDs()
		if len(got) != len(ids) {
			t.Fatalf("concurrency=%d: expected %d results, got %d", concurrency, len(ids), len(got))
		}
		for i, id := range ids {
			if got[i] != id {
				t.Fatalf("concurrency=%d: result %d = %s, want %s", concurrency, i, got[i], id)
			}
		}
	}
}

func TestMapSequentialAppliesInOrder(t *testing.T) {
	ctx := context.Background()
	handles, resolver := handleFixtures(5)
	c := mustCatalog(t, resolver)
	if err := c.Add(ctx, []domain.Handle(handles)); err != nil {
		t.Fatalf("add: %v", err)
	}
	var seen []string
	_, err := Map(ctx, c, func(_ context.Context, m domain.Handle) (struct{}, error) {
		seen = append(seen, m.ID())
		return struct{}{}, nil
	}, 1)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	for i, id := range c.IDs() {
		if seen[i] != id {
			t.Fatalf("sequential map applied out of order: %v", seen)
		}
	}
}

func TestMapBoundsWorkerCount(t *testing.T) {
	ctx := context.Background()
	handles, resolver := handleFixtures(16)
	c := mustCatalog(t, resolver)
	if err := c.Add(ctx, []domain.Handle(handles)); err != nil {
		t.Fatalf("add: %v", err)
	}
	const concurrency = 3
	var active, peak int64
	var mu sync.Mutex
	_, err := Map(ctx, c, func(_ context.Context, _ domain.Handle) (int, error) {
		n := atomic.AddInt64(&active, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return 0, nil
	}, concurrency)
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if peak > concurrency {
		t.Fatalf("worker pool exceeded bound: peak %d > %d", peak, concurrency)
	}
}

func TestMapTaskFailureFailsWholeCall(t *testing.T) {
	ctx := context.Background()
	handles, resolver := handleFixtures(6)
	c := mustCatalog(t, resolver)
	if err := c.Add(ctx, []domain.Handle(handles)); err != nil {
		t.Fatalf("add: %v", err)
	}
	boom := errors.New("boom")
	for _, concurrency := range []int{1, 4} {
		results, err := Map(ctx, c, func(_ context.Context, m domain.Handle) (int, error) {
			if m.ID() == "id-3" {
				return 0, boom
			}
			return 1, nil
		}, concurrency)
		if !errors.Is(err, boom) {
			t.Fatalf("concurrency=%d: expected wrapped task error, got %v", concurrency, err)
		}
		if results != nil {
			t.Fatalf("concurrency=%d: no partial results on failure, got %v", concurrency, results)
		}
	}
}

func TestMapFailsWhenMemberMissing(t *testing.T) {
	ctx := context.Background()
	resolver := &stubResolver{handles: map[string]domain.Handle{}}
	c := mustCatalog(t, resolver)
	c.table.Upsert("ghost", "sim", "/data/ghost")
	_, err := Map(ctx, c, func(_ context.Context, _ domain.Handle) (int, error) { return 0, nil }, 4)
	var notFound *domain.MemberNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected MemberNotFoundError, got %v", err)
	}
}
