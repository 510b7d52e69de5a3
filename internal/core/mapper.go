package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"catalogcore/pkg/domain"
)

// MapFunc is applied to one resolved member. Workers receive the handle and
// the call context only; they must not share mutable state with the caller
// beyond the value they return.
type MapFunc[T any] func(ctx context.Context, member domain.Handle) (T, error)

// Map applies fn to every member of the catalog and returns one result per
// member, aligned to table order regardless of concurrency.
//
// With concurrency <= 1 the function is applied strictly sequentially in
// member order. Otherwise every member is dispatched up front to a pool of
// concurrency workers; a free worker greedily pulls the next unstarted
// member, results are gathered keyed by member id and re-projected into
// table order at the end. Any single task failure fails the whole call; no
// partial results are returned.
func Map[T any](ctx context.Context, c *Catalog, fn MapFunc[T], concurrency int) ([]T, error) {
	members, err := c.Members(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { c.metrics.RecordDuration("map", time.Since(start)) }()

	if concurrency <= 1 {
		out := make([]T, len(members))
		for i, m := range members {
			v, err := fn(ctx, m)
			if err != nil {
				c.metrics.RecordResult("map", "error")
				return nil, fmt.Errorf("map member %s: %w", m.ID(), err)
			}
			out[i] = v
		}
		c.metrics.RecordResult("map", "ok")
		return out, nil
	}

	type taskResult struct {
		id    string
		value T
		err   error
	}
	tasks := make(chan domain.Handle)
	results := make(chan taskResult, len(members))
	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range tasks {
				v, err := fn(ctx, m)
				results <- taskResult{id: m.ID(), value: v, err: err}
			}
		}()
	}
	go func() {
		for _, m := range members {
			tasks <- m
		}
		close(tasks)
		wg.Wait()
		close(results)
	}()

	byID := make(map[string]T, len(members))
	var firstErr error
	for r := range results {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("map member %s: %w", r.id, r.err)
			}
			continue
		}
		byID[r.id] = r.value
	}
	if firstErr != nil {
		c.metrics.RecordResult("map", "error")
		return nil, firstErr
	}

	out := make([]T, len(members))
	for i, m := range members {
		out[i] = byID[m.ID()]
	}
	c.metrics.RecordResult("map", "ok")
	return out, nil
}
