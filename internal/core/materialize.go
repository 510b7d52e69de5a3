package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"catalogcore/pkg/domain"
)

// memberRef pairs a table row with its ordinal position, so restricted
// materializations (At, SliceOf) report the member's true position on
// failure.
type memberRef struct {
	pos int
	rec domain.MemberRecord
}

// materialize produces the live handle for each referenced member,
// interleaving cache hits and freshly resolved handles in the given order.
//
// Cache misses are batched into one resolver call with the table's location
// hints. Every handle the resolver finds is written to the cache and its
// row's location is refreshed from the handle's discovered path, so a member
// that moved on disk is corrected the next time it resolves. A
// permission-class failure while pushing that refresh to the mirror is
// swallowed for that member; the handle is still returned.
//
// In strict mode any member left unresolved fails the whole call with
// MemberNotFoundError. In tolerant mode (metadata-only projections) the
// unresolved member's slot is nil and nothing is recorded against it, so it
// is re-checked on the next call.
func (c *Catalog) materialize(ctx context.Context, refs []memberRef, tolerant bool) ([]domain.Handle, error) {
	start := time.Now()
	out := make([]domain.Handle, len(refs))
	var pending []string
	hints := make(map[string]string)
	for i, ref := range refs {
		if h, ok := c.cache.get(ref.rec.ID); ok {
			out[i] = h
			continue
		}
		pending = append(pending, ref.rec.ID)
		hints[ref.rec.ID] = ref.rec.Location
	}
	if len(pending) == 0 {
		c.metrics.RecordDuration("materialize", time.Since(start))
		c.metrics.RecordResult("materialize", "cached")
		return out, nil
	}

	c.logger.DebugContext(ctx, "resolving pending members", "pending", len(pending), "total", len(refs))
	resolved, err := c.resolver.Resolve(ctx, pending, hints)
	if err != nil {
		c.metrics.RecordResult("materialize", "error")
		return nil, fmt.Errorf("resolve members: %w", err)
	}

	// Found handles are cached immediately, but the table is only
	// self-healed once every pending member is accounted for: a failed
	// materialization must leave the table unchanged.
	for id, h := range resolved {
		if h != nil {
			c.cache.put(id, h)
		}
	}
	for i, ref := range refs {
		if out[i] != nil {
			continue
		}
		h, ok := resolved[ref.rec.ID]
		if !ok || h == nil {
			if tolerant {
				continue
			}
			c.metrics.RecordResult("materialize", "not_found")
			return nil, &domain.MemberNotFoundError{Position: ref.pos, ID: ref.rec.ID}
		}
		out[i] = h
	}

	for _, id := range pending {
		h := resolved[id]
		if h == nil {
			continue
		}
		c.table.Upsert(h.ID(), h.Kind(), h.Location())
		if c.mirror == nil {
			continue
		}
		rec, _ := c.table.Get(h.ID())
		if err := c.mirror.UpsertMember(ctx, rec); err != nil {
			if !errors.Is(err, fs.ErrPermission) {
				c.metrics.RecordResult("materialize", "error")
				return nil, fmt.Errorf("mirror refresh %s: %w", h.ID(), err)
			}
			c.logger.WarnContext(ctx, "mirror refresh denied, keeping handle", "member", h.ID(), "error", err)
		}
	}
	c.metrics.RecordDuration("materialize", time.Since(start))
	c.metrics.RecordResult("materialize", "resolved")
	return out, nil
}
