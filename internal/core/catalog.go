package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"catalogcore/pkg/domain"
)

// Catalog is an ordered, indexable collection of tracked members backed by a
// member table and a handle cache. The table is authoritative for
// membership; handles are resolved lazily and re-located when the cache
// misses. A catalog and its table and cache are owned by a single logical
// thread of control; Map is the only operation that fans out work.
type Catalog struct {
	table    *MemberTable
	cache    objectCache
	resolver domain.Resolver
	mirror   domain.Mirror
	metrics  MetricsRecorder
	logger   *slog.Logger
}

// Option configures a Catalog at construction.
type Option func(*Catalog) error

// WithMirror attaches a durable mirror. Existing mirror rows hydrate the
// table during New; afterwards the in-memory table stays authoritative and
// the mirror only receives row changes.
func WithMirror(m domain.Mirror) Option {
	return func(c *Catalog) error {
		c.mirror = m
		return nil
	}
}

// WithCacheSize bounds the handle cache to at most size resident entries.
func WithCacheSize(size int) Option {
	return func(c *Catalog) error {
		cache, err := newLRUCache(size)
		if err != nil {
			return fmt.Errorf("cache size %d: %w", size, err)
		}
		c.cache = cache
		return nil
	}
}

// WithMetrics attaches a metrics recorder for resolution and map timings.
func WithMetrics(r MetricsRecorder) Option {
	return func(c *Catalog) error {
		c.metrics = r
		return nil
	}
}

// WithLogger attaches a structured logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// New constructs an empty catalog over the given resolver. When a mirror is
// configured its stored rows are loaded into the table; the cache starts
// cold either way.
func New(resolver domain.Resolver, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		table:    NewMemberTable(),
		cache:    newMapCache(),
		resolver: resolver,
		metrics:  NopMetricsRecorder{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.mirror != nil {
		rows, err := c.mirror.LoadMembers(context.Background())
		if err != nil {
			return nil, fmt.Errorf("hydrate from mirror: %w", err)
		}
		for _, r := range rows {
			c.table.Upsert(r.ID, r.Kind, r.Location)
		}
	}
	return c, nil
}

// NewFrom constructs a catalog and adds the given items, which may be
// handles, location strings, slices, or other catalogs.
func NewFrom(ctx context.Context, resolver domain.Resolver, opts []Option, items ...any) (*Catalog, error) {
	c, err := New(resolver, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Add(ctx, items...); err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of members, counted from the table.
func (c *Catalog) Len() int { return c.table.Len() }

// IDs returns member ids in table order.
func (c *Catalog) IDs() []string { return c.table.IDs() }

// Kinds returns member kinds in table order.
func (c *Catalog) Kinds() []string { return c.table.Kinds() }

// Locations returns last-known member locations in table order.
func (c *Catalog) Locations() []string { return c.table.Locations() }

// Snapshot returns the member records in table order.
func (c *Catalog) Snapshot() []domain.MemberRecord { return c.table.Snapshot() }

// Add registers any number of items as members. An item may be a live
// handle, a location string (expanded through the resolver, possibly to
// several entities), a slice of either, or another catalog, whose members
// are flattened in. Nil items are ignored. Adding a known id refreshes its
// location and never duplicates the member.
func (c *Catalog) Add(ctx context.Context, items ...any) error {
	handles, err := c.collect(ctx, items)
	if err != nil {
		return err
	}
	for _, h := range handles {
		c.table.Upsert(h.ID(), h.Kind(), h.Location())
		if c.mirror != nil {
			rec, _ := c.table.Get(h.ID())
			if err := c.mirror.UpsertMember(ctx, rec); err != nil {
				return fmt.Errorf("mirror member %s: %w", h.ID(), err)
			}
		}
	}
	return nil
}

// collect performs the boundary parse for Add: each item is classified as
// exactly one of register-handle, expand-location, or recurse-into-collection.
func (c *Catalog) collect(ctx context.Context, items []any) ([]domain.Handle, error) {
	var out []domain.Handle
	for _, item := range items {
		switch v := item.(type) {
		case nil:
			continue
		case domain.Handle:
			out = append(out, v)
		case string:
			expanded, err := c.resolver.Expand(ctx, v)
			if err != nil {
				return nil, fmt.Errorf("expand location %s: %w", v, err)
			}
			out = append(out, expanded...)
		case *Catalog:
			members, err := v.Members(ctx)
			if err != nil {
				return nil, err
			}
			out = append(out, members...)
		case []domain.Handle:
			out = append(out, v...)
		case []string:
			nested := make([]any, len(v))
			for i, s := range v {
				nested[i] = s
			}
			sub, err := c.collect(ctx, nested)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		case []any:
			sub, err := c.collect(ctx, v)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		default:
			return nil, &domain.InvalidArgumentError{Value: item}
		}
	}
	return out, nil
}

// Remove drops members given as ordinal positions (0-based against the
// current IDs() order) or as handles. An argument of any other type fails
// with InvalidArgumentError and leaves the catalog unchanged.
func (c *Catalog) Remove(ctx context.Context, members ...any) error {
	ids := c.table.IDs()
	remove := make([]string, 0, len(members))
	for _, m := range members {
		switch v := m.(type) {
		case int:
			if v < 0 || v >= len(ids) {
				return &domain.InvalidArgumentError{Value: v}
			}
			remove = append(remove, ids[v])
		case domain.Handle:
			remove = append(remove, v.ID())
		default:
			return &domain.InvalidArgumentError{Value: m}
		}
	}
	return c.removeIDs(ctx, remove)
}

// RemoveAll drops every member.
func (c *Catalog) RemoveAll(ctx context.Context) error {
	ids := c.table.IDs()
	c.table.DeleteAll()
	c.cache.purge()
	if c.mirror != nil && len(ids) > 0 {
		if err := c.mirror.DeleteMembers(ctx, ids...); err != nil {
			return fmt.Errorf("mirror delete: %w", err)
		}
	}
	return nil
}

func (c *Catalog) removeIDs(ctx context.Context, ids []string) error {
	c.table.Delete(ids...)
	for _, id := range ids {
		c.cache.remove(id)
	}
	if c.mirror != nil && len(ids) > 0 {
		if err := c.mirror.DeleteMembers(ctx, ids...); err != nil {
			return fmt.Errorf("mirror delete: %w", err)
		}
	}
	return nil
}

// Members returns every member as a resolved handle, in table order. Any
// member the resolver cannot locate fails the whole call with
// MemberNotFoundError; a catalog is expected to resolve every entry it
// believes it contains.
func (c *Catalog) Members(ctx context.Context) ([]domain.Handle, error) {
	return c.materialize(ctx, c.refs(), false)
}

// At returns the resolved handle at position i.
func (c *Catalog) At(ctx context.Context, i int) (domain.Handle, error) {
	rows := c.table.Snapshot()
	if i < 0 || i >= len(rows) {
		return nil, &domain.InvalidArgumentError{Value: i}
	}
	out, err := c.materialize(ctx, []memberRef{{pos: i, rec: rows[i]}}, false)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// SliceOf returns a new catalog holding the members in [i, j), resolved
// from this one. The source catalog is not mutated.
func (c *Catalog) SliceOf(ctx context.Context, i, j int) (*Catalog, error) {
	rows := c.table.Snapshot()
	if i < 0 || j < i || j > len(rows) {
		return nil, &domain.InvalidArgumentError{Value: fmt.Sprintf("[%d:%d]", i, j)}
	}
	refs := make([]memberRef, 0, j-i)
	for pos := i; pos < j; pos++ {
		refs = append(refs, memberRef{pos: pos, rec: rows[pos]})
	}
	handles, err := c.materialize(ctx, refs, false)
	if err != nil {
		return nil, err
	}
	out, err := New(c.resolver, WithMetrics(c.metrics), WithLogger(c.logger))
	if err != nil {
		return nil, err
	}
	for _, h := range handles {
		out.table.Upsert(h.ID(), h.Kind(), h.Location())
		out.cache.put(h.ID(), h)
	}
	return out, nil
}

// Names returns each member's display name in table order. Unlike Members,
// this path is best-effort: a member that fails to resolve contributes an
// empty string instead of failing the call, and is re-checked on the next
// call rather than being marked missing.
func (c *Catalog) Names(ctx context.Context) ([]string, error) {
	handles, err := c.materialize(ctx, c.refs(), true)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(handles))
	for i, h := range handles {
		if h != nil {
			names[i] = h.Name()
		}
	}
	return names, nil
}

func (c *Catalog) refs() []memberRef {
	rows := c.table.Snapshot()
	refs := make([]memberRef, len(rows))
	for i, r := range rows {
		refs[i] = memberRef{pos: i, rec: r}
	}
	return refs
}
