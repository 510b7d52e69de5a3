// Package blob locates members through statefiles held in a statefile
// archive, so members archived off the local filesystem stay resolvable.
// Archive locations are scheme-qualified keys ("blob://<key>").
package blob

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"catalogcore/internal/archive"
	"catalogcore/internal/locate"
	"catalogcore/pkg/domain"
)

// Scheme prefixes archive-resident member locations.
const Scheme = "blob://"

// Locator implements domain.Resolver over an archive store.
type Locator struct {
	store archive.Store
}

// New constructs a locator over the given archive.
func New(store archive.Store) *Locator {
	return &Locator{store: store}
}

// Resolve implements domain.Resolver. Hinted archive keys are fetched
// directly; remaining ids are matched against one listing of the archive.
func (l *Locator) Resolve(ctx context.Context, pending []string, hints map[string]string) (map[string]domain.Handle, error) {
	out := make(map[string]domain.Handle, len(pending))
	var missing []string
	for _, id := range pending {
		out[id] = nil
		if key, ok := hintKey(hints[id]); ok {
			h, err := l.fetch(ctx, key)
			if err == nil && h != nil && h.ID() == id {
				out[id] = h
				continue
			}
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}
	infos, err := l.store.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	byID := make(map[string]string, len(infos))
	for _, info := range infos {
		if _, id, ok := locate.ParseStatefileName(path.Base(info.Key)); ok {
			byID[id] = info.Key
		}
	}
	for _, id := range missing {
		key, ok := byID[id]
		if !ok {
			continue
		}
		h, err := l.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		if h != nil && h.ID() == id {
			out[id] = h
		}
	}
	return out, nil
}

// Expand implements domain.Resolver. The location is an archive key prefix
// ("blob://statefiles/run7/"); every statefile under it yields a handle.
func (l *Locator) Expand(ctx context.Context, location string) ([]domain.Handle, error) {
	if !strings.HasPrefix(location, Scheme) {
		return nil, nil
	}
	prefix := strings.TrimPrefix(location, Scheme)
	infos, err := l.store.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list archive %s: %w", prefix, err)
	}
	var out []domain.Handle
	for _, info := range infos {
		if _, _, ok := locate.ParseStatefileName(path.Base(info.Key)); !ok {
			continue
		}
		h, err := l.fetch(ctx, info.Key)
		if err != nil {
			return nil, err
		}
		if h != nil {
			out = append(out, h)
		}
	}
	return out, nil
}

// fetch reads one archived statefile. Missing or malformed objects are
// misses, not failures.
func (l *Locator) fetch(ctx context.Context, key string) (domain.Handle, error) {
	_, rc, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, nil
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read archive object %s: %w", key, err)
	}
	e, err := domain.DecodeEntity(data, Scheme+key)
	if err != nil || e.EntityID == "" {
		return nil, nil
	}
	return e, nil
}

// hintKey extracts the archive key for a hinted location; false when the
// hint does not point into the archive.
func hintKey(hint string) (string, bool) {
	if !strings.HasPrefix(hint, Scheme) {
		return "", false
	}
	key := strings.TrimPrefix(hint, Scheme)
	return key, key != ""
}
