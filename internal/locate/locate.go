// Package locate holds the resolver implementations that turn member ids
// and location hints into live handles, plus the statefile naming scheme
// they share. A statefile is a JSON document named "<kind>.<id>.json" that
// lives in an entity's directory (or under an archive key).
package locate

import (
	"context"
	"fmt"
	"strings"

	"catalogcore/pkg/domain"
)

// StatefileSuffix is the statefile extension.
const StatefileSuffix = ".json"

// StatefileName renders the statefile name for a member.
func StatefileName(kind, id string) string {
	return fmt.Sprintf("%s.%s%s", kind, id, StatefileSuffix)
}

// ParseStatefileName splits a statefile name into kind and id. ok is false
// for names that do not follow the scheme.
func ParseStatefileName(name string) (kind, id string, ok bool) {
	if !strings.HasSuffix(name, StatefileSuffix) {
		return "", "", false
	}
	trimmed := strings.TrimSuffix(name, StatefileSuffix)
	i := strings.IndexByte(trimmed, '.')
	if i <= 0 || i == len(trimmed)-1 {
		return "", "", false
	}
	kind, id = trimmed[:i], trimmed[i+1:]
	if !domain.ValidID(id) {
		return "", "", false
	}
	return kind, id, true
}

// Chain tries each resolver in order. Resolution passes the still-missing
// ids to the next resolver; expansion returns the first non-empty result.
type Chain []domain.Resolver

// Resolve implements domain.Resolver.
func (c Chain) Resolve(ctx context.Context, pending []string, hints map[string]string) (map[string]domain.Handle, error) {
	out := make(map[string]domain.Handle, len(pending))
	for _, id := range pending {
		out[id] = nil
	}
	remaining := append([]string(nil), pending...)
	for _, r := range c {
		if len(remaining) == 0 {
			break
		}
		found, err := r.Resolve(ctx, remaining, hints)
		if err != nil {
			return nil, err
		}
		var next []string
		for _, id := range remaining {
			if h := found[id]; h != nil {
				out[id] = h
				continue
			}
			next = append(next, id)
		}
		remaining = next
	}
	return out, nil
}

// Expand implements domain.Resolver.
func (c Chain) Expand(ctx context.Context, location string) ([]domain.Handle, error) {
	for _, r := range c {
		handles, err := r.Expand(ctx, location)
		if err != nil {
			return nil, err
		}
		if len(handles) > 0 {
			return handles, nil
		}
	}
	return nil, nil
}
