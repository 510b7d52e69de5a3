package domain

import "context"

// Resolver locates live handles for tracked members. Implementations must
// attempt the hinted location first, then any broader discovery strategy
// they support, and must return an entry for every requested id; nil marks
// an entity that could not be found. Only discovery machinery failures are
// reported through the error return; a merely missing entity is not an
// error at this layer.
type Resolver interface {
	// Resolve attempts to locate each pending id. hints maps id to the
	// table's last-known location for that member.
	Resolve(ctx context.Context, pending []string, hints map[string]string) (map[string]Handle, error)

	// Expand turns a raw location into the handles it denotes. A single
	// location may yield zero, one, or many handles.
	Expand(ctx context.Context, location string) ([]Handle, error)
}
