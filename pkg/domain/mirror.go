package domain

import "context"

// Mirror is the caller-side durable store that shadows a catalog's member
// table. The in-memory table stays authoritative for the catalog's lifetime;
// a mirror only receives row changes and supplies rows for hydration at
// construction time. Implementations validate records against the encoding
// limits before writing and must preserve Kind immutability on upsert.
type Mirror interface {
	UpsertMember(ctx context.Context, record MemberRecord) error
	DeleteMembers(ctx context.Context, ids ...string) error
	LoadMembers(ctx context.Context) ([]MemberRecord, error)
	Close() error
}
