// Package core implements the in-memory object catalog: the member table,
// the lazily populated handle cache, the resolution synchronization
// protocol that keeps both consistent with the filesystem, and the
// order-preserving parallel map over members.
package core

import (
	"path/filepath"
	"strings"

	"catalogcore/pkg/domain"
)

// MemberTable is the authoritative membership index: id-keyed rows of
// (kind, location). Rows keep insertion order until a deletion, which
// compacts by swapping the last row into the vacated slot. Lookup, upsert
// and delete are O(1) via the id index.
type MemberTable struct {
	rows  []domain.MemberRecord
	index map[string]int
}

// NewMemberTable returns an empty table.
func NewMemberTable() *MemberTable {
	return &MemberTable{index: make(map[string]int)}
}

// Upsert appends a row for an unknown id, or refreshes the location of an
// existing row. Kind is immutable once set: re-adding a member never
// changes its type.
func (t *MemberTable) Upsert(id, kind, location string) {
	location = absLocation(location)
	if i, ok := t.index[id]; ok {
		t.rows[i].Location = location
		return
	}
	t.index[id] = len(t.rows)
	t.rows = append(t.rows, domain.MemberRecord{ID: id, Kind: kind, Location: location})
}

// Delete removes the rows for the given ids. Unmatched ids are ignored;
// removal is idempotent.
func (t *MemberTable) Delete(ids ...string) {
	for _, id := range ids {
		i, ok := t.index[id]
		if !ok {
			continue
		}
		last := len(t.rows) - 1
		if i != last {
			t.rows[i] = t.rows[last]
			t.index[t.rows[i].ID] = i
		}
		t.rows = t.rows[:last]
		delete(t.index, id)
	}
}

// DeleteAll empties the table.
func (t *MemberTable) DeleteAll() {
	t.rows = nil
	t.index = make(map[string]int)
}

// Get returns the record for id, if present.
func (t *MemberTable) Get(id string) (domain.MemberRecord, bool) {
	i, ok := t.index[id]
	if !ok {
		return domain.MemberRecord{}, false
	}
	return t.rows[i], true
}

// Len returns the row count.
func (t *MemberTable) Len() int { return len(t.rows) }

// Snapshot returns a copy of the rows in current table order.
func (t *MemberTable) Snapshot() []domain.MemberRecord {
	out := make([]domain.MemberRecord, len(t.rows))
	copy(out, t.rows)
	return out
}

// IDs returns the member ids in table order.
func (t *MemberTable) IDs() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.ID
	}
	return out
}

// Kinds returns the member kinds in table order, parallel to IDs.
func (t *MemberTable) Kinds() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Kind
	}
	return out
}

// Locations returns the member locations in table order, parallel to IDs.
func (t *MemberTable) Locations() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Location
	}
	return out
}

// absLocation normalizes plain filesystem locations to absolute paths.
// Scheme-qualified locations (archive keys and the like) pass through.
func absLocation(location string) string {
	if location == "" || strings.Contains(location, "://") {
		return location
	}
	if abs, err := filepath.Abs(location); err == nil {
		return abs
	}
	return location
}
