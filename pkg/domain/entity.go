package domain

import "encoding/json"

// Entity is the concrete handle produced by the locator implementations. It
// is the in-memory form of a statefile document.
type Entity struct {
	EntityID   string `json:"id"`
	EntityKind string `json:"kind"`
	EntityName string `json:"name,omitempty"`
	Dir        string `json:"-"`
}

func (e *Entity) ID() string       { return e.EntityID }
func (e *Entity) Kind() string     { return e.EntityKind }
func (e *Entity) Location() string { return e.Dir }
func (e *Entity) Name() string     { return e.EntityName }

// Record projects the entity onto its member-table row.
func (e *Entity) Record() MemberRecord {
	return MemberRecord{ID: e.EntityID, Kind: e.EntityKind, Location: e.Dir}
}

// DecodeEntity parses a statefile document. The location is not part of the
// document; callers set it from wherever the document was found.
func DecodeEntity(data []byte, location string) (*Entity, error) {
	var e Entity
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	e.Dir = location
	return &e, nil
}

// EncodeEntity renders the statefile document for an entity.
func EncodeEntity(e *Entity) ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}
