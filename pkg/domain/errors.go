package domain

import "fmt"

// InvalidArgumentError reports a catalog argument of an unsupported type or
// an index outside the member range.
type InvalidArgumentError struct {
	Value any
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid catalog argument %v (%T)", e.Value, e.Value)
}

// MemberNotFoundError reports a member present in the table that the resolver
// could not locate during a full materialization. The caller's remedy is to
// remove or re-add the member.
type MemberNotFoundError struct {
	Position int
	ID       string
}

func (e *MemberNotFoundError) Error() string {
	return fmt.Sprintf("could not find member %d (id: %s); re-add or remove it", e.Position, e.ID)
}
