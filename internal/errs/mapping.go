package errs

import "fmt"

// MappingKind tags why a stored row could not become an entity.
type MappingKind string

const (
	// MappingMissingID means the row came back without its primary key.
	MappingMissingID MappingKind = "MISSING_ID"
)

// MappingError reports a row that violates the invariants required to
// build an entity from it. It signals a persistence-layer defect, never a
// client mistake, and is always answered with a 500.
type MappingError struct {
	Entity string
	Kind   MappingKind
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("cannot map %s row: %s", e.Entity, e.Kind)
}

// Code returns the machine-friendly code exposed to clients, e.g. CUSTOMER_MAPPING_FAILED.
func (e *MappingError) Code() string {
	return MakeUpperCaseWithUnderscores(e.Entity) + "_MAPPING_FAILED"
}

// NewMissingIDError reports a row of entity returned without an id.
func NewMissingIDError(entity string) *MappingError {
	return &MappingError{Entity: entity, Kind: MappingMissingID}
}
