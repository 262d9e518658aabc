// Package domain holds typed identifiers shared across the module.
//
// IDs are distinct named types over uuid.UUID so the compiler rejects
// cross-entity mixups (an ApplicationID can never be passed where a
// ConsignmentID is expected). Parse functions enforce validity at trust
// boundaries; internal code constructs IDs directly.
package domain

import (
	"github.com/google/uuid"

	dErrors "certform/pkg/domain-errors"
)

type (
	// ApplicationID identifies one export-certificate application.
	ApplicationID uuid.UUID
	// ConsignmentID identifies one certificate instance within a
	// multi-certificate application.
	ConsignmentID uuid.UUID
)

// QuestionID identifies a question within a template. Question identifiers are
// author-assigned strings, not UUIDs, so this stays a string primitive.
type QuestionID string

func (id ApplicationID) String() string { return uuid.UUID(id).String() }
func (id ConsignmentID) String() string { return uuid.UUID(id).String() }
func (id QuestionID) String() string    { return string(id) }

func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ConsignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool    { return id == "" }

// Named types over uuid.UUID do not inherit its marshaling, so IDs would
// otherwise serialize as byte arrays.

func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ConsignmentID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *ApplicationID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ApplicationID(u)
	return nil
}

func (id *ConsignmentID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ConsignmentID(u)
	return nil
}

// NewApplicationID returns a fresh random ApplicationID.
func NewApplicationID() ApplicationID { return ApplicationID(uuid.New()) }

// NewConsignmentID returns a fresh random ConsignmentID.
func NewConsignmentID() ConsignmentID { return ConsignmentID(uuid.New()) }

// ParseApplicationID validates a string as an ApplicationID.
func ParseApplicationID(s string) (ApplicationID, error) {
	u, err := parseUUID(s, "application id")
	return ApplicationID(u), err
}

// ParseConsignmentID validates a string as a ConsignmentID.
func ParseConsignmentID(s string) (ConsignmentID, error) {
	u, err := parseUUID(s, "consignment id")
	return ConsignmentID(u), err
}

func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is required", what)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", what)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must not be the nil UUID", what)
	}
	return u, nil
}
