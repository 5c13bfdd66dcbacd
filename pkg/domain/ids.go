// Package domain defines typed identifiers for the docket engine's entities.
//
// Each entity gets its own UUID-backed type so a ResourceID can never be
// passed where a SessionID is expected. Parsing enforces the trust-boundary
// invariant that ids are valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "plenario/pkg/domain-errors"
)

type (
	// UserID identifies a board member or clerk acting on the docket.
	UserID uuid.UUID
	// ResourceID identifies an appeal resource.
	ResourceID uuid.UUID
	// SubjectID identifies a node in the subject classification tree.
	SubjectID uuid.UUID
	// SessionID identifies an adjudication session.
	SessionID uuid.UUID
	// SessionResourceID identifies an agenda entry joining a session and a resource.
	SessionResourceID uuid.UUID
	// PublicationID identifies an issued publication record.
	PublicationID uuid.UUID
)

func (id UserID) String() string            { return uuid.UUID(id).String() }
func (id ResourceID) String() string        { return uuid.UUID(id).String() }
func (id SubjectID) String() string         { return uuid.UUID(id).String() }
func (id SessionID) String() string         { return uuid.UUID(id).String() }
func (id SessionResourceID) String() string { return uuid.UUID(id).String() }
func (id PublicationID) String() string     { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id ResourceID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id SubjectID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id SessionResourceID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id PublicationID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

func parse(raw string, kind string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", kind)
	}
	// uuid.Parse accepts several variants; keep the canonical 36-char form only
	// so ids round-trip byte-for-byte through logs and URLs.
	if len(raw) != 36 {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid uuid", kind)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid uuid", kind)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id must not be nil", kind)
	}
	return parsed, nil
}

// ParseUserID parses and validates a user id.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parse(raw, "user")
	return UserID(parsed), err
}

// ParseResourceID parses and validates a resource id.
func ParseResourceID(raw string) (ResourceID, error) {
	parsed, err := parse(raw, "resource")
	return ResourceID(parsed), err
}

// ParseSubjectID parses and validates a subject id.
func ParseSubjectID(raw string) (SubjectID, error) {
	parsed, err := parse(raw, "subject")
	return SubjectID(parsed), err
}

// ParseSessionID parses and validates a session id.
func ParseSessionID(raw string) (SessionID, error) {
	parsed, err := parse(raw, "session")
	return SessionID(parsed), err
}

// ParseSessionResourceID parses and validates an agenda entry id.
func ParseSessionResourceID(raw string) (SessionResourceID, error) {
	parsed, err := parse(raw, "session resource")
	return SessionResourceID(parsed), err
}

// ParsePublicationID parses and validates a publication id.
func ParsePublicationID(raw string) (PublicationID, error) {
	parsed, err := parse(raw, "publication")
	return PublicationID(parsed), err
}
