// Package models holds the official publication ledger entries. Publications
// are immutable once issued.
package models

import (
	"strings"
	"time"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

// Type partitions the publication number space.
type Type string

const (
	// TypeSessao is an agenda publication for a session.
	TypeSessao Type = "SESSAO"
	// TypeAcordao publishes a judgment decision for a resource.
	TypeAcordao Type = "ACORDAO"
	// TypeNotificacao is a party notification for a resource.
	TypeNotificacao Type = "NOTIFICACAO"
)

// ParseType validates a raw publication type string.
func ParseType(raw string) (Type, error) {
	switch t := Type(raw); t {
	case TypeSessao, TypeAcordao, TypeNotificacao:
		return t, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown publication type %q", raw)
	}
}

// Publication is one ledger entry. Number is unique within its type; the
// store's constraint enforces that, never a check-then-insert.
type Publication struct {
	ID           id.PublicationID `json:"id"`
	Type         Type             `json:"type"`
	Number       string           `json:"number"`
	Date         time.Time        `json:"date"`
	ResourceID   *id.ResourceID   `json:"resource_id,omitempty"`
	SessionID    *id.SessionID    `json:"session_id,omitempty"`
	Observations string           `json:"observations,omitempty"`
	CreatedBy    id.UserID        `json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
}

// NewPublication validates and constructs a ledger entry. Every publication
// targets a resource, a session, or both.
func NewPublication(publicationID id.PublicationID, pubType Type, number string, date time.Time,
	resourceID *id.ResourceID, sessionID *id.SessionID, observations string,
	createdBy id.UserID, now time.Time) (*Publication, error) {

	number = strings.TrimSpace(number)
	if number == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "publication number is required")
	}
	if _, err := ParseType(string(pubType)); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "publication type is invalid")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "publication date is required")
	}
	if resourceID == nil && sessionID == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "publication must target a resource or a session")
	}
	return &Publication{
		ID:           publicationID,
		Type:         pubType,
		Number:       number,
		Date:         date,
		ResourceID:   resourceID,
		SessionID:    sessionID,
		Observations: strings.TrimSpace(observations),
		CreatedBy:    createdBy,
		CreatedAt:    now,
	}, nil
}
