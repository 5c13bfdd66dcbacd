package handler

import (
	"strings"
	"time"

	"plenario/internal/publication/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// IssueRequest is the HTTP request body for POST /publications.
type IssueRequest struct {
	Type         string `json:"type"`
	Number       string `json:"number"`
	Date         string `json:"date"`
	ResourceID   string `json:"resource_id,omitempty"`
	SessionID    string `json:"session_id,omitempty"`
	Observations string `json:"observations,omitempty"`

	parsedType       models.Type
	parsedDate       time.Time
	parsedResourceID *id.ResourceID
	parsedSessionID  *id.SessionID
}

// Validate validates and parses the ledger entry fields. Target presence is
// checked again by the model; this only guarantees well-formed values.
func (r *IssueRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	pubType, err := models.ParseType(strings.TrimSpace(r.Type))
	if err != nil {
		return err
	}
	r.Number = strings.TrimSpace(r.Number)
	if r.Number == "" {
		return dErrors.New(dErrors.CodeValidation, "number is required")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be formatted as YYYY-MM-DD")
	}

	var resourceID *id.ResourceID
	if raw := strings.TrimSpace(r.ResourceID); raw != "" {
		parsed, err := id.ParseResourceID(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "resource_id must be a valid id")
		}
		resourceID = &parsed
	}
	var sessionID *id.SessionID
	if raw := strings.TrimSpace(r.SessionID); raw != "" {
		parsed, err := id.ParseSessionID(raw)
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "session_id must be a valid id")
		}
		sessionID = &parsed
	}
	if resourceID == nil && sessionID == nil {
		return dErrors.New(dErrors.CodeValidation, "resource_id or session_id is required")
	}

	r.parsedType = pubType
	r.parsedDate = date
	r.parsedResourceID = resourceID
	r.parsedSessionID = sessionID
	return nil
}

// ParsedType returns the validated publication type.
func (r *IssueRequest) ParsedType() models.Type {
	return r.parsedType
}

// ParsedDate returns the validated publication date.
func (r *IssueRequest) ParsedDate() time.Time {
	return r.parsedDate
}

// ParsedResourceID returns the validated target resource, if any.
func (r *IssueRequest) ParsedResourceID() *id.ResourceID {
	return r.parsedResourceID
}

// ParsedSessionID returns the validated target session, if any.
func (r *IssueRequest) ParsedSessionID() *id.SessionID {
	return r.parsedSessionID
}
