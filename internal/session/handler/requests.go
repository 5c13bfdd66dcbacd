package handler

import (
	"strings"
	"time"

	"plenario/internal/session/models"
	"plenario/internal/session/service"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

const dateLayout = "2006-01-02"

// CreateSessionRequest is the HTTP request body for POST /sessions.
type CreateSessionRequest struct {
	Sequence int    `json:"sequence"`
	Year     int    `json:"year"`
	Ordinal  int    `json:"ordinal"`
	Type     string `json:"type"`
	Date     string `json:"date"`

	parsedType models.SessionType
	parsedDate time.Time
}

// Validate validates and parses the session type and date.
func (r *CreateSessionRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	sessionType, err := models.ParseSessionType(strings.TrimSpace(r.Type))
	if err != nil {
		return err
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be formatted as YYYY-MM-DD")
	}
	r.parsedType = sessionType
	r.parsedDate = date
	return nil
}

// ParsedType returns the validated session type.
func (r *CreateSessionRequest) ParsedType() models.SessionType {
	return r.parsedType
}

// ParsedDate returns the validated session date.
func (r *CreateSessionRequest) ParsedDate() time.Time {
	return r.parsedDate
}

// PublishAgendaRequest is the HTTP request body for POST /sessions/{id}/publish.
type PublishAgendaRequest struct {
	Number       string `json:"number"`
	Date         string `json:"date"`
	Observations string `json:"observations"`

	parsedDate time.Time
}

// Validate validates and parses the publication fields.
func (r *PublishAgendaRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Number = strings.TrimSpace(r.Number)
	if r.Number == "" {
		return dErrors.New(dErrors.CodeValidation, "number is required")
	}
	date, err := time.Parse(dateLayout, strings.TrimSpace(r.Date))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "date must be formatted as YYYY-MM-DD")
	}
	r.parsedDate = date
	return nil
}

// ParsedDate returns the validated publication date.
func (r *PublishAgendaRequest) ParsedDate() time.Time {
	return r.parsedDate
}

// AddResourceRequest is the HTTP request body for POST /sessions/{id}/agenda.
type AddResourceRequest struct {
	ResourceID string `json:"resource_id"`

	parsedResourceID id.ResourceID
}

// Validate validates and parses the resource id.
func (r *AddResourceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	resourceID, err := id.ParseResourceID(strings.TrimSpace(r.ResourceID))
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "resource_id must be a valid id")
	}
	r.parsedResourceID = resourceID
	return nil
}

// ParsedResourceID returns the validated resource id.
func (r *AddResourceRequest) ParsedResourceID() id.ResourceID {
	return r.parsedResourceID
}

// ReorderEntry is one row of a reorder payload.
type ReorderEntry struct {
	SessionResourceID string `json:"session_resource_id"`
	Order             int    `json:"order"`
}

// ReorderRequest is the HTTP request body for PUT /sessions/{id}/agenda/order.
type ReorderRequest struct {
	Entries []ReorderEntry `json:"entries"`

	parsedEntries []service.OrderEntry
}

// Validate validates and parses the reorder entries. Ownership, duplicate and
// range checks stay with the service; this only guarantees well-formed ids.
func (r *ReorderRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Entries) == 0 {
		return dErrors.New(dErrors.CodeValidation, "entries are required")
	}
	parsed := make([]service.OrderEntry, 0, len(r.Entries))
	for _, entry := range r.Entries {
		rowID, err := id.ParseSessionResourceID(strings.TrimSpace(entry.SessionResourceID))
		if err != nil {
			return dErrors.New(dErrors.CodeValidation, "session_resource_id must be a valid id")
		}
		parsed = append(parsed, service.OrderEntry{SessionResourceID: rowID, Order: entry.Order})
	}
	r.parsedEntries = parsed
	return nil
}

// ParsedEntries returns the validated order entries.
func (r *ReorderRequest) ParsedEntries() []service.OrderEntry {
	return r.parsedEntries
}

// FinalizeMinutesRequest is the HTTP request body for POST /sessions/{id}/minutes.
type FinalizeMinutesRequest struct {
	MinutesFile string `json:"minutes_file"`
}

// Validate validates and normalizes the request.
func (r *FinalizeMinutesRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.MinutesFile = strings.TrimSpace(r.MinutesFile)
	if r.MinutesFile == "" {
		return dErrors.New(dErrors.CodeValidation, "minutes_file is required")
	}
	return nil
}
