package handler

import (
	"time"

	"plenario/internal/publication/models"
)

// PublicationResponse is the wire shape of one ledger entry.
type PublicationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Number       string    `json:"number"`
	Date         time.Time `json:"date"`
	ResourceID   string    `json:"resource_id,omitempty"`
	SessionID    string    `json:"session_id,omitempty"`
	Observations string    `json:"observations,omitempty"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromPublication maps a ledger entry to its response shape.
func FromPublication(p *models.Publication) PublicationResponse {
	resp := PublicationResponse{
		ID:           p.ID.String(),
		Type:         string(p.Type),
		Number:       p.Number,
		Date:         p.Date,
		Observations: p.Observations,
		CreatedBy:    p.CreatedBy.String(),
		CreatedAt:    p.CreatedAt,
	}
	if p.ResourceID != nil {
		resp.ResourceID = p.ResourceID.String()
	}
	if p.SessionID != nil {
		resp.SessionID = p.SessionID.String()
	}
	return resp
}

// FromPublications maps a ledger slice.
func FromPublications(publications []*models.Publication) []PublicationResponse {
	out := make([]PublicationResponse, 0, len(publications))
	for _, p := range publications {
		out = append(out, FromPublication(p))
	}
	return out
}
