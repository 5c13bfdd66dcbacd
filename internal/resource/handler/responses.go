package handler

import (
	"time"

	"github.com/google/uuid"

	"plenario/internal/resource/models"
)

// ResourceResponse is the wire shape of an appeal resource.
type ResourceResponse struct {
	ID            string    `json:"id"`
	Sequence      int       `json:"sequence"`
	Year          int       `json:"year"`
	Number        string    `json:"number"`
	ProcessNumber string    `json:"process_number"`
	Status        string    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	StatusClass   string    `json:"status_class"`
	Judged        bool      `json:"judged"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FromResource maps the aggregate to its response shape.
func FromResource(r *models.Resource) ResourceResponse {
	return ResourceResponse{
		ID:            r.ID.String(),
		Sequence:      r.Sequence,
		Year:          r.Year,
		Number:        r.Number,
		ProcessNumber: r.ProcessNumber,
		Status:        string(r.Status),
		StatusLabel:   r.Status.Label(),
		StatusClass:   r.Status.CSSClass(),
		Judged:        r.Judged,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// FromResources maps a list.
func FromResources(resources []*models.Resource) []ResourceResponse {
	out := make([]ResourceResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, FromResource(r))
	}
	return out
}

// TramitationResponse is the wire shape of one movement history entry.
type TramitationResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FromTramitations maps a movement history.
func FromTramitations(entries []*models.Tramitation) []TramitationResponse {
	out := make([]TramitationResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TramitationResponse{
			ID:         entry.ID,
			FromStatus: string(entry.FromStatus),
			ToStatus:   string(entry.ToStatus),
			ActorID:    entry.ActorID.String(),
			OccurredAt: entry.OccurredAt,
		})
	}
	return out
}
