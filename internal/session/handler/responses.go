package handler

import (
	"time"

	pubmodels "plenario/internal/publication/models"
	"plenario/internal/session/models"
)

// SessionResponse is the wire shape of a judgment session.
type SessionResponse struct {
	ID                    string    `json:"id"`
	Sequence              int       `json:"sequence"`
	Year                  int       `json:"year"`
	Ordinal               int       `json:"ordinal"`
	Type                  string    `json:"type"`
	Date                  time.Time `json:"date"`
	StartTime             string    `json:"start_time,omitempty"`
	EndTime               string    `json:"end_time,omitempty"`
	Status                string    `json:"status"`
	MinutesStatus         string    `json:"minutes_status"`
	MinutesFile           string    `json:"minutes_file,omitempty"`
	AdministrativeMatters string    `json:"administrative_matters,omitempty"`
	PresidentID           string    `json:"president_id,omitempty"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// FromSession maps the aggregate to its response shape.
func FromSession(s *models.Session) SessionResponse {
	resp := SessionResponse{
		ID:                    s.ID.String(),
		Sequence:              s.Sequence,
		Year:                  s.Year,
		Ordinal:               s.Ordinal,
		Type:                  string(s.Type),
		Date:                  s.Date,
		StartTime:             s.StartTime,
		EndTime:               s.EndTime,
		Status:                string(s.Status),
		MinutesStatus:         string(s.MinutesStatus),
		MinutesFile:           s.MinutesFile,
		AdministrativeMatters: s.AdministrativeMatters,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
	if s.PresidentID != nil {
		resp.PresidentID = s.PresidentID.String()
	}
	return resp
}

// SessionRowResponse is one listing row with its computed minutes readiness.
type SessionRowResponse struct {
	SessionResponse
	MinutesReady bool `json:"minutes_ready"`
}

// FromSessionRows maps the listing read model.
func FromSessionRows(rows []models.SessionRow) []SessionRowResponse {
	out := make([]SessionRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, SessionRowResponse{
			SessionResponse: FromSession(&row.Session),
			MinutesReady:    row.MinutesReady,
		})
	}
	return out
}

// AgendaRowResponse is the wire shape of one agenda entry.
type AgendaRowResponse struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	ResourceID string    `json:"resource_id"`
	Order      int       `json:"order"`
	CreatedAt  time.Time `json:"created_at"`
}

// FromAgendaRow maps one agenda entry.
func FromAgendaRow(row *models.SessionResource) AgendaRowResponse {
	return AgendaRowResponse{
		ID:         row.ID.String(),
		SessionID:  row.SessionID.String(),
		ResourceID: row.ResourceID.String(),
		Order:      row.Order,
		CreatedAt:  row.CreatedAt,
	}
}

// FromAgenda maps the ordered agenda rows.
func FromAgenda(rows []*models.SessionResource) []AgendaRowResponse {
	out := make([]AgendaRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromAgendaRow(row))
	}
	return out
}

// MinutesReadinessResponse reports whether the minutes can be finalized.
type MinutesReadinessResponse struct {
	Ready bool `json:"ready"`
}

// AgendaPublicationResponse is the ledger entry issued by publishing an agenda.
type AgendaPublicationResponse struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Number       string    `json:"number"`
	Date         time.Time `json:"date"`
	SessionID    string    `json:"session_id"`
	Observations string    `json:"observations,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FromAgendaPublication maps the issued SESSAO publication.
func FromAgendaPublication(p *pubmodels.Publication) AgendaPublicationResponse {
	resp := AgendaPublicationResponse{
		ID:           p.ID.String(),
		Type:         string(p.Type),
		Number:       p.Number,
		Date:         p.Date,
		Observations: p.Observations,
		CreatedAt:    p.CreatedAt,
	}
	if p.SessionID != nil {
		resp.SessionID = p.SessionID.String()
	}
	return resp
}
