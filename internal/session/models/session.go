// Package models holds the judgment session aggregate and its agenda rows.
package models

import (
	"strings"
	"time"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

// Status is the session lifecycle stage.
type Status string

const (
	// StatusPublicacao is the composition stage before the agenda goes out.
	StatusPublicacao Status = "PUBLICACAO"
	// StatusPendente means the agenda is published and judgment is pending.
	StatusPendente Status = "PENDENTE"
	// StatusJulgada means every agenda resource reached a judgment.
	StatusJulgada Status = "JULGADA"
	// StatusAtaFinalizada is terminal; the signed minutes are on file.
	StatusAtaFinalizada Status = "ATA_FINALIZADA"
)

var statusTransitions = map[Status][]Status{
	StatusPublicacao:    {StatusPendente},
	StatusPendente:      {StatusJulgada},
	StatusJulgada:       {StatusAtaFinalizada},
	StatusAtaFinalizada: nil, // terminal
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := statusTransitions[s]; !ok {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown session status %q", raw)
	}
	return s, nil
}

// CanTransitionTo reports whether next is reachable from s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MinutesStatus tracks the minutes document independently of the lifecycle.
type MinutesStatus string

const (
	MinutesPendente = MinutesStatus("PENDENTE_ATA")
	MinutesAssinada = MinutesStatus("ATA_ASSINADA")
)

// SessionType distinguishes regularly scheduled from called sessions.
type SessionType string

const (
	TypeOrdinaria      SessionType = "ORDINARIA"
	TypeExtraordinaria SessionType = "EXTRAORDINARIA"
)

// ParseSessionType validates a raw session type string.
func ParseSessionType(raw string) (SessionType, error) {
	switch t := SessionType(raw); t {
	case TypeOrdinaria, TypeExtraordinaria:
		return t, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown session type %q", raw)
	}
}

// Session is a sitting of the review board.
type Session struct {
	ID                    id.SessionID  `json:"id"`
	Sequence              int           `json:"sequence"`
	Year                  int           `json:"year"`
	Ordinal               int           `json:"ordinal"`
	Type                  SessionType   `json:"type"`
	Date                  time.Time     `json:"date"`
	StartTime             string        `json:"start_time,omitempty"`
	EndTime               string        `json:"end_time,omitempty"`
	Status                Status        `json:"status"`
	MinutesStatus         MinutesStatus `json:"minutes_status"`
	MinutesFile           string        `json:"minutes_file,omitempty"`
	AdministrativeMatters string        `json:"administrative_matters,omitempty"`
	PresidentID           *id.UserID    `json:"president_id,omitempty"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// NewSession validates and constructs a session in its composition stage.
func NewSession(sessionID id.SessionID, sequence, year, ordinal int, sessionType SessionType, date time.Time, now time.Time) (*Session, error) {
	if sequence <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session sequence must be positive")
	}
	if ordinal <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session ordinal must be positive")
	}
	if year < 2000 || year > 2100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session year out of range")
	}
	if _, err := ParseSessionType(string(sessionType)); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session type is invalid")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "session date is required")
	}
	return &Session{
		ID:            sessionID,
		Sequence:      sequence,
		Year:          year,
		Ordinal:       ordinal,
		Type:          sessionType,
		Date:          date,
		Status:        StatusPublicacao,
		MinutesStatus: MinutesPendente,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CanAdvanceTo wraps CanTransitionTo with a descriptive error.
func (s *Session) CanAdvanceTo(next Status) error {
	if !s.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"session cannot move from %s to %s", string(s.Status), string(next))
	}
	return nil
}

// ApplyStatus records a transition already vetted by CanAdvanceTo.
func (s *Session) ApplyStatus(next Status, now time.Time) {
	s.Status = next
	s.UpdatedAt = now
}

// FinalizeMinutes marks the minutes signed and closes the session. The
// caller has already checked readiness.
func (s *Session) FinalizeMinutes(minutesFile string, now time.Time) error {
	minutesFile = strings.TrimSpace(minutesFile)
	if minutesFile == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "minutes file is required")
	}
	if err := s.CanAdvanceTo(StatusAtaFinalizada); err != nil {
		return err
	}
	s.Status = StatusAtaFinalizada
	s.MinutesStatus = MinutesAssinada
	s.MinutesFile = minutesFile
	s.UpdatedAt = now
	return nil
}

// AcceptsAgendaEdits reports whether the agenda is still mutable.
func (s *Session) AcceptsAgendaEdits() bool {
	return s.Status == StatusPublicacao || s.Status == StatusPendente
}

// SessionResource is one agenda row. Order is unique within a session but
// not necessarily contiguous.
type SessionResource struct {
	ID         id.SessionResourceID `json:"id"`
	SessionID  id.SessionID         `json:"session_id"`
	ResourceID id.ResourceID        `json:"resource_id"`
	Order      int                  `json:"order"`
	CreatedAt  time.Time            `json:"created_at"`
}

// SessionRow is the listing read model, annotated with minutes readiness.
type SessionRow struct {
	Session
	MinutesReady bool `json:"minutes_ready"`
}
