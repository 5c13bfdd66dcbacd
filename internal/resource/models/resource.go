package models

import (
	"time"

	"github.com/google/uuid"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

// Resource is the aggregate root for an appeal case.
//
// Invariants:
//   - Status always belongs to the 14-value enumeration
//   - Status changes follow the adjacency table (CanAdvanceTo/ApplyStatus)
//   - Judged mirrors the existence of at least one judgment record and is
//     maintained by the judgment workflow, never set directly by callers
//   - CreatedAt is immutable after construction
type Resource struct {
	ID            id.ResourceID `json:"id"`
	Sequence      int           `json:"sequence"`
	Year          int           `json:"year"`
	Number        string        `json:"number"`
	ProcessNumber string        `json:"process_number"`
	Status        Status        `json:"status"`
	Judged        bool          `json:"judged"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// CanAdvanceTo checks whether the resource may move to next.
// Use with ApplyStatus inside a transactional callback.
func (r *Resource) CanAdvanceTo(next Status) error {
	if !next.Valid() {
		return dErrors.Newf(dErrors.CodeInvalidInput, "unknown resource status %q", string(next))
	}
	if !r.Status.CanTransitionTo(next) {
		return dErrors.Newf(dErrors.CodeInvariantViolation,
			"resource cannot move from %s to %s", string(r.Status), string(next))
	}
	return nil
}

// ApplyStatus moves the resource to next and stamps the update time.
// Call CanAdvanceTo first to validate the transition.
func (r *Resource) ApplyStatus(next Status, now time.Time) {
	r.Status = next
	r.UpdatedAt = now
}

// NewResource constructs a registered appeal in its initial stage.
func NewResource(resourceID id.ResourceID, sequence, year int, number, processNumber string, now time.Time) (*Resource, error) {
	if number == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource number cannot be empty")
	}
	if processNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "process number cannot be empty")
	}
	if year < 2000 || year > 2100 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "resource year out of range")
	}
	return &Resource{
		ID:            resourceID,
		Sequence:      sequence,
		Year:          year,
		Number:        number,
		ProcessNumber: processNumber,
		Status:        StatusEmAnalise,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Tramitation is one entry in a resource's append-only movement history.
type Tramitation struct {
	ID         uuid.UUID     `json:"id"`
	ResourceID id.ResourceID `json:"resource_id"`
	FromStatus Status        `json:"from_status"`
	ToStatus   Status        `json:"to_status"`
	ActorID    id.UserID     `json:"actor_id"`
	OccurredAt time.Time     `json:"occurred_at"`
}
