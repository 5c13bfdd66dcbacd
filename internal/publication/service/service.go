package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"plenario/internal/authz"
	publicationmetrics "plenario/internal/publication/metrics"
	"plenario/internal/publication/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/requestcontext"
)

// PublicationStore persists the ledger. Create must enforce (type, number)
// uniqueness itself; the service never pre-checks.
type PublicationStore interface {
	Create(ctx context.Context, publication *models.Publication) error
	FindByID(ctx context.Context, publicationID id.PublicationID) (*models.Publication, error)
	ForResource(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error)
	ForSessionsContaining(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error)
	ForSession(ctx context.Context, sessionID id.SessionID) ([]*models.Publication, error)
}

// Service issues publications and serves ledger reads.
type Service struct {
	publications PublicationStore
	authorizer   authz.Authorizer
	logger       *slog.Logger
	metrics      *publicationmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *publicationmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs a Service.
func New(publications PublicationStore, authorizer authz.Authorizer, opts ...Option) *Service {
	s := &Service{
		publications: publications,
		authorizer:   authorizer,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IssueInput carries the fields of a new ledger entry.
type IssueInput struct {
	Type         models.Type
	Number       string
	Date         time.Time
	ResourceID   *id.ResourceID
	SessionID    *id.SessionID
	Observations string
}

// Issue appends one entry to the ledger. A duplicate (type, number) is a
// Conflict surfaced by the store constraint, so concurrent issuers cannot
// both win.
func (s *Service) Issue(ctx context.Context, input IssueInput) (*models.Publication, error) {
	if err := s.authorize(ctx, authz.ActionIssuePublication); err != nil {
		return nil, err
	}

	publication, err := models.NewPublication(
		id.PublicationID(uuid.New()),
		input.Type, input.Number, input.Date,
		input.ResourceID, input.SessionID, input.Observations,
		requestcontext.UserID(ctx),
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.publications.Create(ctx, publication); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.Newf(dErrors.CodeConflict,
				"publication %s %s already issued", string(input.Type), publication.Number)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue publication")
	}

	s.logger.InfoContext(ctx, "publication issued",
		"publication_id", publication.ID.String(),
		"type", string(publication.Type),
		"number", publication.Number,
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementIssued(string(publication.Type))
	}
	return publication, nil
}

// Get returns one ledger entry by id.
func (s *Service) Get(ctx context.Context, publicationID id.PublicationID) (*models.Publication, error) {
	if publicationID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "publication id is required")
	}
	publication, err := s.publications.FindByID(ctx, publicationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "publication not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load publication")
	}
	return publication, nil
}

// ForResource returns every publication touching the resource: entries
// targeting it directly plus SESSAO entries of sessions whose agenda carries
// it. Deduplicated by id, newest date first, number descending on ties.
func (s *Service) ForResource(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error) {
	if resourceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "resource id is required")
	}

	direct, err := s.publications.ForResource(ctx, resourceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load resource publications")
	}
	viaSessions, err := s.publications.ForSessionsContaining(ctx, resourceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session publications")
	}

	seen := make(map[id.PublicationID]bool, len(direct)+len(viaSessions))
	merged := make([]*models.Publication, 0, len(direct)+len(viaSessions))
	for _, publication := range append(direct, viaSessions...) {
		if seen[publication.ID] {
			continue
		}
		seen[publication.ID] = true
		merged = append(merged, publication)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].Date.Equal(merged[j].Date) {
			return merged[i].Date.After(merged[j].Date)
		}
		return merged[i].Number > merged[j].Number
	})
	return merged, nil
}

// ForSession returns the session's ledger entries, newest first.
func (s *Service) ForSession(ctx context.Context, sessionID id.SessionID) ([]*models.Publication, error) {
	if sessionID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "session id is required")
	}
	publications, err := s.publications.ForSession(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session publications")
	}
	return publications, nil
}

func (s *Service) authorize(ctx context.Context, action authz.Action) error {
	principal := requestcontext.UserID(ctx)
	allowed, err := s.authorizer.CanAct(ctx, principal, action)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "authorization check failed")
	}
	if !allowed {
		return dErrors.Newf(dErrors.CodeUnauthorized, "principal may not %s", string(action))
	}
	return nil
}
