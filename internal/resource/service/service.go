package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"plenario/internal/authz"
	"plenario/internal/notify"
	resourcemetrics "plenario/internal/resource/metrics"
	"plenario/internal/resource/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/requestcontext"
)

// ResourceStore persists appeal resources and their movement history.
type ResourceStore interface {
	Create(ctx context.Context, resource *models.Resource) error
	FindByID(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error)
	Update(ctx context.Context, resource *models.Resource) error
	List(ctx context.Context) ([]*models.Resource, error)
	AppendTramitation(ctx context.Context, tramitation *models.Tramitation) error
	TramitationsFor(ctx context.Context, resourceID id.ResourceID) ([]*models.Tramitation, error)
}

// StoreTx provides the transactional boundary for multi-row writes. The
// postgres implementation carries a *sql.Tx through the context; the
// in-memory one serializes on a mutex.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service orchestrates the resource status machine.
type Service struct {
	resources  ResourceStore
	tx         StoreTx
	authorizer authz.Authorizer
	notifier   notify.Notifier
	logger     *slog.Logger
	metrics    *resourcemetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func WithMetrics(m *resourcemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// New constructs a Service.
func New(resources ResourceStore, authorizer authz.Authorizer, opts ...Option) *Service {
	s := &Service{
		resources:  resources,
		authorizer: authorizer,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryStoreTx()
	}
	return s
}

// RegisterInput carries the fields of a newly registered appeal.
type RegisterInput struct {
	Sequence      int
	Year          int
	Number        string
	ProcessNumber string
}

// Register records a new appeal resource in its initial stage.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.Resource, error) {
	if err := s.authorize(ctx, authz.ActionRegisterResource); err != nil {
		return nil, err
	}

	resource, err := models.NewResource(
		id.ResourceID(uuid.New()),
		input.Sequence, input.Year, input.Number, input.ProcessNumber,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.resources.Create(ctx, resource); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "resource number already registered for that year")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register resource")
	}
	return resource, nil
}

// SetStatus moves a resource through the status machine. The update and its
// tramitation entry commit atomically; the notification fires only after the
// commit and its failure never propagates.
func (s *Service) SetStatus(ctx context.Context, resourceID id.ResourceID, next models.Status) (*models.Resource, error) {
	if err := requireResourceID(resourceID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, authz.ActionSetResourceStatus); err != nil {
		return nil, err
	}

	var updated *models.Resource
	var previous models.Status
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		resource, err := s.resources.FindByID(txCtx, resourceID)
		if err != nil {
			return wrapResourceErr(err)
		}

		if err := resource.CanAdvanceTo(next); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
			}
			return err
		}

		now := requestcontext.Now(txCtx)
		previous = resource.Status
		resource.ApplyStatus(next, now)
		if err := s.resources.Update(txCtx, resource); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update resource status")
		}

		tramitation := &models.Tramitation{
			ID:         uuid.New(),
			ResourceID: resourceID,
			FromStatus: previous,
			ToStatus:   next,
			ActorID:    requestcontext.UserID(txCtx),
			OccurredAt: now,
		}
		if err := s.resources.AppendTramitation(txCtx, tramitation); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append tramitation")
		}

		updated = resource
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyStatusChanged(ctx, updated, previous)
	if s.metrics != nil {
		s.metrics.IncrementStatusTransition(string(next))
	}
	return updated, nil
}

// RecordJudgment marks a resource as judged by the session workflow, moving
// it into JULGAMENTO when the machine allows. Judged is the signal minutes
// readiness and publication eligibility key off.
func (s *Service) RecordJudgment(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	if err := requireResourceID(resourceID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, authz.ActionRecordJudgment); err != nil {
		return nil, err
	}

	var updated *models.Resource
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		resource, err := s.resources.FindByID(txCtx, resourceID)
		if err != nil {
			return wrapResourceErr(err)
		}

		now := requestcontext.Now(txCtx)
		previous := resource.Status
		if resource.Status.CanTransitionTo(models.StatusJulgamento) {
			resource.ApplyStatus(models.StatusJulgamento, now)
		} else if !resource.Status.JudgmentReached() {
			return dErrors.Newf(dErrors.CodeConflict,
				"resource in %s cannot receive a judgment", string(resource.Status))
		}
		resource.Judged = true
		resource.UpdatedAt = now

		if err := s.resources.Update(txCtx, resource); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record judgment")
		}
		if resource.Status != previous {
			tramitation := &models.Tramitation{
				ID:         uuid.New(),
				ResourceID: resourceID,
				FromStatus: previous,
				ToStatus:   resource.Status,
				ActorID:    requestcontext.UserID(txCtx),
				OccurredAt: now,
			}
			if err := s.resources.AppendTramitation(txCtx, tramitation); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append tramitation")
			}
		}
		updated = resource
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns a resource by id.
func (s *Service) Get(ctx context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	if err := requireResourceID(resourceID); err != nil {
		return nil, err
	}
	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		return nil, wrapResourceErr(err)
	}
	return resource, nil
}

// List returns all resources.
func (s *Service) List(ctx context.Context) ([]*models.Resource, error) {
	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list resources")
	}
	return resources, nil
}

// History returns a resource's tramitation entries, oldest first.
func (s *Service) History(ctx context.Context, resourceID id.ResourceID) ([]*models.Tramitation, error) {
	if err := requireResourceID(resourceID); err != nil {
		return nil, err
	}
	if _, err := s.resources.FindByID(ctx, resourceID); err != nil {
		return nil, wrapResourceErr(err)
	}
	history, err := s.resources.TramitationsFor(ctx, resourceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tramitations")
	}
	return history, nil
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

func (s *Service) notifyStatusChanged(ctx context.Context, resource *models.Resource, previous models.Status) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, resource.ProcessNumber, notify.KindStatusChanged, map[string]string{
		"resource_number": resource.Number,
		"from":            string(previous),
		"to":              string(resource.Status),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "status change notification failed",
			"resource_id", resource.ID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func requireResourceID(resourceID id.ResourceID) error {
	if resourceID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "resource id is required")
	}
	return nil
}

func wrapResourceErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "resource not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "resource store failure")
}
