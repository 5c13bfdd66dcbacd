package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"plenario/internal/authz"
	subjectmetrics "plenario/internal/subject/metrics"
	"plenario/internal/subject/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/requestcontext"
)

// SubjectStore persists the taxonomy and its resource links.
type SubjectStore interface {
	CreateSubject(ctx context.Context, subject *models.Subject) error
	FindByID(ctx context.Context, subjectID id.SubjectID) (*models.Subject, error)
	List(ctx context.Context) ([]*models.Subject, error)
	ReplaceLinks(ctx context.Context, resourceID id.ResourceID, links []models.SubjectLink) error
	LinksFor(ctx context.Context, resourceID id.ResourceID) ([]models.SubjectLink, error)
	ResourceCounts(ctx context.Context) (map[id.SubjectID]int, error)
}

// ResourceGuard confirms a resource exists before links are written against
// it. The server wires this to the resource module.
type ResourceGuard interface {
	Exists(ctx context.Context, resourceID id.ResourceID) error
}

// StoreTx provides the transactional boundary for the delete-then-insert
// link replacement.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service maintains the subject taxonomy and resource classification.
type Service struct {
	subjects   SubjectStore
	resources  ResourceGuard
	authorizer authz.Authorizer
	tx         StoreTx
	cache      *TreeCache
	logger     *slog.Logger
	metrics    *subjectmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *subjectmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// WithTreeCache serves Tree through the given cache. Without it every read
// rebuilds from the store.
func WithTreeCache(cache *TreeCache) Option {
	return func(s *Service) { s.cache = cache }
}

// New constructs a Service.
func New(subjects SubjectStore, resources ResourceGuard, authorizer authz.Authorizer, opts ...Option) *Service {
	s := &Service{
		subjects:   subjects,
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

// CreateSubject adds a taxonomy node. A subitem's parent must exist and be a
// root subject; the taxonomy stays two levels deep.
func (s *Service) CreateSubject(ctx context.Context, name string, parentID *id.SubjectID) (*models.Subject, error) {
	if err := s.authorize(ctx, authz.ActionClassifyResource); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.subjects.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeNotFound, "parent subject not found")
			}
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load parent subject")
		}
		if !parent.IsRoot() {
			return nil, dErrors.New(dErrors.CodeValidation, "subjects nest only one level deep")
		}
	}

	subject, err := models.NewSubject(id.SubjectID(uuid.New()), name, parentID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}
	if err := s.subjects.CreateSubject(ctx, subject); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create subject")
	}

	s.invalidateTree(ctx)
	return subject, nil
}

// Classify replaces a resource's classification with the given main subject
// and subitems. The whole link set is swapped atomically; a repeat call with
// the same arguments is a no-op in effect.
func (s *Service) Classify(ctx context.Context, resourceID id.ResourceID, mainSubjectID id.SubjectID, subitemIDs []id.SubjectID) error {
	if resourceID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "resource id is required")
	}
	if mainSubjectID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "main subject id is required")
	}
	if err := s.authorize(ctx, authz.ActionClassifyResource); err != nil {
		return err
	}
	if err := s.resources.Exists(ctx, resourceID); err != nil {
		return err
	}

	main, err := s.subjects.FindByID(ctx, mainSubjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "main subject not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load main subject")
	}
	if !main.Active {
		return dErrors.New(dErrors.CodeValidation, "main subject is inactive")
	}

	links := make([]models.SubjectLink, 0, len(subitemIDs)+1)
	links = append(links, models.SubjectLink{
		ResourceID: resourceID,
		SubjectID:  mainSubjectID,
		IsPrimary:  true,
	})
	seen := map[id.SubjectID]bool{mainSubjectID: true}
	for _, subitemID := range subitemIDs {
		if seen[subitemID] {
			return dErrors.New(dErrors.CodeValidation, "duplicate subject in classification")
		}
		seen[subitemID] = true

		subitem, err := s.subjects.FindByID(ctx, subitemID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "subitem subject not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subitem")
		}
		if subitem.ParentID == nil || *subitem.ParentID != mainSubjectID {
			return dErrors.Newf(dErrors.CodeValidation,
				"subject %s is not a subitem of the main subject", subitem.Name)
		}
		links = append(links, models.SubjectLink{
			ResourceID: resourceID,
			SubjectID:  subitemID,
		})
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.subjects.ReplaceLinks(txCtx, resourceID, links); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace classification")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "resource classified",
		"resource_id", resourceID.String(),
		"main_subject_id", mainSubjectID.String(),
		"subitems", len(subitemIDs),
		"request_id", requestcontext.RequestID(ctx),
	)
	if s.metrics != nil {
		s.metrics.IncrementClassifications()
	}
	s.invalidateTree(ctx)
	return nil
}

// Tree returns the annotated taxonomy tree, via the cache when one is wired.
func (s *Service) Tree(ctx context.Context) ([]*models.TreeNode, error) {
	if s.cache == nil {
		return s.buildTree(ctx)
	}
	return s.cache.Tree(ctx, func() ([]*models.TreeNode, error) {
		return s.buildTree(ctx)
	})
}

// LinksFor returns the classification links of a resource, primary first.
func (s *Service) LinksFor(ctx context.Context, resourceID id.ResourceID) ([]models.SubjectLink, error) {
	if resourceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "resource id is required")
	}
	links, err := s.subjects.LinksFor(ctx, resourceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load classification")
	}
	return links, nil
}

func (s *Service) buildTree(ctx context.Context) ([]*models.TreeNode, error) {
	subjects, err := s.subjects.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subjects")
	}
	counts, err := s.subjects.ResourceCounts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count subject links")
	}
	return models.BuildTree(subjects, counts), nil
}

func (s *Service) invalidateTree(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "subject tree cache invalidation failed", "error", err)
	}
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
