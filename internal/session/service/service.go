package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"plenario/internal/authz"
	"plenario/internal/notify"
	pubmodels "plenario/internal/publication/models"
	pubservice "plenario/internal/publication/service"
	"plenario/internal/session/models"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/requestcontext"
)

// SessionStore persists sessions and their agenda rows.
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	List(ctx context.Context) ([]*models.Session, error)
	AddResource(ctx context.Context, row *models.SessionResource) error
	RemoveResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) error
	Agenda(ctx context.Context, sessionID id.SessionID) ([]*models.SessionResource, error)
	UpdateOrder(ctx context.Context, rowID id.SessionResourceID, order int) error
}

// JudgmentChecker reports judgment presence per resource. Wired to the
// resource module; also the existence check for agenda additions.
type JudgmentChecker interface {
	Judged(ctx context.Context, resourceIDs []id.ResourceID) (map[id.ResourceID]bool, error)
}

// PublicationIssuer appends to the publication ledger. PublishAgenda calls
// it inside its transaction so the SESSAO entry and the session transition
// commit or roll back together.
type PublicationIssuer interface {
	Issue(ctx context.Context, input pubservice.IssueInput) (*pubmodels.Publication, error)
}

// StoreTx provides the transactional boundary for multi-row writes.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// Service orchestrates the session lifecycle and agenda composition.
type Service struct {
	sessions     SessionStore
	judgments    JudgmentChecker
	publications PublicationIssuer
	authorizer   authz.Authorizer
	tx           StoreTx
	notifier     notify.Notifier
	logger       *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Service) { s.notifier = notifier }
}

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

// New constructs a Service.
func New(sessions SessionStore, judgments JudgmentChecker, publications PublicationIssuer,
	authorizer authz.Authorizer, opts ...Option) *Service {
	s := &Service{
		sessions:     sessions,
		judgments:    judgments,
		publications: publications,
		authorizer:   authorizer,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewInMemoryStoreTx()
	}
	return s
}

// CreateSessionInput carries the fields of a newly scheduled session.
type CreateSessionInput struct {
	Sequence int
	Year     int
	Ordinal  int
	Type     models.SessionType
	Date     time.Time
}

// CreateSession schedules a session in its composition stage.
func (s *Service) CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	if err := s.authorize(ctx, authz.ActionCreateSession); err != nil {
		return nil, err
	}

	session, err := models.NewSession(
		id.SessionID(uuid.New()),
		input.Sequence, input.Year, input.Ordinal, input.Type, input.Date,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "session ordinal already scheduled for that year")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create session")
	}
	return session, nil
}

// PublishAgenda issues the session's SESSAO publication and moves the
// session to PENDENTE in one transaction. The publication number constraint
// makes a duplicate number a Conflict no matter how the calls race.
func (s *Service) PublishAgenda(ctx context.Context, sessionID id.SessionID, number string, date time.Time, observations string) (*pubmodels.Publication, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, authz.ActionPublishAgenda); err != nil {
		return nil, err
	}

	var publication *pubmodels.Publication
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}
		if session.Status != models.StatusPublicacao && session.Status != models.StatusPendente {
			return dErrors.Newf(dErrors.CodeConflict,
				"agenda of a %s session cannot be published", string(session.Status))
		}

		publication, err = s.publications.Issue(txCtx, pubservice.IssueInput{
			Type:         pubmodels.TypeSessao,
			Number:       number,
			Date:         date,
			SessionID:    &sessionID,
			Observations: observations,
		})
		if err != nil {
			return err
		}

		if session.Status == models.StatusPublicacao {
			session.ApplyStatus(models.StatusPendente, requestcontext.Now(txCtx))
			if err := s.sessions.Update(txCtx, session); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update session")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyAgendaPublished(ctx, sessionID, publication)
	return publication, nil
}

// OrderEntry is one row of a reorder payload.
type OrderEntry struct {
	SessionResourceID id.SessionResourceID
	Order             int
}

// Reorder rewrites agenda order values. Every entry must name a row of this
// session and target orders must be distinct; the deferred constraint lets
// swaps commit.
func (s *Service) Reorder(ctx context.Context, sessionID id.SessionID, entries []OrderEntry) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	if err := s.authorize(ctx, authz.ActionEditAgenda); err != nil {
		return err
	}
	if len(entries) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "no order entries given")
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}
		if !session.AcceptsAgendaEdits() {
			return dErrors.Newf(dErrors.CodeConflict,
				"agenda of a %s session is frozen", string(session.Status))
		}

		agenda, err := s.sessions.Agenda(txCtx, sessionID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agenda")
		}
		owned := make(map[id.SessionResourceID]bool, len(agenda))
		for _, row := range agenda {
			owned[row.ID] = true
		}

		seenRows := make(map[id.SessionResourceID]bool, len(entries))
		seenOrders := make(map[int]bool, len(entries))
		for _, entry := range entries {
			if !owned[entry.SessionResourceID] {
				return dErrors.New(dErrors.CodeValidation, "entry does not belong to this session")
			}
			if seenRows[entry.SessionResourceID] {
				return dErrors.New(dErrors.CodeValidation, "duplicate agenda row in reorder")
			}
			if entry.Order <= 0 {
				return dErrors.New(dErrors.CodeValidation, "agenda order must be positive")
			}
			if seenOrders[entry.Order] {
				return dErrors.New(dErrors.CodeValidation, "duplicate agenda order in reorder")
			}
			seenRows[entry.SessionResourceID] = true
			seenOrders[entry.Order] = true
		}

		for _, entry := range entries {
			if err := s.sessions.UpdateOrder(txCtx, entry.SessionResourceID, entry.Order); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update agenda order")
			}
		}
		return nil
	})
}

// AddResource appends a resource to the agenda at the next free order.
func (s *Service) AddResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) (*models.SessionResource, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if resourceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "resource id is required")
	}
	if err := s.authorize(ctx, authz.ActionEditAgenda); err != nil {
		return nil, err
	}
	if _, err := s.judgments.Judged(ctx, []id.ResourceID{resourceID}); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "resource not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check resource")
	}

	var row *models.SessionResource
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}
		if !session.AcceptsAgendaEdits() {
			return dErrors.Newf(dErrors.CodeConflict,
				"agenda of a %s session is frozen", string(session.Status))
		}

		agenda, err := s.sessions.Agenda(txCtx, sessionID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agenda")
		}
		maxOrder := 0
		for _, existing := range agenda {
			if existing.Order > maxOrder {
				maxOrder = existing.Order
			}
		}

		row = &models.SessionResource{
			ID:         id.SessionResourceID(uuid.New()),
			SessionID:  sessionID,
			ResourceID: resourceID,
			Order:      maxOrder + 1,
			CreatedAt:  requestcontext.Now(txCtx),
		}
		if err := s.sessions.AddResource(txCtx, row); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "resource already on this agenda")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to add resource to agenda")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// RemoveResource deletes the agenda row; the resource itself is untouched.
func (s *Service) RemoveResource(ctx context.Context, sessionID id.SessionID, resourceID id.ResourceID) error {
	if err := requireSessionID(sessionID); err != nil {
		return err
	}
	if err := s.authorize(ctx, authz.ActionEditAgenda); err != nil {
		return err
	}

	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}
		if !session.AcceptsAgendaEdits() {
			return dErrors.Newf(dErrors.CodeConflict,
				"agenda of a %s session is frozen", string(session.Status))
		}
		if err := s.sessions.RemoveResource(txCtx, sessionID, resourceID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "resource is not on this agenda")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove resource from agenda")
		}
		return nil
	})
}

// Agenda returns the ordered agenda rows.
func (s *Service) Agenda(ctx context.Context, sessionID id.SessionID) ([]*models.SessionResource, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return nil, wrapSessionErr(err)
	}
	agenda, err := s.sessions.Agenda(ctx, sessionID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agenda")
	}
	return agenda, nil
}

// Get returns a session by id.
func (s *Service) Get(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, wrapSessionErr(err)
	}
	return session, nil
}

// MinutesReady reports whether the minutes can be finalized: every agenda
// resource judged. Recomputed on every call, never stored on the row, so a
// late judgment or agenda edit is reflected immediately. An empty agenda is
// ready.
func (s *Service) MinutesReady(ctx context.Context, sessionID id.SessionID) (bool, error) {
	if err := requireSessionID(sessionID); err != nil {
		return false, err
	}
	if _, err := s.sessions.FindByID(ctx, sessionID); err != nil {
		return false, wrapSessionErr(err)
	}
	return s.minutesReady(ctx, sessionID)
}

// CompleteJudgment moves the session from PENDENTE to JULGADA once every
// agenda resource reached a judgment.
func (s *Service) CompleteJudgment(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, authz.ActionCompleteJudgment); err != nil {
		return nil, err
	}

	var updated *models.Session
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}
		if err := session.CanAdvanceTo(models.StatusJulgada); err != nil {
			return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
		}

		ready, err := s.minutesReady(txCtx, sessionID)
		if err != nil {
			return err
		}
		if !ready {
			return dErrors.New(dErrors.CodeConflict, "not every agenda resource has been judged")
		}

		session.ApplyStatus(models.StatusJulgada, requestcontext.Now(txCtx))
		if err := s.sessions.Update(txCtx, session); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update session")
		}
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FinalizeMinutes signs the minutes and closes the session.
func (s *Service) FinalizeMinutes(ctx context.Context, sessionID id.SessionID, minutesFile string) (*models.Session, error) {
	if err := requireSessionID(sessionID); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, authz.ActionFinalizeMinutes); err != nil {
		return nil, err
	}

	var updated *models.Session
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.FindByID(txCtx, sessionID)
		if err != nil {
			return wrapSessionErr(err)
		}

		ready, err := s.minutesReady(txCtx, sessionID)
		if err != nil {
			return err
		}
		if !ready {
			return dErrors.New(dErrors.CodeConflict, "minutes are not ready: unjudged resources remain")
		}

		if err := session.FinalizeMinutes(minutesFile, requestcontext.Now(txCtx)); err != nil {
			if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
				return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
			}
			return err
		}
		if err := s.sessions.Update(txCtx, session); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update session")
		}
		updated = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyMinutesFinalized(ctx, updated)
	return updated, nil
}

// List returns every session annotated with minutes readiness.
func (s *Service) List(ctx context.Context) ([]models.SessionRow, error) {
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list sessions")
	}

	rows := make([]models.SessionRow, 0, len(sessions))
	for _, session := range sessions {
		ready, err := s.minutesReady(ctx, session.ID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, models.SessionRow{Session: *session, MinutesReady: ready})
	}
	return rows, nil
}

func (s *Service) minutesReady(ctx context.Context, sessionID id.SessionID) (bool, error) {
	agenda, err := s.sessions.Agenda(ctx, sessionID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load agenda")
	}
	if len(agenda) == 0 {
		return true, nil
	}

	resourceIDs := make([]id.ResourceID, 0, len(agenda))
	for _, row := range agenda {
		resourceIDs = append(resourceIDs, row.ResourceID)
	}
	judged, err := s.judgments.Judged(ctx, resourceIDs)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check judgments")
	}
	for _, resourceID := range resourceIDs {
		if !judged[resourceID] {
			return false, nil
		}
	}
	return true, nil
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

func (s *Service) notifyAgendaPublished(ctx context.Context, sessionID id.SessionID, publication *pubmodels.Publication) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, sessionID.String(), notify.KindAgendaPublished, map[string]string{
		"publication_number": publication.Number,
		"publication_date":   publication.Date.Format("2006-01-02"),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "agenda publication notification failed",
			"session_id", sessionID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func (s *Service) notifyMinutesFinalized(ctx context.Context, session *models.Session) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Send(ctx, session.ID.String(), notify.KindMinutesFinalized, map[string]string{
		"minutes_file": session.MinutesFile,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "minutes notification failed",
			"session_id", session.ID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}

func wrapSessionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "session not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
}

func requireSessionID(sessionID id.SessionID) error {
	if sessionID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "session id is required")
	}
	return nil
}
