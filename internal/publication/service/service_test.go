package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"plenario/internal/authz"
	"plenario/internal/publication/models"
	"plenario/internal/publication/store"
	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
	"plenario/pkg/requestcontext"
)

// agendaStub maps resources to the sessions carrying them.
type agendaStub map[id.ResourceID][]id.SessionID

func (a agendaStub) SessionsFor(_ context.Context, resourceID id.ResourceID) ([]id.SessionID, error) {
	return a[resourceID], nil
}

type PublicationServiceSuite struct {
	suite.Suite
	agenda  agendaStub
	service *Service
	ctx     context.Context
}

func TestPublicationServiceSuite(t *testing.T) {
	suite.Run(t, new(PublicationServiceSuite))
}

func (s *PublicationServiceSuite) SetupTest() {
	s.agenda = agendaStub{}
	s.service = New(store.NewInMemory(s.agenda), authz.AllowAll{})
	s.ctx = requestcontext.WithUserID(context.Background(), id.UserID(uuid.New()))
}

func (s *PublicationServiceSuite) issue(input IssueInput) *models.Publication {
	publication, err := s.service.Issue(s.ctx, input)
	s.Require().NoError(err)
	return publication
}

func (s *PublicationServiceSuite) TestIssue() {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resourceID := id.ResourceID(uuid.New())

	s.Run("issues a resource publication", func() {
		publication := s.issue(IssueInput{
			Type: models.TypeAcordao, Number: "AC-001/2025", Date: date,
			ResourceID: &resourceID,
		})
		s.Equal(models.TypeAcordao, publication.Type)
		s.Require().NotNil(publication.ResourceID)
		s.Equal(resourceID, *publication.ResourceID)
	})

	s.Run("duplicate type and number is a conflict", func() {
		_, err := s.service.Issue(s.ctx, IssueInput{
			Type: models.TypeAcordao, Number: "AC-001/2025", Date: date,
			ResourceID: &resourceID,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("same number under another type passes", func() {
		sessionID := id.SessionID(uuid.New())
		_, err := s.service.Issue(s.ctx, IssueInput{
			Type: models.TypeSessao, Number: "AC-001/2025", Date: date,
			SessionID: &sessionID,
		})
		s.NoError(err)
	})

	s.Run("entry without a target is a validation error", func() {
		_, err := s.service.Issue(s.ctx, IssueInput{
			Type: models.TypeNotificacao, Number: "NT-001/2025", Date: date,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("blank number is a validation error", func() {
		_, err := s.service.Issue(s.ctx, IssueInput{
			Type: models.TypeAcordao, Number: "   ", Date: date,
			ResourceID: &resourceID,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unauthorized principal is rejected", func() {
		denied := New(store.NewInMemory(s.agenda), authz.NewRoleAuthorizer(nil, nil))
		_, err := denied.Issue(s.ctx, IssueInput{
			Type: models.TypeAcordao, Number: "AC-900/2025", Date: date,
			ResourceID: &resourceID,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func (s *PublicationServiceSuite) TestGet() {
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	resourceID := id.ResourceID(uuid.New())
	issued := s.issue(IssueInput{
		Type: models.TypeAcordao, Number: "AC-010/2025", Date: date,
		ResourceID: &resourceID,
	})

	found, err := s.service.Get(s.ctx, issued.ID)
	s.Require().NoError(err)
	s.Equal(issued.Number, found.Number)

	_, err = s.service.Get(s.ctx, id.PublicationID(uuid.New()))
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *PublicationServiceSuite) TestForResource() {
	resourceID := id.ResourceID(uuid.New())
	sessionID := id.SessionID(uuid.New())
	otherSession := id.SessionID(uuid.New())
	s.agenda[resourceID] = []id.SessionID{sessionID}

	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	s.issue(IssueInput{Type: models.TypeSessao, Number: "DO-100/2025", Date: day(1), SessionID: &sessionID})
	s.issue(IssueInput{Type: models.TypeAcordao, Number: "AC-050/2025", Date: day(10), ResourceID: &resourceID})
	s.issue(IssueInput{Type: models.TypeNotificacao, Number: "NT-020/2025", Date: day(10), ResourceID: &resourceID})
	// Noise from a session the resource never appeared in.
	s.issue(IssueInput{Type: models.TypeSessao, Number: "DO-101/2025", Date: day(2), SessionID: &otherSession})

	s.Run("unions direct and agenda publications newest first", func() {
		publications, err := s.service.ForResource(s.ctx, resourceID)
		s.Require().NoError(err)
		s.Require().Len(publications, 3)
		// Same-day entries fall back to number descending.
		s.Equal("NT-020/2025", publications[0].Number)
		s.Equal("AC-050/2025", publications[1].Number)
		s.Equal("DO-100/2025", publications[2].Number)
	})

	s.Run("entry reachable directly and via the session appears once", func() {
		dual := s.issue(IssueInput{
			Type: models.TypeSessao, Number: "DO-102/2025", Date: day(3),
			ResourceID: &resourceID, SessionID: &sessionID,
		})

		publications, err := s.service.ForResource(s.ctx, resourceID)
		s.Require().NoError(err)
		s.Require().Len(publications, 4)
		occurrences := 0
		for _, publication := range publications {
			if publication.ID == dual.ID {
				occurrences++
			}
		}
		s.Equal(1, occurrences)
	})

	s.Run("nil id is a bad request", func() {
		_, err := s.service.ForResource(s.ctx, id.ResourceID{})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("resource with no history is empty", func() {
		publications, err := s.service.ForResource(s.ctx, id.ResourceID(uuid.New()))
		s.Require().NoError(err)
		s.Empty(publications)
	})
}

func (s *PublicationServiceSuite) TestForSession() {
	sessionID := id.SessionID(uuid.New())
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	s.issue(IssueInput{Type: models.TypeSessao, Number: "DO-100/2025", Date: day(1), SessionID: &sessionID})
	s.issue(IssueInput{Type: models.TypeSessao, Number: "DO-110/2025", Date: day(5), SessionID: &sessionID})

	publications, err := s.service.ForSession(s.ctx, sessionID)
	s.Require().NoError(err)
	s.Require().Len(publications, 2)
	s.Equal("DO-110/2025", publications[0].Number)

	_, err = s.service.ForSession(s.ctx, id.SessionID{})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}
