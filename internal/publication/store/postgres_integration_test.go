//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"plenario/internal/publication/models"
	"plenario/internal/publication/store"
	resourcemodels "plenario/internal/resource/models"
	resourcestore "plenario/internal/resource/store"
	sessionmodels "plenario/internal/session/models"
	sessionstore "plenario/internal/session/store"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/testutil/containers"
)

type PostgresPublicationStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	resources *resourcestore.PostgresStore
	sessions  *sessionstore.PostgresStore
}

func TestPostgresPublicationStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresPublicationStoreSuite))
}

func (s *PostgresPublicationStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.resources = resourcestore.NewPostgres(s.postgres.DB)
	s.sessions = sessionstore.NewPostgres(s.postgres.DB)
}

func (s *PostgresPublicationStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"publications", "session_resources", "sessions", "resources")
	s.Require().NoError(err)
}

func (s *PostgresPublicationStoreSuite) createResource(number string) id.ResourceID {
	resource, err := resourcemodels.NewResource(
		id.ResourceID(uuid.New()), 1, 2025, number, "PROC-"+number,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	s.Require().NoError(s.resources.Create(context.Background(), resource))
	return resource.ID
}

func (s *PostgresPublicationStoreSuite) createSession(ordinal int) id.SessionID {
	session, err := sessionmodels.NewSession(
		id.SessionID(uuid.New()),
		ordinal, 2025, ordinal, sessionmodels.TypeOrdinaria,
		time.Date(2025, 6, ordinal, 0, 0, 0, 0, time.UTC),
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	s.Require().NoError(s.sessions.Create(context.Background(), session))
	return session.ID
}

func (s *PostgresPublicationStoreSuite) newPublication(pubType models.Type, number string, date time.Time,
	resourceID *id.ResourceID, sessionID *id.SessionID) *models.Publication {
	publication, err := models.NewPublication(
		id.PublicationID(uuid.New()), pubType, number, date,
		resourceID, sessionID, "",
		id.UserID(uuid.New()), time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	return publication
}

func (s *PostgresPublicationStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	resourceID := s.createResource("0001/2025")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	created := s.newPublication(models.TypeAcordao, "AC-001/2025", date, &resourceID, nil)
	s.Require().NoError(s.store.Create(ctx, created))

	found, err := s.store.FindByID(ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("AC-001/2025", found.Number)
	s.Require().NotNil(found.ResourceID)
	s.Equal(resourceID, *found.ResourceID)
	s.Nil(found.SessionID)
	s.True(found.Date.Equal(date))

	_, err = s.store.FindByID(ctx, id.PublicationID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresPublicationStoreSuite) TestConcurrentDuplicateNumber() {
	ctx := context.Background()
	resourceID := s.createResource("0001/2025")
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			publication := s.newPublication(models.TypeAcordao, "AC-100/2025", date, &resourceID, nil)
			results <- s.store.Create(ctx, publication)
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, conflicted int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, sentinel.ErrConflict):
			conflicted++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(attempts-1, conflicted)
}

func (s *PostgresPublicationStoreSuite) TestNumberSpacePerType() {
	ctx := context.Background()
	resourceID := s.createResource("0001/2025")
	sessionID := s.createSession(1)
	date := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Create(ctx,
		s.newPublication(models.TypeAcordao, "100/2025", date, &resourceID, nil)))
	s.NoError(s.store.Create(ctx,
		s.newPublication(models.TypeSessao, "100/2025", date, nil, &sessionID)))
}

func (s *PostgresPublicationStoreSuite) TestForResourceAndSessions() {
	ctx := context.Background()
	resourceID := s.createResource("0001/2025")
	onAgenda := s.createSession(1)
	offAgenda := s.createSession(2)
	day := func(d int) time.Time { return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC) }

	s.Require().NoError(s.sessions.AddResource(ctx, &sessionmodels.SessionResource{
		ID:         id.SessionResourceID(uuid.New()),
		SessionID:  onAgenda,
		ResourceID: resourceID,
		Order:      1,
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}))

	s.Require().NoError(s.store.Create(ctx,
		s.newPublication(models.TypeAcordao, "AC-200/2025", day(9), &resourceID, nil)))
	s.Require().NoError(s.store.Create(ctx,
		s.newPublication(models.TypeNotificacao, "NT-200/2025", day(2), &resourceID, nil)))
	s.Require().NoError(s.store.Create(ctx,
		s.newPublication(models.TypeSessao, "DO-200/2025", day(1), nil, &onAgenda)))
	s.Require().NoError(s.store.Create(ctx,
		s.newPublication(models.TypeSessao, "DO-201/2025", day(1), nil, &offAgenda)))

	direct, err := s.store.ForResource(ctx, resourceID)
	s.Require().NoError(err)
	s.Require().Len(direct, 2)
	s.Equal("AC-200/2025", direct[0].Number)

	viaSessions, err := s.store.ForSessionsContaining(ctx, resourceID)
	s.Require().NoError(err)
	s.Require().Len(viaSessions, 1)
	s.Equal("DO-200/2025", viaSessions[0].Number)

	forSession, err := s.store.ForSession(ctx, onAgenda)
	s.Require().NoError(err)
	s.Require().Len(forSession, 1)
	s.Equal("DO-200/2025", forSession[0].Number)
}
