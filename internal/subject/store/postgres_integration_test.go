//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	resourcemodels "plenario/internal/resource/models"
	resourcestore "plenario/internal/resource/store"
	"plenario/internal/subject/models"
	"plenario/internal/subject/store"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/testutil/containers"
)

type PostgresSubjectStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	store     *store.PostgresStore
	resources *resourcestore.PostgresStore
}

func TestPostgresSubjectStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresSubjectStoreSuite))
}

func (s *PostgresSubjectStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.resources = resourcestore.NewPostgres(s.postgres.DB)
}

func (s *PostgresSubjectStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "subject_links", "subjects", "resources")
	s.Require().NoError(err)
}

func (s *PostgresSubjectStoreSuite) createResource(number string) id.ResourceID {
	resource, err := resourcemodels.NewResource(
		id.ResourceID(uuid.New()), 1, 2025, number, "PROC-"+number,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	s.Require().NoError(s.resources.Create(context.Background(), resource))
	return resource.ID
}

func (s *PostgresSubjectStoreSuite) createSubject(name string, parentID *id.SubjectID) *models.Subject {
	subject, err := models.NewSubject(id.SubjectID(uuid.New()), name, parentID)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreateSubject(context.Background(), subject))
	return subject
}

func (s *PostgresSubjectStoreSuite) TestSubjectRoundTrip() {
	ctx := context.Background()
	main := s.createSubject("IPTU", nil)
	subitem := s.createSubject("Isenção", &main.ID)

	found, err := s.store.FindByID(ctx, subitem.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.ParentID)
	s.Equal(main.ID, *found.ParentID)

	subjects, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(subjects, 2)

	_, err = s.store.FindByID(ctx, id.SubjectID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresSubjectStoreSuite) TestReplaceLinks() {
	ctx := context.Background()
	resourceID := s.createResource("0001/2025")
	main := s.createSubject("IPTU", nil)
	subitem := s.createSubject("Isenção", &main.ID)

	links := []models.SubjectLink{
		{ResourceID: resourceID, SubjectID: main.ID, IsPrimary: true},
		{ResourceID: resourceID, SubjectID: subitem.ID},
	}
	s.Require().NoError(s.store.ReplaceLinks(ctx, resourceID, links))

	// Replacing again with the same set must not trip the primary index.
	s.Require().NoError(s.store.ReplaceLinks(ctx, resourceID, links))

	got, err := s.store.LinksFor(ctx, resourceID)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.True(got[0].IsPrimary)
	s.Equal(main.ID, got[0].SubjectID)

	counts, err := s.store.ResourceCounts(ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[main.ID])
	s.Equal(1, counts[subitem.ID])
}

func (s *PostgresSubjectStoreSuite) TestTwoPrimariesRejected() {
	ctx := context.Background()
	resourceID := s.createResource("0002/2025")
	main := s.createSubject("IPTU", nil)
	other := s.createSubject("ISS", nil)

	err := s.store.ReplaceLinks(ctx, resourceID, []models.SubjectLink{
		{ResourceID: resourceID, SubjectID: main.ID, IsPrimary: true},
		{ResourceID: resourceID, SubjectID: other.ID, IsPrimary: true},
	})
	s.ErrorIs(err, sentinel.ErrConflict)
}
