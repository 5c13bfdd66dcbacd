package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"plenario/internal/resource/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

type InMemoryResourceStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryResourceStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryResourceStoreSuite))
}

func (s *InMemoryResourceStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryResourceStoreSuite) newResource(sequence, year int, number string) *models.Resource {
	resource, err := models.NewResource(
		id.ResourceID(uuid.New()),
		sequence, year, number, "PROC-"+number,
		time.Date(year, 1, 15, 10, 0, 0, 0, time.UTC),
	)
	s.Require().NoError(err)
	return resource
}

func (s *InMemoryResourceStoreSuite) TestCreateAndFind() {
	resource := s.newResource(1, 2025, "0001/2025")
	s.Require().NoError(s.store.Create(s.ctx, resource))

	found, err := s.store.FindByID(s.ctx, resource.ID)
	s.Require().NoError(err)
	s.Equal(resource.Number, found.Number)

	// Reads hand out clones; mutating the result must not leak back.
	found.Status = models.StatusConcluido
	again, err := s.store.FindByID(s.ctx, resource.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusEmAnalise, again.Status)
}

func (s *InMemoryResourceStoreSuite) TestCreateConflict() {
	s.Require().NoError(s.store.Create(s.ctx, s.newResource(1, 2025, "0001/2025")))

	err := s.store.Create(s.ctx, s.newResource(2, 2025, "0001/2025"))
	s.ErrorIs(err, sentinel.ErrConflict)

	// Same number in a different year is fine.
	s.NoError(s.store.Create(s.ctx, s.newResource(1, 2024, "0001/2025")))
}

func (s *InMemoryResourceStoreSuite) TestUpdate() {
	s.Run("missing resource is not found", func() {
		err := s.store.Update(s.ctx, s.newResource(1, 2025, "0005/2025"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("update persists the new status", func() {
		resource := s.newResource(1, 2025, "0006/2025")
		s.Require().NoError(s.store.Create(s.ctx, resource))

		resource.Status = models.StatusTempestividade
		s.Require().NoError(s.store.Update(s.ctx, resource))

		found, err := s.store.FindByID(s.ctx, resource.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusTempestividade, found.Status)
	})
}

func (s *InMemoryResourceStoreSuite) TestListOrdering() {
	for _, spec := range []struct {
		sequence int
		year     int
		number   string
	}{
		{2, 2025, "0002/2025"},
		{1, 2025, "0001/2025"},
		{5, 2024, "0005/2024"},
	} {
		s.Require().NoError(s.store.Create(s.ctx, s.newResource(spec.sequence, spec.year, spec.number)))
	}

	resources, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(resources, 3)
	s.Equal("0005/2024", resources[0].Number)
	s.Equal("0001/2025", resources[1].Number)
	s.Equal("0002/2025", resources[2].Number)
}

func (s *InMemoryResourceStoreSuite) TestTramitations() {
	resource := s.newResource(1, 2025, "0007/2025")
	s.Require().NoError(s.store.Create(s.ctx, resource))
	actor := id.UserID(uuid.New())
	base := time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

	// Appended out of order; reads come back sorted by occurrence.
	for _, offset := range []time.Duration{2 * time.Minute, 0, time.Minute} {
		err := s.store.AppendTramitation(s.ctx, &models.Tramitation{
			ID:         uuid.New(),
			ResourceID: resource.ID,
			FromStatus: models.StatusEmAnalise,
			ToStatus:   models.StatusTempestividade,
			ActorID:    actor,
			OccurredAt: base.Add(offset),
		})
		s.Require().NoError(err)
	}

	history, err := s.store.TramitationsFor(s.ctx, resource.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	for i := 1; i < len(history); i++ {
		s.True(history[i-1].OccurredAt.Before(history[i].OccurredAt))
	}
}

func (s *InMemoryResourceStoreSuite) TestJudged() {
	judged := s.newResource(1, 2025, "0008/2025")
	judged.Judged = true
	pending := s.newResource(2, 2025, "0009/2025")
	s.Require().NoError(s.store.Create(s.ctx, judged))
	s.Require().NoError(s.store.Create(s.ctx, pending))

	flags, err := s.store.Judged(s.ctx, []id.ResourceID{judged.ID, pending.ID})
	s.Require().NoError(err)
	s.True(flags[judged.ID])
	s.False(flags[pending.ID])

	_, err = s.store.Judged(s.ctx, []id.ResourceID{id.ResourceID(uuid.New())})
	s.ErrorIs(err, sentinel.ErrNotFound)
}
