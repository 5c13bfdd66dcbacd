//go:build integration

package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"plenario/internal/resource/models"
	"plenario/internal/resource/store"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
	"plenario/pkg/testutil/containers"
)

type PostgresResourceStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresResourceStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresResourceStoreSuite))
}

func (s *PostgresResourceStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresResourceStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "tramitations", "resources")
	s.Require().NoError(err)
}

func newTestResource(s *PostgresResourceStoreSuite, sequence, year int, number string) *models.Resource {
	resource, err := models.NewResource(
		id.ResourceID(uuid.New()),
		sequence, year, number, "PROC-"+number,
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	return resource
}

func (s *PostgresResourceStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	resource := newTestResource(s, 1, 2025, "0001/2025")
	s.Require().NoError(s.store.Create(ctx, resource))

	found, err := s.store.FindByID(ctx, resource.ID)
	s.Require().NoError(err)
	s.Equal(resource.Number, found.Number)
	s.Equal(models.StatusEmAnalise, found.Status)
	s.False(found.Judged)

	found.Status = models.StatusTempestividade
	found.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.store.Update(ctx, found))

	again, err := s.store.FindByID(ctx, resource.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusTempestividade, again.Status)
}

func (s *PostgresResourceStoreSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.ResourceID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.store.Update(ctx, newTestResource(s, 1, 2025, "0002/2025"))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestConcurrentDuplicateNumber verifies the (year, number) unique constraint
// lets exactly one of many racing registrations through.
func (s *PostgresResourceStoreSuite) TestConcurrentDuplicateNumber() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount atomic.Int32
	var conflictCount atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resource := newTestResource(s, 7, 2025, "0777/2025")
			switch err := s.store.Create(ctx, resource); {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			default:
				s.T().Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *PostgresResourceStoreSuite) TestTramitationsOrdering() {
	ctx := context.Background()
	resource := newTestResource(s, 1, 2025, "0003/2025")
	s.Require().NoError(s.store.Create(ctx, resource))
	actor := id.UserID(uuid.New())
	base := time.Now().UTC().Truncate(time.Microsecond)

	for _, offset := range []time.Duration{2 * time.Second, 0, time.Second} {
		err := s.store.AppendTramitation(ctx, &models.Tramitation{
			ID:         uuid.New(),
			ResourceID: resource.ID,
			FromStatus: models.StatusEmAnalise,
			ToStatus:   models.StatusTempestividade,
			ActorID:    actor,
			OccurredAt: base.Add(offset),
		})
		s.Require().NoError(err)
	}

	history, err := s.store.TramitationsFor(ctx, resource.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	for i := 1; i < len(history); i++ {
		s.True(history[i-1].OccurredAt.Before(history[i].OccurredAt))
	}
	s.Equal(actor, history[0].ActorID)
}

func (s *PostgresResourceStoreSuite) TestJudgedFlags() {
	ctx := context.Background()
	judged := newTestResource(s, 1, 2025, "0004/2025")
	judged.Judged = true
	pending := newTestResource(s, 2, 2025, "0005/2025")
	s.Require().NoError(s.store.Create(ctx, judged))
	s.Require().NoError(s.store.Create(ctx, pending))

	flags, err := s.store.Judged(ctx, []id.ResourceID{judged.ID, pending.ID})
	s.Require().NoError(err)
	s.True(flags[judged.ID])
	s.False(flags[pending.ID])
}
