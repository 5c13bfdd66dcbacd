package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plenario/internal/subject/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

func TestInMemorySubjects(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	subject, err := models.NewSubject(id.SubjectID(uuid.New()), "IPTU", nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateSubject(ctx, subject))

	t.Run("duplicate id is a conflict", func(t *testing.T) {
		assert.ErrorIs(t, store.CreateSubject(ctx, subject), sentinel.ErrConflict)
	})

	t.Run("find returns a clone", func(t *testing.T) {
		found, err := store.FindByID(ctx, subject.ID)
		require.NoError(t, err)
		found.Name = "mutated"

		again, err := store.FindByID(ctx, subject.ID)
		require.NoError(t, err)
		assert.Equal(t, "IPTU", again.Name)
	})

	t.Run("missing subject is not found", func(t *testing.T) {
		_, err := store.FindByID(ctx, id.SubjectID(uuid.New()))
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list is sorted by name", func(t *testing.T) {
		second, err := models.NewSubject(id.SubjectID(uuid.New()), "Alvará", nil)
		require.NoError(t, err)
		require.NoError(t, store.CreateSubject(ctx, second))

		subjects, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, subjects, 2)
		assert.Equal(t, "Alvará", subjects[0].Name)
	})
}

func TestInMemoryLinks(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	resourceID := id.ResourceID(uuid.New())
	mainID := id.SubjectID(uuid.New())
	subitemID := id.SubjectID(uuid.New())

	links := []models.SubjectLink{
		{ResourceID: resourceID, SubjectID: subitemID},
		{ResourceID: resourceID, SubjectID: mainID, IsPrimary: true},
	}
	require.NoError(t, store.ReplaceLinks(ctx, resourceID, links))

	t.Run("primary link sorts first", func(t *testing.T) {
		got, err := store.LinksFor(ctx, resourceID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.True(t, got[0].IsPrimary)
		assert.Equal(t, mainID, got[0].SubjectID)
	})

	t.Run("counts group by subject", func(t *testing.T) {
		counts, err := store.ResourceCounts(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, counts[mainID])
		assert.Equal(t, 1, counts[subitemID])
	})

	t.Run("replace with empty clears the set", func(t *testing.T) {
		require.NoError(t, store.ReplaceLinks(ctx, resourceID, nil))
		got, err := store.LinksFor(ctx, resourceID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
