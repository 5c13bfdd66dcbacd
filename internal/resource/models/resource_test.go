package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "plenario/pkg/domain"
	dErrors "plenario/pkg/domain-errors"
)

func TestNewResource(t *testing.T) {
	now := time.Now()

	t.Run("starts in analysis", func(t *testing.T) {
		r, err := NewResource(id.ResourceID(uuid.New()), 1, 2024, "042", "PA-2024-042", now)
		require.NoError(t, err)
		assert.Equal(t, StatusEmAnalise, r.Status)
		assert.False(t, r.Judged)
		assert.Equal(t, now, r.CreatedAt)
	})

	t.Run("rejects empty number", func(t *testing.T) {
		_, err := NewResource(id.ResourceID(uuid.New()), 1, 2024, "", "PA-2024-042", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects empty process number", func(t *testing.T) {
		_, err := NewResource(id.ResourceID(uuid.New()), 1, 2024, "042", "", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects out-of-range year", func(t *testing.T) {
		_, err := NewResource(id.ResourceID(uuid.New()), 1, 1994, "042", "PA-1994-042", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestResourceStatusChange(t *testing.T) {
	now := time.Now()
	r, err := NewResource(id.ResourceID(uuid.New()), 1, 2024, "042", "PA-2024-042", now)
	require.NoError(t, err)

	t.Run("legal transition applies", func(t *testing.T) {
		require.NoError(t, r.CanAdvanceTo(StatusTempestividade))
		later := now.Add(time.Hour)
		r.ApplyStatus(StatusTempestividade, later)
		assert.Equal(t, StatusTempestividade, r.Status)
		assert.Equal(t, later, r.UpdatedAt)
	})

	t.Run("illegal transition rejected", func(t *testing.T) {
		err := r.CanAdvanceTo(StatusConcluido)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		err := r.CanAdvanceTo(Status("BOGUS"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}
