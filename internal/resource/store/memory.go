package store

import (
	"context"
	"sort"
	"sync"

	"plenario/internal/resource/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

// InMemoryStore is the mutex-guarded map implementation used by unit tests
// and local development.
type InMemoryStore struct {
	mu           sync.RWMutex
	resources    map[id.ResourceID]*models.Resource
	tramitations map[id.ResourceID][]*models.Tramitation
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		resources:    make(map[id.ResourceID]*models.Resource),
		tramitations: make(map[id.ResourceID][]*models.Tramitation),
	}
}

func (s *InMemoryStore) Create(_ context.Context, resource *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.resources {
		if existing.Year == resource.Year && existing.Number == resource.Number {
			return sentinel.ErrConflict
		}
	}
	clone := *resource
	s.resources[resource.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, resourceID id.ResourceID) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resource, ok := s.resources[resourceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *resource
	return &clone, nil
}

func (s *InMemoryStore) Update(_ context.Context, resource *models.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resources[resource.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *resource
	s.resources[resource.ID] = &clone
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Resource, 0, len(s.resources))
	for _, resource := range s.resources {
		clone := *resource
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out, nil
}

func (s *InMemoryStore) AppendTramitation(_ context.Context, tramitation *models.Tramitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *tramitation
	s.tramitations[tramitation.ResourceID] = append(s.tramitations[tramitation.ResourceID], &clone)
	return nil
}

func (s *InMemoryStore) TramitationsFor(_ context.Context, resourceID id.ResourceID) ([]*models.Tramitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.tramitations[resourceID]
	out := make([]*models.Tramitation, 0, len(entries))
	for _, entry := range entries {
		clone := *entry
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}

// Judged reports judgment presence for each given resource. Consumed by the
// session module's minutes readiness calculation.
func (s *InMemoryStore) Judged(_ context.Context, resourceIDs []id.ResourceID) (map[id.ResourceID]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.ResourceID]bool, len(resourceIDs))
	for _, resourceID := range resourceIDs {
		resource, ok := s.resources[resourceID]
		if !ok {
			return nil, sentinel.ErrNotFound
		}
		out[resourceID] = resource.Judged
	}
	return out, nil
}
