package store

import (
	"context"
	"sort"
	"sync"

	"plenario/internal/subject/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

// InMemoryStore is the mutex-guarded map implementation used by unit tests
// and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	subjects map[id.SubjectID]*models.Subject
	links    map[id.ResourceID][]models.SubjectLink
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		subjects: make(map[id.SubjectID]*models.Subject),
		links:    make(map[id.ResourceID][]models.SubjectLink),
	}
}

func (s *InMemoryStore) CreateSubject(_ context.Context, subject *models.Subject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subjects[subject.ID]; ok {
		return sentinel.ErrConflict
	}
	clone := *subject
	s.subjects[subject.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, subjectID id.SubjectID) (*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subject, ok := s.subjects[subjectID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *subject
	return &clone, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Subject, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Subject, 0, len(s.subjects))
	for _, subject := range s.subjects {
		clone := *subject
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReplaceLinks swaps the full link set of a resource.
func (s *InMemoryStore) ReplaceLinks(_ context.Context, resourceID id.ResourceID, links []models.SubjectLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(links) == 0 {
		delete(s.links, resourceID)
		return nil
	}
	s.links[resourceID] = append([]models.SubjectLink(nil), links...)
	return nil
}

func (s *InMemoryStore) LinksFor(_ context.Context, resourceID id.ResourceID) ([]models.SubjectLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := append([]models.SubjectLink(nil), s.links[resourceID]...)
	sort.SliceStable(links, func(i, j int) bool { return links[i].IsPrimary && !links[j].IsPrimary })
	return links, nil
}

func (s *InMemoryStore) ResourceCounts(_ context.Context) (map[id.SubjectID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.SubjectID]int)
	for _, links := range s.links {
		for _, link := range links {
			out[link.SubjectID]++
		}
	}
	return out, nil
}
