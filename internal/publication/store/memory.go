package store

import (
	"context"
	"sort"
	"sync"

	"plenario/internal/publication/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

// AgendaLookup answers which sessions carry a resource on their agenda. The
// postgres store joins session_resources itself; the in-memory store asks
// the session store through this.
type AgendaLookup interface {
	SessionsFor(ctx context.Context, resourceID id.ResourceID) ([]id.SessionID, error)
}

type typeNumber struct {
	pubType models.Type
	number  string
}

// InMemoryStore is the mutex-guarded map implementation used by unit tests
// and local development. The (type, number) map key is the uniqueness
// constraint.
type InMemoryStore struct {
	mu           sync.RWMutex
	publications map[id.PublicationID]*models.Publication
	byNumber     map[typeNumber]id.PublicationID
	agenda       AgendaLookup
}

func NewInMemory(agenda AgendaLookup) *InMemoryStore {
	return &InMemoryStore{
		publications: make(map[id.PublicationID]*models.Publication),
		byNumber:     make(map[typeNumber]id.PublicationID),
		agenda:       agenda,
	}
}

func (s *InMemoryStore) Create(_ context.Context, publication *models.Publication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := typeNumber{publication.Type, publication.Number}
	if _, ok := s.byNumber[key]; ok {
		return sentinel.ErrConflict
	}
	clone := *publication
	s.publications[publication.ID] = &clone
	s.byNumber[key] = publication.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, publicationID id.PublicationID) (*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	publication, ok := s.publications[publicationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *publication
	return &clone, nil
}

func (s *InMemoryStore) ForResource(_ context.Context, resourceID id.ResourceID) ([]*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Publication
	for _, publication := range s.publications {
		if publication.ResourceID != nil && *publication.ResourceID == resourceID {
			clone := *publication
			out = append(out, &clone)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ForSessionsContaining(ctx context.Context, resourceID id.ResourceID) ([]*models.Publication, error) {
	if s.agenda == nil {
		return nil, nil
	}
	sessionIDs, err := s.agenda.SessionsFor(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	wanted := make(map[id.SessionID]bool, len(sessionIDs))
	for _, sessionID := range sessionIDs {
		wanted[sessionID] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Publication
	for _, publication := range s.publications {
		if publication.Type != models.TypeSessao || publication.SessionID == nil {
			continue
		}
		if wanted[*publication.SessionID] {
			clone := *publication
			out = append(out, &clone)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemoryStore) ForSession(_ context.Context, sessionID id.SessionID) ([]*models.Publication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Publication
	for _, publication := range s.publications {
		if publication.SessionID != nil && *publication.SessionID == sessionID {
			clone := *publication
			out = append(out, &clone)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(publications []*models.Publication) {
	sort.SliceStable(publications, func(i, j int) bool {
		if !publications[i].Date.Equal(publications[j].Date) {
			return publications[i].Date.After(publications[j].Date)
		}
		return publications[i].Number > publications[j].Number
	})
}
