package store

import (
	"context"
	"sort"
	"sync"

	"plenario/internal/session/models"
	id "plenario/pkg/domain"
	"plenario/pkg/platform/sentinel"
)

// InMemoryStore is the mutex-guarded map implementation used by unit tests
// and local development.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[id.SessionID]*models.Session
	agenda   map[id.SessionID][]*models.SessionResource
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[id.SessionID]*models.Session),
		agenda:   make(map[id.SessionID][]*models.SessionResource),
	}
}

func (s *InMemoryStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.sessions {
		if existing.Year == session.Year && existing.Ordinal == session.Ordinal && existing.Type == session.Type {
			return sentinel.ErrConflict
		}
	}
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *InMemoryStore) Update(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[session.ID]; !ok {
		return sentinel.ErrNotFound
	}
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		clone := *session
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].Ordinal > out[j].Ordinal
	})
	return out, nil
}

func (s *InMemoryStore) AddResource(_ context.Context, row *models.SessionResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.agenda[row.SessionID] {
		if existing.ResourceID == row.ResourceID {
			return sentinel.ErrConflict
		}
	}
	clone := *row
	s.agenda[row.SessionID] = append(s.agenda[row.SessionID], &clone)
	return nil
}

func (s *InMemoryStore) RemoveResource(_ context.Context, sessionID id.SessionID, resourceID id.ResourceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.agenda[sessionID]
	for i, row := range rows {
		if row.ResourceID == resourceID {
			s.agenda[sessionID] = append(rows[:i:i], rows[i+1:]...)
			return nil
		}
	}
	return sentinel.ErrNotFound
}

func (s *InMemoryStore) Agenda(_ context.Context, sessionID id.SessionID) ([]*models.SessionResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.agenda[sessionID]
	out := make([]*models.SessionResource, 0, len(rows))
	for _, row := range rows {
		clone := *row
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) UpdateOrder(_ context.Context, rowID id.SessionResourceID, order int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rows := range s.agenda {
		for _, row := range rows {
			if row.ID == rowID {
				row.Order = order
				return nil
			}
		}
	}
	return sentinel.ErrNotFound
}

// SessionsFor implements the publication store's agenda lookup.
func (s *InMemoryStore) SessionsFor(_ context.Context, resourceID id.ResourceID) ([]id.SessionID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []id.SessionID
	for sessionID, rows := range s.agenda {
		for _, row := range rows {
			if row.ResourceID == resourceID {
				out = append(out, sessionID)
				break
			}
		}
	}
	return out, nil
}
