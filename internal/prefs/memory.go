package prefs

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-memory Store used in tests and as a degraded
// mode when no database is configured.
type MemoryStore struct {
	mu            sync.Mutex
	solicitations map[uint]AdminSolicitation
	images        map[uint]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		solicitations: make(map[uint]AdminSolicitation),
		images:        make(map[uint]string),
	}
}

func (m *MemoryStore) GetSolicitation(ctx context.Context, userID uint) (*AdminSolicitation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.solicitations[userID]
	if !ok {
		return nil, nil
	}
	copied := s
	return &copied, nil
}

func (m *MemoryStore) SaveSolicitation(ctx context.Context, s *AdminSolicitation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.RequestedAt.IsZero() {
		s.RequestedAt = time.Now()
	}
	m.solicitations[s.UserID] = *s
	return nil
}

func (m *MemoryStore) UpdateSolicitationStatus(ctx context.Context, userID uint, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.solicitations[userID]
	if !ok {
		return nil
	}
	now := time.Now()
	s.Status = status
	s.LastChecked = &now
	m.solicitations[userID] = s
	return nil
}

func (m *MemoryStore) MarkNotified(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.solicitations[userID]
	if !ok {
		return nil
	}
	s.Notified = true
	m.solicitations[userID] = s
	return nil
}

func (m *MemoryStore) ClearSolicitation(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.solicitations, userID)
	return nil
}

func (m *MemoryStore) HasPendingSolicitation(ctx context.Context, userID uint) (bool, error) {
	s, err := m.GetSolicitation(ctx, userID)
	if err != nil {
		return false, err
	}
	return s != nil && s.Status == StatusPendente, nil
}

func (m *MemoryStore) GetCustomImage(ctx context.Context, eventID uint) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.images[eventID], nil
}

func (m *MemoryStore) SaveCustomImage(ctx context.Context, eventID uint, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images[eventID] = url
	return nil
}

func (m *MemoryStore) RemoveCustomImage(ctx context.Context, eventID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.images, eventID)
	return nil
}

func (m *MemoryStore) AllCustomImages(ctx context.Context) (map[uint]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	images := make(map[uint]string, len(m.images))
	for id, url := range m.images {
		images[id] = url
	}
	return images, nil
}

func (m *MemoryStore) ClearCustomImages(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.images = make(map[uint]string)
	return nil
}
