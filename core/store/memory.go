package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/kilianp07/mealplan/core/model"
)

// MemoryStore is a PlanStore backed by a map. Plans are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string]model.SavedPlan
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string]model.SavedPlan)}
}

func (s *MemoryStore) Save(_ context.Context, p model.SavedPlan) error {
	if p.ID == "" {
		return fmt.Errorf("saved plan requires an id")
	}
	s.mu.Lock()
	s.plans[p.ID] = p
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (model.SavedPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.plans[id]
	if !ok {
		return model.SavedPlan{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) List(_ context.Context) ([]model.SavedPlan, error) {
	s.mu.RLock()
	out := make([]model.SavedPlan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, p)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.plans[id]; !ok {
		return ErrNotFound
	}
	delete(s.plans, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
