package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kilianp07/mealplan/core/model"
)

// table holds one kind of catalog entry. The accessors let the three entry
// types share storage logic.
type table[T any] struct {
	kind      string
	items     map[int64]T
	next      int64
	id        func(T) int64
	name      func(T) string
	isDefault func(T) bool
	custom    func(T, int64) T
}

func (t *table[T]) seed(entries []T) *table[T] {
	t.items = make(map[int64]T, len(entries))
	for _, e := range entries {
		id := t.id(e)
		t.items[id] = e
		if id > t.next {
			t.next = id
		}
	}
	return t
}

func (t *table[T]) get(id int64) (T, error) {
	e, ok := t.items[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s %d: %w", t.kind, id, ErrNotFound)
	}
	return e, nil
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.items))
	for _, e := range t.items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(t.name(out[i])), strings.ToLower(t.name(out[j]))
		if a != b {
			return a < b
		}
		return t.id(out[i]) < t.id(out[j])
	})
	return out
}

func (t *table[T]) create(e T) T {
	t.next++
	e = t.custom(e, t.next)
	t.items[t.next] = e
	return e
}

func (t *table[T]) writable(id int64) error {
	cur, err := t.get(id)
	if err != nil {
		return err
	}
	if t.isDefault(cur) {
		return fmt.Errorf("%s %d: %w", t.kind, id, ErrReadOnly)
	}
	return nil
}

func (t *table[T]) update(e T) (T, error) {
	id := t.id(e)
	if err := t.writable(id); err != nil {
		var zero T
		return zero, err
	}
	e = t.custom(e, id)
	t.items[id] = e
	return e, nil
}

func (t *table[T]) remove(id int64) error {
	if err := t.writable(id); err != nil {
		return err
	}
	delete(t.items, id)
	return nil
}

// MemoryStore keeps the catalog in memory.
type MemoryStore struct {
	mu     sync.RWMutex
	food   *table[model.FoodItem]
	phases *table[model.CookingPhase]
	apps   *table[model.Appliance]
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with the default catalog.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreFrom(DefaultFoodItems(), DefaultCookingPhases(), DefaultAppliances())
}

// NewMemoryStoreFrom returns a store holding exactly the given entries.
func NewMemoryStoreFrom(food []model.FoodItem, phases []model.CookingPhase, apps []model.Appliance) *MemoryStore {
	s := &MemoryStore{
		food: (&table[model.FoodItem]{
			kind:      "food item",
			id:        func(f model.FoodItem) int64 { return f.ID },
			name:      func(f model.FoodItem) string { return f.Name },
			isDefault: func(f model.FoodItem) bool { return f.IsDefault },
			custom: func(f model.FoodItem, id int64) model.FoodItem {
				f.ID, f.IsDefault = id, false
				return f
			},
		}).seed(food),
		phases: (&table[model.CookingPhase]{
			kind:      "cooking phase",
			id:        func(c model.CookingPhase) int64 { return c.ID },
			name:      func(c model.CookingPhase) string { return c.Name },
			isDefault: func(c model.CookingPhase) bool { return c.IsDefault },
			custom: func(c model.CookingPhase, id int64) model.CookingPhase {
				c.ID, c.IsDefault = id, false
				return c
			},
		}).seed(phases),
		apps: (&table[model.Appliance]{
			kind:      "appliance",
			id:        func(a model.Appliance) int64 { return a.ID },
			name:      func(a model.Appliance) string { return a.Name },
			isDefault: func(a model.Appliance) bool { return a.IsDefault },
			custom: func(a model.Appliance, id int64) model.Appliance {
				a.ID, a.IsDefault = id, false
				return a
			},
		}).seed(apps),
	}
	return s
}

func (s *MemoryStore) FoodItem(_ context.Context, id int64) (model.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.food.get(id)
}

func (s *MemoryStore) ListFoodItems(context.Context) ([]model.FoodItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.food.list(), nil
}

func (s *MemoryStore) CreateFoodItem(_ context.Context, f model.FoodItem) (model.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return model.FoodItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.food.create(f), nil
}

func (s *MemoryStore) UpdateFoodItem(_ context.Context, f model.FoodItem) (model.FoodItem, error) {
	if err := f.Validate(); err != nil {
		return model.FoodItem{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.food.update(f)
}

func (s *MemoryStore) DeleteFoodItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.food.remove(id)
}

func (s *MemoryStore) CookingPhase(_ context.Context, id int64) (model.CookingPhase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phases.get(id)
}

func (s *MemoryStore) ListCookingPhases(context.Context) ([]model.CookingPhase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phases.list(), nil
}

func (s *MemoryStore) CreateCookingPhase(_ context.Context, c model.CookingPhase) (model.CookingPhase, error) {
	if err := c.Validate(); err != nil {
		return model.CookingPhase{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases.create(c), nil
}

func (s *MemoryStore) UpdateCookingPhase(_ context.Context, c model.CookingPhase) (model.CookingPhase, error) {
	if err := c.Validate(); err != nil {
		return model.CookingPhase{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases.update(c)
}

func (s *MemoryStore) DeleteCookingPhase(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phases.remove(id)
}

func (s *MemoryStore) Appliance(_ context.Context, id int64) (model.Appliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps.get(id)
}

func (s *MemoryStore) ListAppliances(context.Context) ([]model.Appliance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apps.list(), nil
}

func (s *MemoryStore) CreateAppliance(_ context.Context, a model.Appliance) (model.Appliance, error) {
	if err := a.Validate(); err != nil {
		return model.Appliance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps.create(a), nil
}

func (s *MemoryStore) UpdateAppliance(_ context.Context, a model.Appliance) (model.Appliance, error) {
	if err := a.Validate(); err != nil {
		return model.Appliance{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps.update(a)
}

func (s *MemoryStore) DeleteAppliance(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps.remove(id)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
