package repository

import (
	"context"
	"sync"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// MemoryTaskRepository is a hand-written TaskRepository test double.
type MemoryTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
}

func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[string]*domain.Task)}
}

func (r *MemoryTaskRepository) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryTaskRepository) Get(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepository) List(_ context.Context, f TaskFilter) ([]*domain.Task, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*domain.Task
	for _, t := range r.tasks {
		if t.UserID != f.UserID {
			continue
		}
		if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
			continue
		}
		if f.IsComplete != nil && t.IsComplete != *f.IsComplete {
			continue
		}
		cp := *t
		matched = append(matched, &cp)
	}
	return matched, len(matched), nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[t.ID]
	if !ok || existing.UserID != t.UserID {
		return domain.ErrNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryTaskRepository) Complete(_ context.Context, id string, completedAt time.Time) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.IsComplete {
		cp := *t
		return &cp, domain.ErrConflict
	}
	t.IsComplete = true
	t.UpdatedAt = completedAt
	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, id string) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	delete(r.tasks, id)
	return t, nil
}

// MemoryCategoryRepository is a hand-written CategoryRepository test double.
type MemoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[string]*domain.TaskCategory
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: make(map[string]*domain.TaskCategory)}
}

func (r *MemoryCategoryRepository) Create(_ context.Context, c *domain.TaskCategory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.categories[c.ID] = &cp
	return nil
}

func (r *MemoryCategoryRepository) ListByUser(_ context.Context, userID string) ([]*domain.TaskCategory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.TaskCategory
	for _, c := range r.categories {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

// MemoryRecurrenceRepository is a hand-written RecurrenceRepository test double.
type MemoryRecurrenceRepository struct {
	mu    sync.Mutex
	rules map[string]*domain.RecurrenceRule
}

func NewMemoryRecurrenceRepository() *MemoryRecurrenceRepository {
	return &MemoryRecurrenceRepository{rules: make(map[string]*domain.RecurrenceRule)}
}

func (r *MemoryRecurrenceRepository) Create(_ context.Context, rule *domain.RecurrenceRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rules {
		if existing.TaskID == rule.TaskID && existing.IsActive {
			return domain.ErrConflict
		}
	}
	cp := *rule
	r.rules[rule.ID] = &cp
	return nil
}

func (r *MemoryRecurrenceRepository) GetByTaskID(_ context.Context, taskID string) (*domain.RecurrenceRule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rule := range r.rules {
		if rule.TaskID == taskID && rule.IsActive {
			cp := *rule
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
