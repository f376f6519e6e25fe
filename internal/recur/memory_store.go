package recur

import (
	"context"
	"sync"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// MemoryStore is a hand-written in-memory Store for unit tests.
type MemoryStore struct {
	mu    sync.Mutex
	rules map[string]*domain.RecurrenceRule // keyed by task_id
	tasks []*domain.Task

	SpawnErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rules: make(map[string]*domain.RecurrenceRule)}
}

func (m *MemoryStore) SeedRule(rule domain.RecurrenceRule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := rule
	m.rules[rule.TaskID] = &cp
}

func (m *MemoryStore) GetActiveRule(_ context.Context, taskID string) (*domain.RecurrenceRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rule, ok := m.rules[taskID]
	if !ok || !rule.IsActive {
		return nil, domain.ErrNotFound
	}
	cp := *rule
	return &cp, nil
}

func (m *MemoryStore) SpawnNext(_ context.Context, rule domain.RecurrenceRule, newTask *domain.Task, nextDueAt time.Time) error {
	if m.SpawnErr != nil {
		return m.SpawnErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *newTask
	m.tasks = append(m.tasks, &cp)

	if stored, ok := m.rules[rule.TaskID]; ok {
		stored.NextDueAt = nextDueAt
		stored.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MemoryStore) SpawnedTasks() []*domain.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}
