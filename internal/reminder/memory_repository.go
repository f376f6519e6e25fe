package reminder

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskflow/eventcore/internal/domain"
)

// MemoryRepository is a hand-written, in-memory Repository used in unit
// tests.
type MemoryRepository struct {
	mu        sync.Mutex
	reminders map[string]*domain.Reminder

	CreateErr error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{reminders: make(map[string]*domain.Reminder)}
}

func (m *MemoryRepository) Create(_ context.Context, r *domain.Reminder) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reminders[r.ID] = &cp
	return nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reminders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MemoryRepository) ListByTask(_ context.Context, taskID string) ([]domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Reminder
	for _, r := range m.reminders {
		if r.TaskID == taskID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RemindAt.Before(out[j].RemindAt) })
	return out, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reminders, id)
	return nil
}

// SweepDue mimics the Postgres FOR UPDATE SKIP LOCKED + conditional-update
// semantics single-threaded: every unsent, due reminder is visited at most
// once per call, and is_sent flips only if handle returns true.
func (m *MemoryRepository) SweepDue(ctx context.Context, now time.Time, limit int, handle func(ctx context.Context, r domain.Reminder) bool) (int, error) {
	m.mu.Lock()
	var due []*domain.Reminder
	for _, r := range m.reminders {
		if len(due) >= limit {
			break
		}
		if !r.IsSent && !r.RemindAt.After(now) {
			due = append(due, r)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RemindAt.Before(due[j].RemindAt) })
	m.mu.Unlock()

	sent := 0
	for _, r := range due {
		cp := *r
		if !handle(ctx, cp) {
			continue
		}
		m.mu.Lock()
		if stored, ok := m.reminders[r.ID]; ok && !stored.IsSent {
			now := time.Now().UTC()
			stored.IsSent = true
			stored.SentAt = &now
			sent++
		}
		m.mu.Unlock()
	}
	return sent, nil
}
