package statestore

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type entry struct {
	raw       []byte
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

// MemoryStore is a hand-written in-memory Store for unit tests: exercising
// the real interface without standing up Postgres.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]entry)}
}

func (m *MemoryStore) Get(_ context.Context, key string, dst any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || e.expired(time.Now().UTC()) {
		return ErrNotFound
	}
	return json.Unmarshal(e.raw, dst)
}

func (m *MemoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().UTC().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{raw: raw, expiresAt: expiresAt}
	return nil
}

func (m *MemoryStore) SetIfAbsent(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && !e.expired(time.Now().UTC()) {
		return false, nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().UTC().Add(ttl)
	}
	m.entries[key] = entry{raw: raw, expiresAt: expiresAt}
	return true, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func (m *MemoryStore) IncrementCounter(_ context.Context, key string, window time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	var count int64 = 1
	if e, ok := m.entries[key]; ok && !e.expired(now) {
		var prev int64
		if err := json.Unmarshal(e.raw, &prev); err == nil {
			count = prev + 1
		}
	}

	raw, err := json.Marshal(count)
	if err != nil {
		return 0, err
	}
	m.entries[key] = entry{raw: raw, expiresAt: now.Add(window)}
	return count, nil
}
