package statestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/taskflow/eventcore/internal/statestore"
)

func TestMemoryStore_SetGet(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()

	type payload struct {
		Name string `json:"name"`
	}
	in := payload{Name: "standup"}
	if err := s.Set(ctx, "task:1", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := s.Get(ctx, "task:1", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.Name != in.Name {
		t.Fatalf("expected %q, got %q", in.Name, out.Name)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := statestore.NewMemoryStore()
	var out string
	err := s.Get(context.Background(), "nope", &out)
	if err != statestore.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ExpiredEntryIsNotFound(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()
	if err := s.Set(ctx, "session:1", "x", time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(time.Millisecond)

	var out string
	err := s.Get(ctx, "session:1", &out)
	if err != statestore.ErrNotFound {
		t.Fatalf("expected expired entry to read as not found, got %v", err)
	}
}

func TestMemoryStore_SetIfAbsent(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()

	ok, err := s.SetIfAbsent(ctx, "recurring-processing:t1", "processing", time.Hour)
	if err != nil {
		t.Fatalf("set-if-absent: %v", err)
	}
	if !ok {
		t.Fatal("expected first SetIfAbsent to win")
	}

	ok, err = s.SetIfAbsent(ctx, "recurring-processing:t1", "processing", time.Hour)
	if err != nil {
		t.Fatalf("set-if-absent: %v", err)
	}
	if ok {
		t.Fatal("expected second SetIfAbsent to lose the race")
	}
}

func TestMemoryStore_SetIfAbsent_WinsAfterExpiry(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()

	if _, err := s.SetIfAbsent(ctx, "k", "v1", time.Nanosecond); err != nil {
		t.Fatalf("set-if-absent: %v", err)
	}
	time.Sleep(time.Millisecond)

	ok, err := s.SetIfAbsent(ctx, "k", "v2", time.Hour)
	if err != nil {
		t.Fatalf("set-if-absent: %v", err)
	}
	if !ok {
		t.Fatal("expected SetIfAbsent to win once the prior entry expired")
	}
}

func TestMemoryStore_Delete_IsIdempotent(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()
	if err := s.Delete(ctx, "never-set"); err != nil {
		t.Fatalf("expected deleting an absent key to be a no-op, got %v", err)
	}
}

func TestMemoryStore_IncrementCounter(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()

	for i, want := range []int64{1, 2, 3} {
		got, err := s.IncrementCounter(ctx, "rate_limit:user-1", time.Minute)
		if err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("increment %d: expected %d, got %d", i, want, got)
		}
	}
}

func TestMemoryStore_IncrementCounter_ResetsAfterWindow(t *testing.T) {
	s := statestore.NewMemoryStore()
	ctx := context.Background()

	if _, err := s.IncrementCounter(ctx, "rate_limit:user-2", time.Nanosecond); err != nil {
		t.Fatalf("increment: %v", err)
	}
	time.Sleep(time.Millisecond)

	got, err := s.IncrementCounter(ctx, "rate_limit:user-2", time.Minute)
	if err != nil {
		t.Fatalf("increment: %v", err)
	}
	if got != 1 {
		t.Fatalf("expected counter to reset to 1 after window elapsed, got %d", got)
	}
}
