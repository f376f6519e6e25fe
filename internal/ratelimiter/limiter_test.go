package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/taskflow/eventcore/internal/ratelimiter"
	"github.com/taskflow/eventcore/internal/statestore"
)

func TestLimiter_AllowsUpToLimitThenRejects(t *testing.T) {
	store := statestore.NewMemoryStore()
	l := ratelimiter.New(store, 3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !ok {
			t.Fatalf("expected request %d to be allowed", i)
		}
	}

	ok, err := l.Allow(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if ok {
		t.Fatal("expected the 4th request within the window to be rejected")
	}
}

func TestLimiter_ScopesAreIndependent(t *testing.T) {
	store := statestore.NewMemoryStore()
	l := ratelimiter.New(store, 1, time.Minute)

	ok1, _ := l.Allow(context.Background(), "user-1")
	ok2, _ := l.Allow(context.Background(), "user-2")
	if !ok1 || !ok2 {
		t.Fatalf("expected independent scopes to each get their own budget, got %v %v", ok1, ok2)
	}
}
