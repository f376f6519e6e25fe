// Package secrets defines the thin lookup surface the notification
// dispatcher uses to resolve a provider credential before dispatching
// email/push notifications. This package only names the interface and
// ships an environment-backed default suitable for the single-process
// deployments this module targets.
package secrets

import (
	"context"
	"fmt"
	"os"

	"github.com/taskflow/eventcore/internal/domain"
)

// Store resolves a named credential. Get returns domain.ErrNotFound when
// name is unconfigured, which the dispatcher treats as a non-retryable
// dispatch failure.
type Store interface {
	Get(ctx context.Context, name string) (string, error)
}

// EnvStore resolves credentials from environment variables, prefixing each
// lookup to keep provider secrets out of the general config namespace.
type EnvStore struct {
	Prefix string
}

func NewEnvStore(prefix string) *EnvStore {
	return &EnvStore{Prefix: prefix}
}

func (s *EnvStore) Get(_ context.Context, name string) (string, error) {
	v := os.Getenv(fmt.Sprintf("%s%s", s.Prefix, name))
	if v == "" {
		return "", domain.ErrNotFound
	}
	return v, nil
}
