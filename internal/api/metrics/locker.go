package metrics

import (
	"context"
	"time"

	"github.com/customer-directory/customer-api/internal/core/ports"
)

type timedLocker struct {
	inner   ports.KeyLocker
	backend string
}

// InstrumentLocker records LockWaitDuration for every acquisition on l.
func InstrumentLocker(l ports.KeyLocker, backend string) ports.KeyLocker {
	return &timedLocker{inner: l, backend: backend}
}

func (t *timedLocker) Lock(ctx context.Context, key string) (func(), error) {
	start := time.Now()
	unlock, err := t.inner.Lock(ctx, key)
	LockWaitDuration.WithLabelValues(t.backend).Observe(time.Since(start).Seconds())
	return unlock, err
}
