package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock taken by DistributedLocker.Lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes updates to one session across replicas.
// The session manager takes it around every load-modify-save cycle when
// sessions live in a shared store.
type DistributedLocker interface {
	// Lock blocks until the key is held or ctx is done. The lock expires after
	// ttl if the holder dies; the returned UnlockFunc must be called otherwise.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
