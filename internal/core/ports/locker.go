package ports

import "context"

// KeyLocker serializes work on a logical key (a customer id or an email)
// across concurrent callers. Lock blocks until the key is held or ctx ends.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
