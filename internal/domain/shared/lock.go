package shared

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when a lock could not be acquired before the
// caller's deadline or the locker's wait timeout.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// Locker serializes check-then-act sequences that span several statements,
// such as the crop in-use guard and batch writes referencing the same crop.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned function
	// releases the lock and is safe to call more than once.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
