package ports

import (
	"context"
	"time"
)

// Slot defines the interface for the durable key-value record the task list is mirrored to.
// Read reports found=false for a missing key; an empty value is returned as found with no bytes.
type Slot interface {
	Read(ctx context.Context, key string) (value []byte, found bool, err error)
	Write(ctx context.Context, key string, value []byte) error
}

// ClosableSlot is a Slot holding a connection or file handle that must be released
type ClosableSlot interface {
	Slot
	Close() error
}

// HealthChecker is implemented by slots that can verify their backing connection
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// WriteTracker is implemented by slots that record when a key was last written
type WriteTracker interface {
	UpdatedAt(ctx context.Context, key string) (at time.Time, found bool, err error)
}
