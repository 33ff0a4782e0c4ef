package ports

import (
	"context"
	"fmt"

	"freight/internal/core/domain/model/kernel"
)

// ChangeKind says which kind of entity changed.
type ChangeKind string

const (
	PoolChanged   ChangeKind = "pool_changed"
	DriverChanged ChangeKind = "driver_changed"
)

func (k ChangeKind) Validate() error {
	switch k {
	case PoolChanged, DriverChanged:
		return nil
	default:
		return fmt.Errorf("unknown change kind %q", string(k))
	}
}

// ChangeEvent is a notification that something changed, not what changed.
// EntityID is the cargo or driver id; it is zero for a pool-wide tick.
type ChangeEvent struct {
	Kind     ChangeKind
	EntityID kernel.UUID
}

// Concerns reports whether a session for driverID must re-pull on e. Every
// pool change concerns everyone; a driver change only concerns that driver,
// unless it names no driver at all.
func (e ChangeEvent) Concerns(driverID kernel.UUID) bool {
	if e.Kind == DriverChanged && e.EntityID.Validate() == nil {
		return e.EntityID.IsEqual(driverID)
	}
	return true
}

// ChangeFeed delivers change events at least once and in no particular order.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription is a live stream of change events. The channel is closed after
// Unsubscribe or when the subscribing context is done.
type Subscription interface {
	Events() <-chan ChangeEvent
	Unsubscribe() error
}

// ChangePublisher announces changes to other sessions and processes.
type ChangePublisher interface {
	Publish(ctx context.Context, events ...ChangeEvent) error
}
