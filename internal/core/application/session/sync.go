package session

import (
	"context"

	"freight/internal/core/ports"
)

// Sync re-pulls the snapshot whenever the feed reports a change that
// concerns this driver, and hands each fresh snapshot to onUpdate. Events
// that queued up during a refresh are coalesced into a single re-pull.
// Sync blocks until ctx is done or the subscription closes.
func (s *Session) Sync(ctx context.Context, feed ports.ChangeFeed, onUpdate func(Snapshot)) error {
	sub, err := feed.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	events := sub.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-events:
			if !ok {
				return nil
			}

			pending, open := s.drain(events, e.Concerns(s.driverID))
			if pending {
				if err := s.pull(ctx, e.Kind, onUpdate); err != nil {
					return err
				}
			}
			if !open {
				return nil
			}
		}
	}
}

// pull refreshes and notifies. Only cancellation stops the sync loop; other
// failures wait for the next event.
func (s *Session) pull(ctx context.Context, kind ports.ChangeKind, onUpdate func(Snapshot)) error {
	snapshot, err := s.Refresh(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		s.logger.WarnContext(ctx, "refresh on change failed", "kind", string(kind), "error", err)
		return nil
	}
	if onUpdate != nil {
		onUpdate(snapshot)
	}
	return nil
}

// drain consumes the events already buffered, reporting whether any of them
// concerns the session and whether the channel is still open.
func (s *Session) drain(events <-chan ports.ChangeEvent, pending bool) (bool, bool) {
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return pending, false
			}
			pending = pending || e.Concerns(s.driverID)
		default:
			return pending, true
		}
	}
}
