// Package session keeps one driver's view of the pool: the last snapshot
// pulled from storage and the loads the driver dismissed. Every change-feed
// event that concerns the driver triggers a full re-pull; the session never
// patches its snapshot from event payloads.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

// Reader pulls the pieces of a snapshot.
type Reader interface {
	DriverProfile(ctx context.Context, driverID kernel.UUID) (queries.DriverReadModel, error)
	ActiveDelivery(ctx context.Context, driverID kernel.UUID) (*queries.CargoReadModel, error)
	VisibleCargos(ctx context.Context, driverID kernel.UUID, excluded []kernel.UUID) ([]queries.CargoReadModel, error)
}

// Commander runs the driver's commands.
type Commander interface {
	AcceptCargo(ctx context.Context, driverID, cargoID kernel.UUID) error
	StartDelivery(ctx context.Context, driverID kernel.UUID) error
	CompleteDelivery(ctx context.Context, driverID kernel.UUID, deliveryKey *kernel.UUID) error
	ChangeStatus(ctx context.Context, driverID kernel.UUID, status driver.Status) error
}

// Snapshot is what the driver's device renders.
type Snapshot struct {
	Driver      queries.DriverReadModel
	Active      *queries.CargoReadModel
	Visible     []queries.CargoReadModel
	RefreshedAt time.Time
}

// IsVisible reports whether cargoID is in the visible list.
func (s Snapshot) IsVisible(cargoID kernel.UUID) bool {
	for _, c := range s.Visible {
		if c.ID.IsEqual(cargoID) {
			return true
		}
	}
	return false
}

// Session is safe for concurrent use. Refreshes may overlap; the snapshot of
// the most recently started one wins.
type Session struct {
	driverID kernel.UUID
	reader   Reader
	commands Commander
	logger   *slog.Logger
	now      func() time.Time

	mu       sync.Mutex
	snapshot Snapshot
	rejected map[kernel.UUID]struct{}
	started  uint64
	applied  uint64
}

func New(driverID kernel.UUID, reader Reader, commands Commander, logger *slog.Logger) (*Session, error) {
	if err := driverID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	if reader == nil {
		return nil, errs.NewValueIsRequiredError("reader")
	}
	if commands == nil {
		return nil, errs.NewValueIsRequiredError("commands")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Session{
		driverID: driverID,
		reader:   reader,
		commands: commands,
		logger:   logger.With("component", "session", "driver_id", driverID.String()),
		now:      time.Now,
		rejected: make(map[kernel.UUID]struct{}),
	}, nil
}

func (s *Session) DriverID() kernel.UUID { return s.driverID }

// Snapshot returns the last pulled snapshot without touching storage.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Refresh re-pulls profile, active delivery and visible loads.
func (s *Session) Refresh(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	s.started++
	seq := s.started
	excluded := s.rejectedIDs()
	s.mu.Unlock()

	profile, err := s.reader.DriverProfile(ctx, s.driverID)
	if err != nil {
		return s.Snapshot(), err
	}
	active, err := s.reader.ActiveDelivery(ctx, s.driverID)
	if err != nil {
		return s.Snapshot(), err
	}
	visible, err := s.reader.VisibleCargos(ctx, s.driverID, excluded)
	if err != nil {
		return s.Snapshot(), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.applied {
		s.applied = seq
		s.snapshot = Snapshot{
			Driver:      profile,
			Active:      active,
			Visible:     s.withoutRejected(visible),
			RefreshedAt: s.now().UTC(),
		}
	}
	return s.snapshot, nil
}

// Reject hides a currently visible load from this session only. The load
// stays available to every other driver.
func (s *Session) Reject(cargoID kernel.UUID) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snapshot.IsVisible(cargoID) {
		return s.snapshot, errs.NewInvalidStateError("cargo "+cargoID.String(), "not visible")
	}

	s.rejected[cargoID] = struct{}{}
	s.snapshot.Visible = s.withoutRejected(s.snapshot.Visible)
	return s.snapshot, nil
}

// Accept claims cargoID and re-pulls. The session refreshes after a lost race
// too, so the taken load disappears from the list.
func (s *Session) Accept(ctx context.Context, cargoID kernel.UUID) (Snapshot, error) {
	return s.run(ctx, "accept", func() error {
		return s.commands.AcceptCargo(ctx, s.driverID, cargoID)
	})
}

func (s *Session) Start(ctx context.Context) (Snapshot, error) {
	return s.run(ctx, "start", func() error {
		return s.commands.StartDelivery(ctx, s.driverID)
	})
}

// Complete finishes the active delivery. deliveryKey, when set, makes a retry
// after a lost response succeed without counting the delivery twice.
func (s *Session) Complete(ctx context.Context, deliveryKey *kernel.UUID) (Snapshot, error) {
	return s.run(ctx, "complete", func() error {
		return s.commands.CompleteDelivery(ctx, s.driverID, deliveryKey)
	})
}

func (s *Session) SetStatus(ctx context.Context, status driver.Status) (Snapshot, error) {
	return s.run(ctx, "set status", func() error {
		return s.commands.ChangeStatus(ctx, s.driverID, status)
	})
}

func (s *Session) run(ctx context.Context, op string, command func() error) (Snapshot, error) {
	cmdErr := command()
	if cmdErr != nil && !isStaleView(cmdErr) {
		return s.Snapshot(), cmdErr
	}

	snapshot, err := s.Refresh(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "refresh after command failed", "op", op, "error", err)
	}
	if cmdErr != nil {
		s.logger.DebugContext(ctx, "command rejected", "op", op, "error", cmdErr)
	}
	return snapshot, cmdErr
}

// isStaleView reports errors that mean the session acted on an outdated view.
func isStaleView(err error) bool {
	return errors.Is(err, errs.ErrConflict) ||
		errors.Is(err, errs.ErrInvalidState) ||
		errors.Is(err, errs.ErrObjectNotFound)
}

func (s *Session) rejectedIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(s.rejected))
	for id := range s.rejected {
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) withoutRejected(loads []queries.CargoReadModel) []queries.CargoReadModel {
	out := make([]queries.CargoReadModel, 0, len(loads))
	for _, c := range loads {
		if _, ok := s.rejected[c.ID]; !ok {
			out = append(out, c)
		}
	}
	return out
}
