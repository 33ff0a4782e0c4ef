package commands_test

import (
	"context"
	"sync"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"
	"freight/internal/pkg/errs"
)

// memoryStore is a shared in-memory pool with the same conditional-claim
// semantics as the Postgres adapter. Each Get hands out a fresh aggregate so
// concurrent handlers never share mutable state.
type memoryStore struct {
	mu      sync.Mutex
	cargos  map[kernel.UUID]*cargo.Cargo
	drivers map[kernel.UUID]*driver.Driver
	ledger  map[kernel.UUID]bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		cargos:  make(map[kernel.UUID]*cargo.Cargo),
		drivers: make(map[kernel.UUID]*driver.Driver),
		ledger:  make(map[kernel.UUID]bool),
	}
}

func cloneCargo(c *cargo.Cargo) *cargo.Cargo {
	clone, err := cargo.RestoreCargo(c.ID(), c.Details(), c.Status(), c.Driver(), c.DeliveredAt())
	if err != nil {
		panic(err)
	}
	return clone
}

func cloneDriver(d *driver.Driver) *driver.Driver {
	clone, err := driver.RestoreDriver(d.ID(), d.Profile(), d.Capacity(), d.Status(), d.ActiveDelivery(), d.Totals())
	if err != nil {
		panic(err)
	}
	return clone
}

func (s *memoryStore) cargo(id kernel.UUID) *cargo.Cargo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneCargo(s.cargos[id])
}

func (s *memoryStore) driver(id kernel.UUID) *driver.Driver {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneDriver(s.drivers[id])
}

type memoryCargoRepo struct{ s *memoryStore }

func (r memoryCargoRepo) Add(_ context.Context, c *cargo.Cargo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cargos[c.ID()] = cloneCargo(c)
	return nil
}

func (r memoryCargoRepo) Get(_ context.Context, id kernel.UUID) (*cargo.Cargo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cargos[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("cargo", id)
	}
	return cloneCargo(c), nil
}

func (r memoryCargoRepo) GetAllAvailable(_ context.Context) ([]*cargo.Cargo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*cargo.Cargo
	for _, c := range r.s.cargos {
		if c.IsAvailable() {
			out = append(out, cloneCargo(c))
		}
	}
	return out, nil
}

func (r memoryCargoRepo) GetActiveForDriver(_ context.Context, driverID kernel.UUID) ([]*cargo.Cargo, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*cargo.Cargo
	for _, c := range r.s.cargos {
		if c.Status().IsActive() && c.IsAssignedTo(driverID) {
			out = append(out, cloneCargo(c))
		}
	}
	return out, nil
}

func (r memoryCargoRepo) Claim(_ context.Context, cargoID, driverID kernel.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.cargos[cargoID]
	if !ok || !c.IsAvailable() {
		return false, nil
	}
	claimed, err := cargo.RestoreCargo(c.ID(), c.Details(), cargo.Assigned, &driverID, nil)
	if err != nil {
		return false, err
	}
	r.s.cargos[cargoID] = claimed
	return true, nil
}

func (r memoryCargoRepo) UpdateIfStatus(_ context.Context, c *cargo.Cargo, expected cargo.Status) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.cargos[c.ID()]
	if !ok || stored.Status() != expected {
		return false, nil
	}
	r.s.cargos[c.ID()] = cloneCargo(c)
	return true, nil
}

type memoryDriverRepo struct{ s *memoryStore }

func (r memoryDriverRepo) Add(_ context.Context, d *driver.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.drivers[d.ID()]; ok {
		return errs.NewConflictError("driver", d.ID())
	}
	r.s.drivers[d.ID()] = cloneDriver(d)
	return nil
}

func (r memoryDriverRepo) Get(_ context.Context, id kernel.UUID) (*driver.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.drivers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("driver", id)
	}
	return cloneDriver(d), nil
}

func (r memoryDriverRepo) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.Get(ctx, id)
}

func (r memoryDriverRepo) Update(_ context.Context, d *driver.Driver) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.drivers[d.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("driver", d.ID())
	}
	updated, err := driver.RestoreDriver(d.ID(), d.Profile(), d.Capacity(), d.Status(), d.ActiveDelivery(), stored.Totals())
	if err != nil {
		return err
	}
	r.s.drivers[d.ID()] = updated
	return nil
}

func (r memoryDriverRepo) RecordDelivery(_ context.Context, driverID, cargoID kernel.UUID, fare kernel.Money) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.ledger[cargoID] {
		return false, nil
	}
	d := r.s.drivers[driverID]
	earnings, err := d.Totals().Earnings.Add(fare)
	if err != nil {
		return false, err
	}
	totals := driver.Totals{Deliveries: d.Totals().Deliveries + 1, Earnings: earnings}
	updated, err := driver.RestoreDriver(d.ID(), d.Profile(), d.Capacity(), d.Status(), d.ActiveDelivery(), totals)
	if err != nil {
		return false, err
	}
	r.s.drivers[driverID] = updated
	r.s.ledger[cargoID] = true
	return true, nil
}

// memoryUoW writes through immediately; the tests using it only exercise
// paths where a failed command has not written anything yet.
type memoryUoW struct{ s *memoryStore }

func (u memoryUoW) Begin(context.Context) error    { return nil }
func (u memoryUoW) Commit(context.Context) error   { return nil }
func (u memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) CargoRepository() ports.CargoRepository   { return memoryCargoRepo(u) }
func (u memoryUoW) DriverRepository() ports.DriverRepository { return memoryDriverRepo(u) }

type memoryUoWFactory struct{ s *memoryStore }

func (f memoryUoWFactory) Create() commands.UoW { return memoryUoW(f) }
