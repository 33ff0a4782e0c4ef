package commands_test

import (
	"context"
	"testing"
	"time"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCargoRepository struct{ mock.Mock }

func (m *MockCargoRepository) Add(ctx context.Context, c *cargo.Cargo) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCargoRepository) Get(ctx context.Context, id kernel.UUID) (*cargo.Cargo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cargo.Cargo), args.Error(1)
}

func (m *MockCargoRepository) GetAllAvailable(ctx context.Context) ([]*cargo.Cargo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cargo.Cargo), args.Error(1)
}

func (m *MockCargoRepository) GetActiveForDriver(ctx context.Context, driverID kernel.UUID) ([]*cargo.Cargo, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cargo.Cargo), args.Error(1)
}

func (m *MockCargoRepository) Claim(ctx context.Context, cargoID, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, cargoID, driverID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCargoRepository) UpdateIfStatus(ctx context.Context, c *cargo.Cargo, expected cargo.Status) (bool, error) {
	args := m.Called(ctx, c, expected)
	return args.Bool(0), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDriverRepository) RecordDelivery(
	ctx context.Context,
	driverID, cargoID kernel.UUID,
	fare kernel.Money,
) (bool, error) {
	args := m.Called(ctx, driverID, cargoID, fare)
	return args.Bool(0), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) CargoRepository() ports.CargoRepository {
	args := m.Called()
	return args.Get(0).(ports.CargoRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockDriverUoWFactory struct{ mock.Mock }

func (m *MockDriverUoWFactory) Create() commands.DriverUoW {
	args := m.Called()
	return args.Get(0).(commands.DriverUoW)
}

type MockCargoUoWFactory struct{ mock.Mock }

func (m *MockCargoUoWFactory) Create() commands.CargoUoW {
	args := m.Called()
	return args.Get(0).(commands.CargoUoW)
}

var fixedNow = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)

func testDetails(tons float64, fare int64) cargo.Details {
	return cargo.Details{
		Number:      "CG001",
		Type:        "general",
		Weight:      kernel.Weight(tons),
		Origin:      "Seoul",
		Destination: "Incheon",
		Urgency:     cargo.Normal,
		Fare:        kernel.Money(fare),
		PickupAt:    time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
	}
}

func testProfile() driver.Profile {
	return driver.Profile{
		Name:          "Kim",
		Phone:         "010-1234-5678",
		VehicleType:   "cargo truck",
		VehicleNumber: "12가3456",
	}
}

func newAvailableCargo(t *testing.T, tons float64) *cargo.Cargo {
	t.Helper()
	c, err := cargo.NewCargo(kernel.NewUUID(), testDetails(tons, 180000))
	require.NoError(t, err)
	return c
}

func restoreCargo(t *testing.T, id kernel.UUID, status cargo.Status, driverID kernel.UUID, fare int64) *cargo.Cargo {
	t.Helper()
	var deliveredAt *time.Time
	if status == cargo.Completed {
		deliveredAt = &fixedNow
	}
	c, err := cargo.RestoreCargo(id, testDetails(5, fare), status, &driverID, deliveredAt)
	require.NoError(t, err)
	return c
}

func restoreIdleDriver(t *testing.T, id kernel.UUID, totals driver.Totals) *driver.Driver {
	t.Helper()
	d, err := driver.RestoreDriver(id, testProfile(), 10, driver.Available, nil, totals)
	require.NoError(t, err)
	return d
}

func newAvailableDriver(t *testing.T, capacity float64) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), testProfile(), kernel.Weight(capacity))
	require.NoError(t, err)
	return d
}

func restoreBusyDriver(t *testing.T, id, cargoID kernel.UUID, totals driver.Totals) *driver.Driver {
	t.Helper()
	d, err := driver.RestoreDriver(id, testProfile(), 10, driver.Busy, &cargoID, totals)
	require.NoError(t, err)
	return d
}
