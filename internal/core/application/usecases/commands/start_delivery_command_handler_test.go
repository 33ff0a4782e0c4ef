package commands_test

import (
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStartDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	driverID, cargoID := kernel.NewUUID(), kernel.NewUUID()
	d := restoreBusyDriver(t, driverID, cargoID, driver.Totals{})
	c := restoreCargo(t, cargoID, cargo.Assigned, driverID, 180000)
	cmd, err := commands.NewStartDeliveryCommand(driverID)
	require.NoError(t, err)

	cargoRepo := new(MockCargoRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("CargoRepository").Return(cargoRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).Return(d, nil).Once(),
		cargoRepo.On("Get", ctx, cargoID).Return(c, nil).Once(),
		cargoRepo.On("UpdateIfStatus", ctx, c, cargo.Assigned).Return(true, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartDeliveryCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, cargo.InTransit, c.Status())
	assert.Equal(t, driver.Busy, d.Status())
	uow.AssertExpectations(t)
	cargoRepo.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_WithoutActiveDelivery(t *testing.T) {
	ctx := t.Context()
	d := newAvailableDriver(t, 10)
	cmd, _ := commands.NewStartDeliveryCommand(d.ID())

	cargoRepo := new(MockCargoRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("CargoRepository").Return(cargoRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartDeliveryCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	cargoRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle_CargoNotAssigned(t *testing.T) {
	ctx := t.Context()
	driverID, cargoID := kernel.NewUUID(), kernel.NewUUID()
	d := restoreBusyDriver(t, driverID, cargoID, driver.Totals{})
	c := restoreCargo(t, cargoID, cargo.InTransit, driverID, 180000)
	cmd, _ := commands.NewStartDeliveryCommand(driverID)

	cargoRepo := new(MockCargoRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("CargoRepository").Return(cargoRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).Return(d, nil).Once(),
		cargoRepo.On("Get", ctx, cargoID).Return(c, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartDeliveryCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, cargo.InTransit, c.Status())
	cargoRepo.AssertNotCalled(t, "UpdateIfStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle_StaleStatus(t *testing.T) {
	ctx := t.Context()
	driverID, cargoID := kernel.NewUUID(), kernel.NewUUID()
	d := restoreBusyDriver(t, driverID, cargoID, driver.Totals{})
	c := restoreCargo(t, cargoID, cargo.Assigned, driverID, 180000)
	cmd, _ := commands.NewStartDeliveryCommand(driverID)

	cargoRepo := new(MockCargoRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		uow.On("CargoRepository").Return(cargoRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, driverID).Return(d, nil).Once(),
		cargoRepo.On("Get", ctx, cargoID).Return(c, nil).Once(),
		cargoRepo.On("UpdateIfStatus", ctx, c, cargo.Assigned).Return(false, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewStartDeliveryCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
