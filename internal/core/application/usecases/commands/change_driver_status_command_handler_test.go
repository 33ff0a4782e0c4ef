package commands_test

import (
	"errors"
	"testing"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChangeDriverStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	d := newAvailableDriver(t, 5)
	cmd, err := commands.NewChangeDriverStatusCommand(d.ID(), driver.Offline)
	require.NoError(t, err)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		driverRepo.On("Update", ctx, d).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeDriverStatusCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, driver.Offline, d.Status())
	uow.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestChangeDriverStatusCommandHandler_Handle_MidDelivery(t *testing.T) {
	ctx := t.Context()
	d := restoreBusyDriver(t, kernel.NewUUID(), kernel.NewUUID(), driver.Totals{})
	cmd, _ := commands.NewChangeDriverStatusCommand(d.ID(), driver.Resting)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeDriverStatusCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, driver.Busy, d.Status())
	driverRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestChangeDriverStatusCommandHandler_Handle_BusyTarget(t *testing.T) {
	ctx := t.Context()
	d := newAvailableDriver(t, 5)
	cmd, _ := commands.NewChangeDriverStatusCommand(d.ID(), driver.Busy)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("DriverRepository").Return(driverRepo).Once()
	driverRepo.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeDriverStatusCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrInvalidState)
	assert.Equal(t, driver.Available, d.Status())
}

func TestChangeDriverStatusCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	d := newAvailableDriver(t, 5)
	cmd, _ := commands.NewChangeDriverStatusCommand(d.ID(), driver.Resting)

	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once(),
		driverRepo.On("Update", ctx, d).Return(nil).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDriverUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewChangeDriverStatusCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.EqualError(t, err, "commit error")
	uow.AssertExpectations(t)
}
