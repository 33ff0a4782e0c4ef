package commands

import (
	"context"

	"freight/internal/core/domain/model/cargo"
)

// CreateCargoCommandHandler adds an Available load to the pool.
type CreateCargoCommandHandler struct {
	uowFactory CargoUoWFactory
}

func NewCreateCargoCommandHandler(uowFactory CargoUoWFactory) CreateCargoCommandHandler {
	return CreateCargoCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h CreateCargoCommandHandler) Handle(ctx context.Context, cmd CreateCargoCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	c, err := cargo.NewCargo(cmd.CargoID(), cmd.Details())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CargoRepository().Add(ctx, c); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
