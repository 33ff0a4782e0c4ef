package commands

import (
	"errors"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/guard"
)

var ErrCreateCargoCommandIsNotConstructed = errors.New(
	"CreateCargoCommand must be created via NewCreateCargoCommand constructor",
)

// CreateCargoCommand ingests a load into the pool. Details are validated by
// the aggregate when the handler builds it.
type CreateCargoCommand struct { //nolint:recvcheck //using for validation
	cargoID kernel.UUID
	details cargo.Details

	guard guard.ConstructorGuard
}

func NewCreateCargoCommand(cargoID kernel.UUID, details cargo.Details) (CreateCargoCommand, error) {
	if err := cargoID.Validate(); err != nil {
		return CreateCargoCommand{}, err
	}

	return CreateCargoCommand{
		cargoID: cargoID,
		details: details,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CreateCargoCommand) Validate() error {
	return c.guard.Validate(ErrCreateCargoCommandIsNotConstructed)
}

func (c CreateCargoCommand) CargoID() kernel.UUID   { return c.cargoID }
func (c CreateCargoCommand) Details() cargo.Details { return c.details }
