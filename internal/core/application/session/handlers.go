package session

import (
	"context"

	"freight/internal/core/application/usecases/commands"
	"freight/internal/core/application/usecases/queries"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
)

// QueryReader is the Reader backed by the query handlers.
type QueryReader struct {
	Profile queries.GetDriverProfileQueryHandler
	Active  queries.GetActiveDeliveryQueryHandler
	Visible queries.GetVisibleCargosQueryHandler
}

func (r QueryReader) DriverProfile(ctx context.Context, driverID kernel.UUID) (queries.DriverReadModel, error) {
	q, err := queries.NewGetDriverProfileQuery(driverID)
	if err != nil {
		return queries.DriverReadModel{}, err
	}
	return r.Profile.Handle(ctx, q)
}

func (r QueryReader) ActiveDelivery(ctx context.Context, driverID kernel.UUID) (*queries.CargoReadModel, error) {
	q, err := queries.NewGetActiveDeliveryQuery(driverID)
	if err != nil {
		return nil, err
	}
	return r.Active.Handle(ctx, q)
}

func (r QueryReader) VisibleCargos(
	ctx context.Context,
	driverID kernel.UUID,
	excluded []kernel.UUID,
) ([]queries.CargoReadModel, error) {
	q, err := queries.NewGetVisibleCargosQuery(driverID, excluded)
	if err != nil {
		return nil, err
	}
	return r.Visible.Handle(ctx, q)
}

// CommandDispatcher is the Commander backed by the command handlers.
type CommandDispatcher struct {
	Accept   commands.AcceptCargoCommandHandler
	Start    commands.StartDeliveryCommandHandler
	Complete commands.CompleteDeliveryCommandHandler
	Status   commands.ChangeDriverStatusCommandHandler
}

func (d CommandDispatcher) AcceptCargo(ctx context.Context, driverID, cargoID kernel.UUID) error {
	cmd, err := commands.NewAcceptCargoCommand(driverID, cargoID)
	if err != nil {
		return err
	}
	return d.Accept.Handle(ctx, cmd)
}

func (d CommandDispatcher) StartDelivery(ctx context.Context, driverID kernel.UUID) error {
	cmd, err := commands.NewStartDeliveryCommand(driverID)
	if err != nil {
		return err
	}
	return d.Start.Handle(ctx, cmd)
}

func (d CommandDispatcher) CompleteDelivery(ctx context.Context, driverID kernel.UUID, deliveryKey *kernel.UUID) error {
	cmd, err := commands.NewCompleteDeliveryCommand(driverID, deliveryKey)
	if err != nil {
		return err
	}
	return d.Complete.Handle(ctx, cmd)
}

func (d CommandDispatcher) ChangeStatus(ctx context.Context, driverID kernel.UUID, status driver.Status) error {
	cmd, err := commands.NewChangeDriverStatusCommand(driverID, status)
	if err != nil {
		return err
	}
	return d.Status.Handle(ctx, cmd)
}
