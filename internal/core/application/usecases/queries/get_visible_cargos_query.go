package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrGetVisibleCargosQueryIsNotConstructed = errors.New(
	"GetVisibleCargosQuery must be created via NewGetVisibleCargosQuery constructor",
)

// GetVisibleCargosQuery lists the available loads that fit the driver's
// vehicle, minus the ones the driver rejected in this session.
//
// Example:
//
//	query, err := queries.NewGetVisibleCargosQuery(driverID, rejected)
//	loads, err := handler.Handle(ctx, query)
type GetVisibleCargosQuery struct {
	driverID kernel.UUID
	excluded map[kernel.UUID]struct{}

	guard guard.ConstructorGuard
}

func NewGetVisibleCargosQuery(driverID kernel.UUID, excluded []kernel.UUID) (GetVisibleCargosQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetVisibleCargosQuery{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}

	set := make(map[kernel.UUID]struct{}, len(excluded))
	for _, id := range excluded {
		set[id] = struct{}{}
	}

	return GetVisibleCargosQuery{
		driverID: driverID,
		excluded: set,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

//nolint:recvcheck //using for validation
func (q GetVisibleCargosQuery) Validate() error {
	return q.guard.Validate(ErrGetVisibleCargosQueryIsNotConstructed)
}

func (q GetVisibleCargosQuery) DriverID() kernel.UUID { return q.driverID }

// IsExcluded reports whether the load was rejected by the session.
func (q GetVisibleCargosQuery) IsExcluded(cargoID kernel.UUID) bool {
	_, ok := q.excluded[cargoID]
	return ok
}
