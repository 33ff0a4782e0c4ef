package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrGetActiveDeliveryQueryIsNotConstructed = errors.New(
	"GetActiveDeliveryQuery must be created via NewGetActiveDeliveryQuery constructor",
)

// GetActiveDeliveryQuery reads the load a driver currently holds, if any.
type GetActiveDeliveryQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActiveDeliveryQuery(driverID kernel.UUID) (GetActiveDeliveryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetActiveDeliveryQuery{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	return GetActiveDeliveryQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

//nolint:recvcheck //using for validation
func (q GetActiveDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveryQueryIsNotConstructed)
}

func (q GetActiveDeliveryQuery) DriverID() kernel.UUID { return q.driverID }
