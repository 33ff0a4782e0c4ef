package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

var ErrGetDriverProfileQueryIsNotConstructed = errors.New(
	"GetDriverProfileQuery must be created via NewGetDriverProfileQuery constructor",
)

// GetDriverProfileQuery reads a driver's profile, status and lifetime totals.
type GetDriverProfileQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDriverProfileQuery(driverID kernel.UUID) (GetDriverProfileQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverProfileQuery{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	return GetDriverProfileQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

//nolint:recvcheck //using for validation
func (q GetDriverProfileQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverProfileQueryIsNotConstructed)
}

func (q GetDriverProfileQuery) DriverID() kernel.UUID { return q.driverID }
