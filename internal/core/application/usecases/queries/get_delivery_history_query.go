package queries

import (
	"errors"

	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
	"freight/internal/pkg/guard"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

var ErrGetDeliveryHistoryQueryIsNotConstructed = errors.New(
	"GetDeliveryHistoryQuery must be created via NewGetDeliveryHistoryQuery constructor",
)

// GetDeliveryHistoryQuery lists a driver's completed deliveries, newest first.
type GetDeliveryHistoryQuery struct {
	driverID kernel.UUID
	limit    int

	guard guard.ConstructorGuard
}

// NewGetDeliveryHistoryQuery uses DefaultHistoryLimit when limit is zero.
func NewGetDeliveryHistoryQuery(driverID kernel.UUID, limit int) (GetDeliveryHistoryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDeliveryHistoryQuery{}, errs.NewValueIsRequiredErrorWithCause("driverID", err)
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit < 1 || limit > MaxHistoryLimit {
		return GetDeliveryHistoryQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxHistoryLimit)
	}

	return GetDeliveryHistoryQuery{
		driverID: driverID,
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

//nolint:recvcheck //using for validation
func (q GetDeliveryHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryHistoryQueryIsNotConstructed)
}

func (q GetDeliveryHistoryQuery) DriverID() kernel.UUID { return q.driverID }
func (q GetDeliveryHistoryQuery) Limit() int            { return q.limit }
