package kernel

import (
	"errors"
	"fmt"
	"math"

	"freight/internal/pkg/errs"
)

// Money is an amount in the smallest currency unit (won for the original
// market, so 180000 means 180,000 won). It never goes negative.
type Money int64

// NewMoney validates a non-negative amount.
func NewMoney(amount int64) (Money, error) {
	m := Money(amount)
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return m, nil
}

// Amount returns the raw amount in minor units.
func (m Money) Amount() int64 {
	return int64(m)
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%d is negative", int64(m)))
	}
	return nil
}

// Add returns m+other, failing instead of wrapping on overflow.
func (m Money) Add(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return 0, err
	}
	if int64(other) > math.MaxInt64-int64(m) {
		return 0, errs.NewValueIsOutOfRangeError("money", int64(other), 0, math.MaxInt64-int64(m))
	}
	return m + other, nil
}
