package services

import (
	"errors"
	"fmt"
	"math"

	"freight/internal/core/domain/model/cargo"
	"freight/internal/core/domain/model/driver"
	"freight/internal/core/domain/model/kernel"
	"freight/internal/pkg/errs"
)

const (
	DefaultMinFloor kernel.Weight = 5
	DefaultBand     kernel.Weight = 5
)

// CapacityPolicy bounds the loads a vehicle is offered: nothing heavier than
// its capacity, and nothing so light that a large truck is wasted on it.
//
// A load of weight w fits a vehicle of capacity c when
//
//	max(MinFloor, c - Band) <= w <= c
//
// With the defaults a 20t truck sees 15t..20t loads, while a 3t truck sees
// nothing because the floor is above its capacity.
//
// Example usage:
//
//	policy := services.DefaultCapacityPolicy()
//	visible := policy.VisibleLoads(pool, d)
//	if err := policy.Check(c.Weight(), d.Capacity()); err != nil {
//	    return err // *errs.CapacityViolationError
//	}
type CapacityPolicy struct {
	MinFloor kernel.Weight
	Band     kernel.Weight
}

// DefaultCapacityPolicy returns the 5t floor and 5t band.
func DefaultCapacityPolicy() CapacityPolicy {
	return CapacityPolicy{MinFloor: DefaultMinFloor, Band: DefaultBand}
}

// NewCapacityPolicy validates the configured bounds. Both must be finite and
// non-negative; zero disables the respective bound.
func NewCapacityPolicy(minFloor, band float64) (CapacityPolicy, error) {
	if err := errors.Join(
		validateBound("capacity min floor", minFloor),
		validateBound("capacity band", band),
	); err != nil {
		return CapacityPolicy{}, err
	}
	return CapacityPolicy{MinFloor: kernel.Weight(minFloor), Band: kernel.Weight(band)}, nil
}

// Bounds returns the inclusive weight range for a vehicle of the given
// capacity. The range is empty (min > max) when the floor exceeds capacity.
func (p CapacityPolicy) Bounds(capacity kernel.Weight) (kernel.Weight, kernel.Weight) {
	return p.MinFloor.Max(capacity.Sub(p.Band)), capacity
}

// Allows reports whether weight falls within the bounds for capacity.
func (p CapacityPolicy) Allows(weight, capacity kernel.Weight) bool {
	lo, hi := p.Bounds(capacity)
	return weight.Compare(lo) >= 0 && weight.Compare(hi) <= 0
}

// Check is Allows returning a CapacityViolationError on failure.
func (p CapacityPolicy) Check(weight, capacity kernel.Weight) error {
	if p.Allows(weight, capacity) {
		return nil
	}
	lo, hi := p.Bounds(capacity)
	return errs.NewCapacityViolationError(weight, lo, hi)
}

// VisibleLoads returns the available loads of pool that fit d's vehicle, in
// their input order. The pool is not modified.
func (p CapacityPolicy) VisibleLoads(pool []*cargo.Cargo, d *driver.Driver) []*cargo.Cargo {
	if d == nil {
		return nil
	}

	visible := make([]*cargo.Cargo, 0, len(pool))
	for _, c := range pool {
		if c == nil || !c.IsAvailable() {
			continue
		}
		if p.Allows(c.Weight(), d.Capacity()) {
			visible = append(visible, c)
		}
	}
	return visible
}

func validateBound(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("%v is not a non-negative number", v))
	}
	return nil
}
