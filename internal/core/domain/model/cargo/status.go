package cargo

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is the lifecycle state of a cargo load.
//
//	Available ──> Assigned ──> InTransit ──> Completed
//
// There are no back-edges; Completed is terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Available
	Assigned
	InTransit
	Completed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Available: "available",
		Assigned:  "assigned",
		InTransit: "in_transit",
		Completed: "completed",
	}
}

// ParseStatus maps the persisted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a cargo status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s < Available || s > Completed {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsActive reports whether the load counts as a driver's active delivery.
func (s Status) IsActive() bool {
	return s == Assigned || s == InTransit
}

// ValidateCanHaveDriver enforces that a driver is recorded iff the load left Available.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver && s == Available {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a driver", s),
		)
	}
	if !hasDriver && s != Available {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no driver", s),
		)
	}
	return nil
}

// Assign transitions Available -> Assigned.
func (s Status) Assign() (Status, error) {
	return s.transition(Available, Assigned)
}

// Start transitions Assigned -> InTransit.
func (s Status) Start() (Status, error) {
	return s.transition(Assigned, InTransit)
}

// Complete transitions InTransit -> Completed.
func (s Status) Complete() (Status, error) {
	return s.transition(InTransit, Completed)
}

func (s Status) transition(from, to Status) (Status, error) {
	if s != from {
		return Unknown, errs.NewInvalidStateErrorWithCause(
			"cargo status",
			s,
			fmt.Errorf("%s requires %s", to, from),
		)
	}
	return to, nil
}
