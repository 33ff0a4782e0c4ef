package driver

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Status is a driver's availability.
//
//	Available ⇄ Busy          (cargo-linked: take / finish a delivery)
//	Available ⇄ Resting ⇄ Offline (explicit requests, never mid-delivery)
type Status int

const (
	Unknown Status = iota
	Available
	Busy
	Resting
	Offline
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "unknown",
		Available: "available",
		Busy:      "busy",
		Resting:   "resting",
		Offline:   "offline",
	}
}

// ParseStatus maps the persisted name back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a driver status", s))
}

func (s Status) Validate() error {
	if s < Available || s > Offline {
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

// IsOnline matches the app's toggle: available and busy drivers are online.
func (s Status) IsOnline() bool {
	return s == Available || s == Busy
}

// ValidateCanHaveDelivery enforces Busy iff an active delivery is set.
func (s Status) ValidateCanHaveDelivery(hasDelivery bool) error {
	if hasDelivery != (s == Busy) {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is inconsistent with active delivery %t", s, hasDelivery),
		)
	}
	return nil
}
