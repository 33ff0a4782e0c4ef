package cargo

import (
	"fmt"

	"freight/internal/pkg/errs"
)

// Urgency ranks how quickly a load must be delivered.
type Urgency int

const (
	UrgencyUnknown Urgency = iota
	Normal
	Urgent
	// Express is same-day delivery.
	Express
)

func getUrgencyStrings() map[Urgency]string {
	return map[Urgency]string{
		UrgencyUnknown: "unknown",
		Normal:         "normal",
		Urgent:         "urgent",
		Express:        "express",
	}
}

// ParseUrgency maps a name to an Urgency.
func ParseUrgency(s string) (Urgency, error) {
	for urgency, name := range getUrgencyStrings() {
		if urgency != UrgencyUnknown && name == s {
			return urgency, nil
		}
	}
	return UrgencyUnknown, errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%q is not an urgency", s))
}

func (u Urgency) Validate() error {
	if u < Normal || u > Express {
		return errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%d is not a valid urgency", u))
	}
	return nil
}

func (u Urgency) String() string {
	if str, ok := getUrgencyStrings()[u]; ok {
		return str
	}
	return "unknown"
}
