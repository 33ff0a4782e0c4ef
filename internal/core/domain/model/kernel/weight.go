package kernel

import (
	"fmt"
	"math"
	"strconv"

	"freight/internal/pkg/errs"
)

// Weight is a mass in metric tons. Loads and vehicle capacities share it so
// the capacity policy compares like with like.
//
// Tons are decimal input, so arithmetic and comparisons go through whole
// kilograms: 10.3t minus 5t is exactly 5.3t, not 5.300000000000001t.
type Weight float64

const kilogramsPerTon = 1000

// NewWeight validates a positive, finite tonnage.
func NewWeight(tons float64) (Weight, error) {
	w := Weight(tons)
	if err := w.Validate(); err != nil {
		return 0, err
	}
	return w, nil
}

// Tons returns the raw tonnage.
func (w Weight) Tons() float64 {
	return float64(w)
}

// Validate rejects zero, negative, NaN and infinite weights.
func (w Weight) Validate() error {
	f := float64(w)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not a finite number", f))
	}
	if f <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("weight", fmt.Errorf("%v is not greater than 0", f))
	}
	return nil
}

// WeightFromKilograms converts a whole number of kilograms to tons.
func WeightFromKilograms(kg int64) Weight {
	return Weight(float64(kg) / kilogramsPerTon)
}

// Kilograms returns w rounded to the nearest kilogram.
func (w Weight) Kilograms() int64 {
	return int64(math.Round(float64(w) * kilogramsPerTon))
}

// Sub returns w minus other, computed in kilograms. The result may be
// negative.
func (w Weight) Sub(other Weight) Weight {
	return WeightFromKilograms(w.Kilograms() - other.Kilograms())
}

// Compare returns -1, 0 or +1 as w is lighter than, equal to or heavier
// than other at kilogram precision.
func (w Weight) Compare(other Weight) int {
	a, b := w.Kilograms(), other.Kilograms()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the heavier of w and other.
func (w Weight) Max(other Weight) Weight {
	if other.Compare(w) > 0 {
		return other
	}
	return w
}

func (w Weight) String() string {
	return strconv.FormatFloat(float64(w), 'f', -1, 64) + "t"
}
