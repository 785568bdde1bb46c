package costs

import "math"

// Annuity returns the fraction of an investment's cost recovered per year at
// the given discount rate over the given lifetime in years. A zero (or
// negative) discount rate degenerates to straight-line recovery of 1/n.
func Annuity(lifetime, discountRate float64) float64 {
	if discountRate > 0 {
		return discountRate / (1 - math.Pow(1+discountRate, -lifetime))
	}
	return 1 / lifetime
}
