// Package field defines the complex function the particles are advected
// through. The field must be pure: it is evaluated many times per particle
// per frame and also drives the divergence test, so identical inputs have to
// produce identical outputs.
package field

import "math"

// DefaultTerms is the exclusive upper bound of the series in Eval.
const DefaultTerms = 12

// Eval returns the field vector at z. Starting from z, it accumulates
// z^i * e^-i for i in [2, terms). The time index t is accepted for interface
// symmetry; this field is time-invariant.
func Eval(t int, z complex128, terms int) complex128 {
	_ = t
	for i := 2; i < terms; i++ {
		z += pow(z, i) * complex(math.Exp(-float64(i)), 0)
	}
	return z
}

// pow raises z to a small positive integer power.
func pow(z complex128, n int) complex128 {
	w := z
	for i := 1; i < n; i++ {
		w *= z
	}
	return w
}

// SqMag returns the squared magnitude of z. NaN and Inf propagate, which is
// what the divergence guard relies on.
func SqMag(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

// Sigmoid maps x into (-1, 1): 2/(1+e^-x) - 1.
func Sigmoid(x float64) float64 {
	return 2.0/(1.0+math.Exp(-x)) - 1.0
}
