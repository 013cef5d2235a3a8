package behavioral

import "math"

// The numeric primitives below never panic and never return an error. Values
// outside a function's domain map to a defined result, usually +Inf, so that
// a solver sweeping near a singularity keeps running.

// SafeDivide divides left by right after moving right away from zero by
// fudge. The result is +Inf if the adjusted denominator is still zero.
func SafeDivide(left, right, fudge float64) float64 {
	if right < 0 {
		right -= fudge
	} else {
		right += fudge
	}
	if right == 0 {
		return math.Inf(1)
	}
	return left / right
}

// ToleranceEqual reports whether left and right are within
// max(|left|, |right|)*relTol + absTol of each other.
func ToleranceEqual(left, right, relTol, absTol float64) bool {
	tol := math.Max(math.Abs(left), math.Abs(right))*relTol + absTol
	return math.Abs(left-right) <= tol
}

// Log is the natural logarithm, with +Inf for negative arguments.
func Log(x float64) float64 {
	if x < 0 {
		return math.Inf(1)
	}
	return math.Log(x)
}

// Log10 is the base 10 logarithm, with +Inf for negative arguments.
func Log10(x float64) float64 {
	if x < 0 {
		return math.Inf(1)
	}
	return math.Log10(x)
}

// Sqrt is the square root, with +Inf for negative arguments.
func Sqrt(x float64) float64 {
	if x < 0 {
		return math.Inf(1)
	}
	return math.Sqrt(x)
}

// Power computes |a|^b. It is symmetric in a.
func Power(a, b float64) float64 {
	return math.Pow(math.Abs(a), b)
}

// Power2 computes a^b for a >= 0 and -(-a)^b otherwise. It is antisymmetric
// in a.
func Power2(a, b float64) float64 {
	if a < 0 {
		return -math.Pow(-a, b)
	}
	return math.Pow(a, b)
}

// SafePower is Power2 with a zero base nudged by fudge when the exponent is
// negative. It is the value of the ^ operator.
func SafePower(a, b, fudge float64) float64 {
	if a == 0 && b < 0 {
		a += fudge
	}
	return Power2(a, b)
}

// Step is the unit step, taking 0.5 at exactly 0.
func Step(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 0:
		return 1
	default:
		return 0.5
	}
}

// Step2 is a unit step with a linear ramp from 0 to 1 over [0, 1].
func Step2(x float64) float64 {
	switch {
	case x <= 0:
		return 0
	case x <= 1:
		return x
	default:
		return 1
	}
}

// Step2Derivative is the derivative of Step2, 1 on (0, 1] and 0 elsewhere.
func Step2Derivative(x float64) float64 {
	if x <= 0 || x > 1 {
		return 0
	}
	return 1
}

// Ramp is max(x, 0).
func Ramp(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// RampDerivative is the one-sided derivative of Ramp.
func RampDerivative(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1
}

// Sign returns -1, 0, or 1 according to the sign of x.
func Sign(x float64) float64 {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

// Square returns x*x.
func Square(x float64) float64 {
	return x * x
}

// Point is a breakpoint of a piecewise-linear table.
type Point struct {
	X, Y float64
}

// pwlSegment finds the index k such that table[k] and table[k+1] bracket x.
// Arguments outside the table use the first or last segment. table must
// have at least two points with strictly ascending X.
func pwlSegment(x float64, table []Point) int {
	k0, k1 := 0, len(table)-1
	for k1-k0 > 1 {
		k := (k0 + k1) / 2
		if table[k].X > x {
			k1 = k
		} else {
			k0 = k
		}
	}
	return k0
}

// Pwl interpolates x in a piecewise-linear table. Outside the table, the
// nearest segment is extrapolated. A table with a single point is constant,
// and an empty table is zero.
func Pwl(x float64, table []Point) float64 {
	switch len(table) {
	case 0:
		return 0
	case 1:
		return table[0].Y
	}
	k := pwlSegment(x, table)
	a, b := table[k], table[k+1]
	return a.Y + (x-a.X)*(b.Y-a.Y)/(b.X-a.X)
}

// PwlDerivative is the slope of the segment of table that Pwl uses for x.
func PwlDerivative(x float64, table []Point) float64 {
	if len(table) < 2 {
		return 0
	}
	k := pwlSegment(x, table)
	a, b := table[k], table[k+1]
	return (b.Y - a.Y) / (b.X - a.X)
}
