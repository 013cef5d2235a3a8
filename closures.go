package behavioral

import "math"

// Closure is a compiled, repeatedly callable evaluator for one number. It
// may read external state, such as the current values of circuit unknowns,
// each time it is called.
type Closure func() float64

// Tolerances are the numeric safety settings baked into every division,
// exponentiation, and equality test of a compiled evaluator.
type Tolerances struct {
	// Fudge moves denominators and zero bases away from zero.
	Fudge float64
	// RelTol is the relative tolerance for equality.
	RelTol float64
	// AbsTol is the absolute tolerance for equality.
	AbsTol float64
}

// DefaultTolerances returns the default fudge factor of 1e-20, relative
// tolerance of 1e-6, and absolute tolerance of 1e-12.
func DefaultTolerances() Tolerances {
	return Tolerances{Fudge: 1e-20, RelTol: 1e-6, AbsTol: 1e-12}
}

// Closures is the compiled Algebra. Its payloads are closures which call
// their operands each time they are invoked.
type Closures struct {
	Tolerances
}

var _ Algebra[Closure] = Closures{}

func constant(v float64) Closure {
	return func() float64 { return v }
}

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Const creates a closure returning v.
func (Closures) Const(v float64) Closure {
	return constant(v)
}

// Unary creates a closure applying a unary operator.
func (Closures) Unary(op Kind, x Closure) Closure {
	switch op {
	case KindPos:
		return x
	case KindNeg:
		return func() float64 { return -x() }
	case KindNot:
		return func() float64 { return truth(x() == 0) }
	default:
		panic("behavioral: " + op.String() + " is not a unary operator")
	}
}

// Binary creates a closure applying a binary operator.
func (c Closures) Binary(op Kind, x, y Closure) Closure {
	switch op {
	case KindAdd:
		return func() float64 { return x() + y() }
	case KindSub:
		return func() float64 { return x() - y() }
	case KindMul:
		return func() float64 { return x() * y() }
	case KindDiv:
		fudge := c.Fudge
		return func() float64 { return SafeDivide(x(), y(), fudge) }
	case KindMod:
		return func() float64 { return math.Mod(x(), y()) }
	case KindPow:
		fudge := c.Fudge
		return func() float64 { return SafePower(x(), y(), fudge) }
	case KindEq:
		rel, abs := c.RelTol, c.AbsTol
		return func() float64 { return truth(ToleranceEqual(x(), y(), rel, abs)) }
	case KindNe:
		rel, abs := c.RelTol, c.AbsTol
		return func() float64 { return truth(!ToleranceEqual(x(), y(), rel, abs)) }
	case KindGt:
		return func() float64 { return truth(x() > y()) }
	case KindLt:
		return func() float64 { return truth(x() < y()) }
	case KindGe:
		return func() float64 { return truth(x() >= y()) }
	case KindLe:
		return func() float64 { return truth(x() <= y()) }
	case KindOr:
		return func() float64 { return truth(x() != 0 || y() != 0) }
	case KindAnd:
		return func() float64 { return truth(x() != 0 && y() != 0) }
	default:
		panic("behavioral: " + op.String() + " is not a binary operator")
	}
}

// Cond creates a closure that evaluates only the selected branch.
func (Closures) Cond(cond, then, els Closure) Closure {
	return func() float64 {
		if cond() != 0 {
			return then()
		}
		return els()
	}
}

// Call creates a closure applying fn. Monadic and Dyadic functions are
// called without allocating.
func (c Closures) Call(name string, fn Func, args ...Closure) Closure {
	switch f := fn.(type) {
	case binop:
		if len(args) == 2 {
			return c.Binary(Kind(f), args[0], args[1])
		}
	case Monadic:
		if len(args) == 1 {
			x := args[0]
			return func() float64 { return f(x()) }
		}
	case Dyadic:
		if len(args) == 2 {
			x, y := args[0], args[1]
			return func() float64 { return f(x(), y()) }
		}
	}
	args = append([]Closure(nil), args...)
	return func() float64 {
		v := make([]float64, len(args))
		for i, a := range args {
			v[i] = a()
		}
		return fn.Call(v)
	}
}
