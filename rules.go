package behavioral

import (
	"math"
	"sort"
)

// Rule computes a function of Derivatives arguments, applying the chain rule
// to propagate derivatives. A rule that receives a number of arguments it
// does not accept returns a *CallError; the Evaluator fills in the function
// name if the rule leaves it empty.
type Rule[T any] func(alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error)

// Rules is a table of differentiation rules by name. Like Funcs, a Rules is
// never modified after it is created; With and Without return copies.
type Rules[T any] struct {
	m map[string]Rule[T]
}

// DefaultRules returns a table of the built-in rules for a payload type.
func DefaultRules[T any]() *Rules[T] {
	return &Rules[T]{m: map[string]Rule[T]{
		"Exp":   applyExp[T],
		"Log":   applyLog[T],
		"Log10": applyLog10[T],
		"Pow":   applyPow[T],
		"Sqrt":  applySqrt[T],
		"Sin":   applySin[T],
		"Cos":   applyCos[T],
		"Tan":   applyTan[T],
		"Asin":  applyAsin[T],
		"Acos":  applyAcos[T],
		"Atan":  applyAtan[T],
		"Sinh":  applySinh[T],
		"Cosh":  applyCosh[T],
		"Tanh":  applyTanh[T],

		"Abs":    applyAbs[T],
		"Square": applySquare[T],
		"Ramp":   applyRamp[T],
		"Step":   applyStep[T],
		"Step2":  applyStep2[T],
		"Sign":   applySign[T],
		"Min":    applyMin[T],
		"Max":    applyMax[T],
	}}
}

// With returns a copy of the table with a rule added or replaced.
func (t *Rules[T]) With(name string, rule Rule[T]) *Rules[T] {
	m := make(map[string]Rule[T], len(t.m)+1)
	for k, v := range t.m {
		m[k] = v
	}
	m[name] = rule
	return &Rules[T]{m: m}
}

// Without returns a copy of the table with a rule removed.
func (t *Rules[T]) Without(name string) *Rules[T] {
	m := make(map[string]Rule[T], len(t.m))
	for k, v := range t.m {
		if k != name {
			m[k] = v
		}
	}
	return &Rules[T]{m: m}
}

// Lookup finds a rule by name. Names are case sensitive.
func (t *Rules[T]) Lookup(name string) (Rule[T], bool) {
	r, ok := t.m[name]
	return r, ok
}

// Names returns the sorted names of the rules in the table.
func (t *Rules[T]) Names() []string {
	r := make([]string, 0, len(t.m))
	for k := range t.m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// arity checks that there are as many args as any of want.
func arity[T any](args []Derivatives[T], want ...int) error {
	for _, n := range want {
		if len(args) == n {
			return nil
		}
	}
	return &CallError{Want: want, Len: len(args)}
}

// chain applies a function of one argument. The value is fn(f0). Each
// present derivative f_i becomes f_i*factor or f_i/factor, where factor is
// computed once from f0 and the result value.
func chain[T any](alg Algebra[T], args []Derivatives[T], name string, fn Func, div bool, factor func(x, r T) T) (Derivatives[T], error) {
	if err := arity(args, 1); err != nil {
		return Derivatives[T]{}, err
	}
	f := args[0]
	x, ok := f.At(0)
	if !ok {
		x = alg.Const(0)
	}
	r := withLen[T](f.Len())
	r0 := alg.Call(name, fn, x)
	r.Set(0, r0)
	if factor == nil {
		return r, nil
	}
	var k T
	haveK := false
	for i := 1; i < f.Len(); i++ {
		dx, ok := f.At(i)
		if !ok {
			continue
		}
		if !haveK {
			k, haveK = factor(x, r0), true
		}
		if div {
			r.Set(i, alg.Binary(KindDiv, dx, k))
		} else {
			r.Set(i, alg.Binary(KindMul, k, dx))
		}
	}
	return r, nil
}

func applyExp[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	// (e^f)' = e^f f'
	return chain(alg, args, "Exp", fnExp, false, func(x, r T) T { return r })
}

func applyLog[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	if err := arity(args, 1, 2); err != nil {
		return Derivatives[T]{}, err
	}
	if len(args) == 1 {
		// ln(f)' = f'/f
		return chain(alg, args, "Log", fnLogn, true, func(x, r T) T { return x })
	}
	// log_f(g) = ln(g)/ln(f)
	// NOTE: the base's term is -(f'/f) log_f(g), which omits a factor of
	// 1/ln(f) from the textbook derivative.
	g, f := args[0], args[1]
	g0, ok := g.At(0)
	if !ok {
		g0 = alg.Const(0)
	}
	f0, ok := f.At(0)
	if !ok {
		f0 = alg.Const(0)
	}
	r := withLen[T](max(g.Len(), f.Len()))
	r0 := alg.Call("Log", fnLogn, g0, f0)
	r.Set(0, r0)
	var lnf T
	haveLnf := false
	for i := 1; i < r.Len(); i++ {
		dg, gok := g.At(i)
		df, fok := f.At(i)
		var t T
		if gok {
			if !haveLnf {
				lnf, haveLnf = alg.Call("Log", fnLog, f0), true
			}
			t = alg.Binary(KindDiv, alg.Binary(KindDiv, dg, g0), lnf)
		}
		if fok {
			u := alg.Binary(KindMul, alg.Binary(KindDiv, df, f0), r0)
			if gok {
				t = alg.Binary(KindSub, t, u)
			} else {
				t = alg.Unary(KindNeg, u)
			}
		}
		if gok || fok {
			r.Set(i, t)
		}
	}
	return r, nil
}

func applyLog10[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	// log10(f)' = ln(f)'/ln(10)
	if err := arity(args, 1); err != nil {
		return Derivatives[T]{}, err
	}
	r, err := applyLog(alg, args)
	if err != nil {
		return r, err
	}
	x, ok := args[0].At(0)
	if !ok {
		x = alg.Const(0)
	}
	ln10 := alg.Const(math.Ln10)
	s := withLen[T](r.Len())
	s.Set(0, alg.Call("Log10", fnLog10, x))
	for i := 1; i < r.Len(); i++ {
		if d, ok := r.At(i); ok {
			s.Set(i, alg.Binary(KindDiv, d, ln10))
		}
	}
	return s, nil
}

func applyPow[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	if err := arity(args, 2); err != nil {
		return Derivatives[T]{}, err
	}
	return Pow(alg, args[0], args[1]), nil
}

func applySqrt[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	// NOTE: the factor is -2 sqrt(f), not 2 sqrt(f). Register a replacement
	// rule with With to get the textbook sign.
	return chain(alg, args, "Sqrt", fnSqrt, true, func(x, r T) T {
		return alg.Binary(KindMul, alg.Const(-2), r)
	})
}

func applySin[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Sin", fnSin, false, func(x, r T) T {
		return alg.Call("Cos", fnCos, x)
	})
}

func applyCos[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Cos", fnCos, false, func(x, r T) T {
		return alg.Unary(KindNeg, alg.Call("Sin", fnSin, x))
	})
}

func applyTan[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Tan", globalfuncs["Tan"], true, func(x, r T) T {
		return alg.Call("Square", fnSquare, alg.Call("Cos", fnCos, x))
	})
}

// invsqrt is sqrt(1 - x²).
func invsqrt[T any](alg Algebra[T], x T) T {
	return alg.Call("Sqrt", fnSqrt, alg.Binary(KindSub, alg.Const(1), alg.Call("Square", fnSquare, x)))
}

func applyAsin[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Asin", globalfuncs["Asin"], true, func(x, r T) T {
		return invsqrt(alg, x)
	})
}

func applyAcos[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Acos", globalfuncs["Acos"], true, func(x, r T) T {
		return alg.Unary(KindNeg, invsqrt(alg, x))
	})
}

func applyAtan[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Atan", globalfuncs["Atan"], true, func(x, r T) T {
		return alg.Binary(KindAdd, alg.Const(1), alg.Call("Square", fnSquare, x))
	})
}

func applySinh[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Sinh", globalfuncs["Sinh"], false, func(x, r T) T {
		return alg.Call("Cosh", globalfuncs["Cosh"], x)
	})
}

func applyCosh[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Cosh", globalfuncs["Cosh"], false, func(x, r T) T {
		return alg.Call("Sinh", globalfuncs["Sinh"], x)
	})
}

func applyTanh[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	// tanh(f)' = (1 - tanh²(f)) f'
	return chain(alg, args, "Tanh", globalfuncs["Tanh"], false, func(x, r T) T {
		return alg.Binary(KindSub, alg.Const(1), alg.Call("Square", fnSquare, r))
	})
}

func applyAbs[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Abs", fnAbs, false, func(x, r T) T {
		return alg.Call("Sign", fnSign, x)
	})
}

func applySquare[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Square", fnSquare, false, func(x, r T) T {
		return alg.Binary(KindMul, alg.Const(2), x)
	})
}

func applyRamp[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Ramp", globalfuncs["Ramp"], false, func(x, r T) T {
		return alg.Call("RampDerivative", globalfuncs["RampDerivative"], x)
	})
}

func applyStep[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	// Flat everywhere but the discontinuity.
	return chain(alg, args, "Step", globalfuncs["Step"], false, nil)
}

func applyStep2[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Step2", globalfuncs["Step2"], false, func(x, r T) T {
		return alg.Call("Step2Derivative", globalfuncs["Step2Derivative"], x)
	})
}

func applySign[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return chain(alg, args, "Sign", fnSign, false, nil)
}

// minmax selects derivatives from the argument whose value is selected.
func minmax[T any](alg Algebra[T], args []Derivatives[T], name string, op Kind) (Derivatives[T], error) {
	if err := arity(args, 2); err != nil {
		return Derivatives[T]{}, err
	}
	a, b := args[0], args[1]
	a0, ok := a.At(0)
	if !ok {
		a0 = alg.Const(0)
	}
	b0, ok := b.At(0)
	if !ok {
		b0 = alg.Const(0)
	}
	r := IfThenElse(alg, compare(alg, op, a, b), a, b).Clone()
	r.Set(0, alg.Call(name, globalfuncs[name], a0, b0))
	return r, nil
}

func applyMin[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return minmax(alg, args, "Min", KindLe)
}

func applyMax[T any](alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
	return minmax(alg, args, "Max", KindGe)
}

// PwlRule creates a rule interpolating a piecewise-linear table, with the
// slope of the table as its derivative. The table is referenced, not copied.
// The rule's values are bound to the table, so the name it is registered
// under does not need a matching entry in a Funcs table.
func PwlRule[T any](table []Point) Rule[T] {
	val := PwlFunc(table)
	slope := PwlDerivativeFunc(table)
	return func(alg Algebra[T], args []Derivatives[T]) (Derivatives[T], error) {
		return chain(alg, args, "Pwl", val, false, func(x, r T) T {
			return alg.Call("PwlDerivative", slope, x)
		})
	}
}
