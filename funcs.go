package behavioral

import (
	"math"
	"sort"
)

// Func is a value function from reals to a real, used by compiled
// evaluators. Unlike a Rule, a Func knows nothing of derivatives.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not retain or modify args, and it should map
	// arguments outside its domain to a defined result rather than panic.
	Call(args []float64) float64

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

// Monadic is a Func of one argument.
type Monadic func(x float64) float64

// Call calls f(args[0]).
func (f Monadic) Call(args []float64) float64 {
	return f(args[0])
}

// CanCall returns n == 1.
func (f Monadic) CanCall(n int) bool {
	return n == 1
}

// Dyadic is a Func of two arguments.
type Dyadic func(x, y float64) float64

// Call calls f(args[0], args[1]).
func (f Dyadic) Call(args []float64) float64 {
	return f(args[0], args[1])
}

// CanCall returns n == 2.
func (f Dyadic) CanCall(n int) bool {
	return n == 2
}

// Variadic wraps a function of any number of arguments into a Func. If min
// is positive, the function requires at least that many arguments; if max is
// positive, it accepts at most that many.
func Variadic(min, max int, f func(args []float64) float64) Func {
	return variadic{f: f, min: min, max: max}
}

type variadic struct {
	f        func([]float64) float64
	min, max int
}

func (v variadic) Call(args []float64) float64 {
	return v.f(args)
}

func (v variadic) CanCall(n int) bool {
	return (v.min <= 0 || n >= v.min) && (v.max <= 0 || n <= v.max)
}

// maxArgs bounds the argument counts arities reports.
const maxArgs = 8

// arities lists the numbers of arguments up to maxArgs that fn accepts.
func arities(fn Func) []int {
	var r []int
	for n := 0; n <= maxArgs; n++ {
		if fn.CanCall(n) {
			r = append(r, n)
		}
	}
	return r
}

// Functions that the derivative rules call directly.
var (
	fnExp    = Monadic(math.Exp)
	fnLog    = Monadic(Log)
	fnSqrt   = Monadic(Sqrt)
	fnAbs    = Monadic(math.Abs)
	fnSquare = Monadic(Square)
	fnSin    = Monadic(math.Sin)
	fnCos    = Monadic(math.Cos)
	fnSign   = Monadic(Sign)
	fnLogn   = Variadic(1, 2, logn)
	fnLog10  = Monadic(Log10)
)

// binop is a Func applying a binary operator, so that compiled calls get the
// same numeric safety as the operator. Closures calls it through its
// Binary method with the Closures' tolerances. Calling it directly uses
// DefaultTolerances.
type binop Kind

func (op binop) Call(args []float64) float64 {
	return Closures{DefaultTolerances()}.Binary(Kind(op), constant(args[0]), constant(args[1]))()
}

func (op binop) CanCall(n int) bool {
	return n == 2
}

// logn computes a logarithm of one argument or of args[0] in base args[1].
func logn(args []float64) float64 {
	if len(args) == 1 {
		return Log(args[0])
	}
	return Log(args[0]) / Log(args[1])
}

var globalfuncs = map[string]Func{
	"Exp":   fnExp,
	"Log":   fnLogn,
	"Log10": fnLog10,
	"Pow":   binop(KindPow),
	"Pwr":   Dyadic(Power),
	"Pwrs":  Dyadic(Power2),
	"Sqrt":  fnSqrt,

	"Sin":  fnSin,
	"Cos":  fnCos,
	"Tan":  Monadic(math.Tan),
	"Asin": Monadic(math.Asin),
	"Acos": Monadic(math.Acos),
	"Atan": Monadic(math.Atan),
	"Sinh": Monadic(math.Sinh),
	"Cosh": Monadic(math.Cosh),
	"Tanh": Monadic(math.Tanh),

	"Abs":             fnAbs,
	"Square":          fnSquare,
	"Sign":            fnSign,
	"Step":            Monadic(Step),
	"Step2":           Monadic(Step2),
	"Step2Derivative": Monadic(Step2Derivative),
	"Ramp":            Monadic(Ramp),
	"RampDerivative":  Monadic(RampDerivative),
	"Min":             Dyadic(math.Min),
	"Max":             Dyadic(math.Max),
	"Floor":           Monadic(math.Floor),
	"Ceil":            Monadic(math.Ceil),
	"Round":           Monadic(math.Round),
}

// Funcs is a table of value functions by name. A Funcs is never modified
// after it is created, so it is safe to share between goroutines; With and
// Without return modified copies.
type Funcs struct {
	m map[string]Func
}

// DefaultFuncs returns the table of built-in value functions. Pow applies
// the ^ operator: compiled through a Builder it uses the Builder's
// tolerances, while calling the Func directly uses DefaultTolerances.
func DefaultFuncs() *Funcs {
	return &Funcs{m: globalfuncs}
}

// With returns a copy of the table with a function added or replaced.
func (t *Funcs) With(name string, fn Func) *Funcs {
	m := make(map[string]Func, len(t.m)+1)
	for k, v := range t.m {
		m[k] = v
	}
	m[name] = fn
	return &Funcs{m: m}
}

// Without returns a copy of the table with a function removed.
func (t *Funcs) Without(name string) *Funcs {
	m := make(map[string]Func, len(t.m))
	for k, v := range t.m {
		if k != name {
			m[k] = v
		}
	}
	return &Funcs{m: m}
}

// Lookup finds a function by name. Names are case sensitive.
func (t *Funcs) Lookup(name string) (Func, bool) {
	fn, ok := t.m[name]
	return fn, ok
}

// Names returns the sorted names of the functions in the table.
func (t *Funcs) Names() []string {
	r := make([]string, 0, len(t.m))
	for k := range t.m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// PwlFunc creates a Func interpolating a piecewise-linear table. The table is
// referenced, not copied; it must outlive and not change under every
// evaluator that uses the function.
func PwlFunc(table []Point) Func {
	return Monadic(func(x float64) float64 { return Pwl(x, table) })
}

// PwlDerivativeFunc creates a Func giving the slope of a piecewise-linear
// table. The table is referenced as by PwlFunc.
func PwlDerivativeFunc(table []Point) Func {
	return Monadic(func(x float64) float64 { return PwlDerivative(x, table) })
}
