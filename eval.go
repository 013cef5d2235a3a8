package behavioral

import (
	"strconv"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/go-hclog"
)

// Resolver finds the Derivatives of a named variable. The result for an
// independent unknown is usually created with Independent.
type Resolver[T any] func(name string) (Derivatives[T], bool)

// PropertyResolver finds the Derivatives of an external property such as
// V(out).
type PropertyResolver[T any] func(p Property) (Derivatives[T], bool)

// Evaluator computes the Derivatives of an expression from the notifications
// of an operator-precedence engine. It implements Listener. It is not safe to
// use an Evaluator concurrently.
type Evaluator[T any] struct {
	alg   Algebra[T]
	rules *Rules[T]
	vars  Resolver[T]
	props PropertyResolver[T]
	log   hclog.Logger

	stack []Derivatives[T]
}

var _ Listener = (*Evaluator[float64])(nil)

// EvalOption is an option used when creating an Evaluator.
type EvalOption interface {
	evalOption()
}

type (
	rulesopt[T any] struct{ r *Rules[T] }
	varsopt[T any]  struct{ r Resolver[T] }
	propsopt[T any] struct{ r PropertyResolver[T] }
	logopt          struct{ l hclog.Logger }
)

func (rulesopt[T]) evalOption() {}
func (varsopt[T]) evalOption()  {}
func (propsopt[T]) evalOption() {}
func (logopt) evalOption()      {}

// WithRules sets the differentiation rules. The default is DefaultRules.
func WithRules[T any](r *Rules[T]) EvalOption {
	return rulesopt[T]{r}
}

// WithVariables sets the resolver for variables. By default, no variables
// are recognized.
func WithVariables[T any](r Resolver[T]) EvalOption {
	return varsopt[T]{r}
}

// WithProperties sets the resolver for properties. By default, no properties
// are recognized.
func WithProperties[T any](r PropertyResolver[T]) EvalOption {
	return propsopt[T]{r}
}

// WithLogger sets the logger for evaluation traces. The default discards
// everything.
func WithLogger(l hclog.Logger) EvalOption {
	return logopt{l}
}

// NewEvaluator creates an Evaluator using alg for its payloads. Options for a
// payload type other than T cause a panic.
func NewEvaluator[T any](alg Algebra[T], opts ...EvalOption) *Evaluator[T] {
	e := Evaluator[T]{
		alg:   alg,
		rules: DefaultRules[T](),
		log:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case rulesopt[T]:
			e.rules = opt.r
		case varsopt[T]:
			e.vars = opt.r
		case propsopt[T]:
			e.props = opt.r
		case logopt:
			e.log = opt.l
		default:
			panic("behavioral: option for a different payload type")
		}
	}
	return &e
}

// PushLiteral pushes a constant.
func (e *Evaluator[T]) PushLiteral(v float64) error {
	e.stack = append(e.stack, Value(e.alg.Const(v)))
	return nil
}

// PushVariable pushes the Derivatives of a variable.
func (e *Evaluator[T]) PushVariable(name string) error {
	if e.vars != nil {
		if d, ok := e.vars(name); ok {
			e.stack = append(e.stack, d)
			return nil
		}
	}
	e.log.Trace("unresolved variable", "name", name)
	return &NameError{Kind: "variable", Name: name}
}

// PushProperty pushes the Derivatives of a property.
func (e *Evaluator[T]) PushProperty(p Property) error {
	if e.props != nil {
		if d, ok := e.props(p); ok {
			e.stack = append(e.stack, d)
			return nil
		}
	}
	e.log.Trace("unresolved property", "property", p.String())
	return &NameError{Kind: "property", Name: p.String()}
}

// ExecuteOperator pops the operator's operands and pushes its result.
func (e *Evaluator[T]) ExecuteOperator(op Operator) error {
	n := op.Arity()
	if n == 0 && op.Kind != KindCall {
		panic("behavioral: cannot execute " + op.Kind.String())
	}
	if len(e.stack) < n {
		return &StackError{Op: op.String(), Want: n, Have: len(e.stack)}
	}
	args := e.stack[len(e.stack)-n:]
	r, err := e.apply(op, args)
	if err != nil {
		return err
	}
	// Clear the popped vectors so the stack doesn't hold their payloads.
	clear(args)
	e.stack = append(e.stack[:len(e.stack)-n], r)
	return nil
}

func (e *Evaluator[T]) apply(op Operator, args []Derivatives[T]) (Derivatives[T], error) {
	alg := e.alg
	switch op.Kind {
	case KindPos:
		return args[0], nil
	case KindNeg:
		return Negate(alg, args[0]), nil
	case KindNot:
		return Not(alg, args[0]), nil
	case KindAdd:
		return Add(alg, args[0], args[1]), nil
	case KindSub:
		return Subtract(alg, args[0], args[1]), nil
	case KindMul:
		return Multiply(alg, args[0], args[1]), nil
	case KindDiv:
		return Divide(alg, args[0], args[1])
	case KindMod:
		return Modulo(alg, args[0], args[1])
	case KindPow:
		return Pow(alg, args[0], args[1]), nil
	case KindEq, KindNe, KindGt, KindLt, KindGe, KindLe:
		return compare(alg, op.Kind, args[0], args[1]), nil
	case KindOr:
		return Or(alg, args[0], args[1]), nil
	case KindAnd:
		return And(alg, args[0], args[1]), nil
	case KindCond:
		return IfThenElse(alg, args[0], args[1], args[2]), nil
	case KindCall:
		rule, ok := e.rules.Lookup(op.Name)
		if !ok {
			e.log.Trace("no rule", "func", op.Name)
			return Derivatives[T]{}, &NameError{Kind: "function", Name: op.Name, Suggest: suggest(op.Name, e.rules.Names())}
		}
		// Rules may keep args, so give them their own slice.
		r, err := rule(alg, append([]Derivatives[T](nil), args...))
		if err != nil {
			if err, ok := err.(*CallError); ok && err.Func == "" {
				err.Func = op.Name
			}
			return Derivatives[T]{}, err
		}
		return r, nil
	default:
		panic("behavioral: cannot execute " + op.Kind.String())
	}
}

// Result returns the result of the expression. It is an error if the stack
// does not hold exactly one vector.
func (e *Evaluator[T]) Result() (Derivatives[T], error) {
	if len(e.stack) != 1 {
		return Derivatives[T]{}, &StackError{Want: 1, Have: len(e.stack)}
	}
	return e.stack[0], nil
}

// Reset clears the evaluator's stack so it can be used for a new expression.
func (e *Evaluator[T]) Reset() {
	clear(e.stack)
	e.stack = e.stack[:0]
}

// Differentiate computes the Derivatives of the tree rooted at n.
func (e *Evaluator[T]) Differentiate(n *Node) (Derivatives[T], error) {
	e.Reset()
	if err := Walk(n, e); err != nil {
		e.Reset()
		return Derivatives[T]{}, err
	}
	r, err := e.Result()
	e.Reset()
	if err != nil {
		return Derivatives[T]{}, err
	}
	e.log.Trace("differentiated", "expr", n.String(), "slots", r.Len())
	return r, nil
}

// NameError is an error indicating a variable, property, or function that
// could not be resolved.
type NameError struct {
	// Kind is "variable", "property", or "function".
	Kind string
	// Name is the name that was not found.
	Name string
	// Suggest is a similar name that was found, if any.
	Suggest string
}

func (err *NameError) Error() string {
	s := "unrecognized " + err.Kind + " " + strconv.Quote(err.Name)
	if err.Suggest != "" {
		s += "; did you mean " + strconv.Quote(err.Suggest) + "?"
	}
	return s
}

// suggest finds the candidate most similar to name, or the empty string if
// none is close enough to be a likely typo.
func suggest(name string, candidates []string) string {
	best, dist := "", len(name)/2+1
	for _, c := range candidates {
		d := levenshtein.Distance(strings.ToLower(name), strings.ToLower(c), nil)
		if d < dist {
			best, dist = c, d
		}
	}
	return best
}

// CallError is an error indicating a function call with the wrong number of
// arguments.
type CallError struct {
	// Func is the function name that was called.
	Func string
	// Want lists the accepted numbers of arguments, if known.
	Want []int
	// Len is the number of arguments given.
	Len int
}

func (err *CallError) Error() string {
	s := "cannot call " + err.Func + " with " + strconv.Itoa(err.Len) + " arguments"
	if len(err.Want) != 0 {
		w := make([]string, len(err.Want))
		for i, n := range err.Want {
			w[i] = strconv.Itoa(n)
		}
		s += " (want " + strings.Join(w, " or ") + ")"
	}
	return s
}

// StackError is an error indicating a notification sequence that does not
// form exactly one expression.
type StackError struct {
	// Op is the operator that lacked operands, or empty if the error
	// occurred while taking the result.
	Op string
	// Want is the number of values needed.
	Want int
	// Have is the number of values on the stack.
	Have int
}

func (err *StackError) Error() string {
	if err.Op == "" {
		return "expression left " + strconv.Itoa(err.Have) + " values, want " + strconv.Itoa(err.Want)
	}
	return "operator " + err.Op + " needs " + strconv.Itoa(err.Want) + " operands, have " + strconv.Itoa(err.Have)
}
