package behavioral

import "github.com/hashicorp/go-hclog"

// Builder compiles expression trees into Closures. The fields of a Builder
// are its configuration; Build copies them, so changing a Builder does not
// affect closures it has already produced.
type Builder struct {
	Tolerances

	// Funcs resolves calls to functions not bound in the tree.
	Funcs *Funcs
	// Variables resolves variable names. If nil, no variables are recognized.
	Variables func(name string) (Closure, bool)
	// Properties resolves properties. If nil, no properties are recognized.
	Properties func(p Property) (Closure, bool)
	// Logger receives debugging output.
	Logger hclog.Logger
}

// NewBuilder creates a Builder with the default tolerances and functions.
func NewBuilder() *Builder {
	return &Builder{
		Tolerances: DefaultTolerances(),
		Funcs:      DefaultFuncs(),
		Logger:     hclog.NewNullLogger(),
	}
}

// Build compiles the tree rooted at n into a closure.
func (b *Builder) Build(n *Node) (Closure, error) {
	in := b.instance()
	if err := Walk(n, in); err != nil {
		return nil, err
	}
	if len(in.stack) != 1 {
		return nil, &StackError{Want: 1, Have: len(in.stack)}
	}
	in.log.Debug("built", "expr", n.String())
	return in.stack[0], nil
}

// Compile compiles every present slot of a symbolic vector, such as one
// produced by an Evaluator using Trees.
func (b *Builder) Compile(d Derivatives[*Node]) (Derivatives[Closure], error) {
	return Map(d, func(i int, n *Node) (Closure, error) {
		return b.Build(n)
	})
}

func (b *Builder) instance() *builderInstance {
	in := builderInstance{
		alg:   Closures{b.Tolerances},
		funcs: b.Funcs,
		vars:  b.Variables,
		props: b.Properties,
		log:   b.Logger,
	}
	if in.funcs == nil {
		in.funcs = DefaultFuncs()
	}
	if in.log == nil {
		in.log = hclog.NewNullLogger()
	}
	return &in
}

// builderInstance is the Listener for a single Build. It applies the same
// Closures algebra as an Evaluator would, but to scalars, so its closures
// compute the same values as slot 0 of a compiled vector.
type builderInstance struct {
	alg   Closures
	funcs *Funcs
	vars  func(string) (Closure, bool)
	props func(Property) (Closure, bool)
	log   hclog.Logger

	stack []Closure
}

func (in *builderInstance) PushLiteral(v float64) error {
	in.stack = append(in.stack, in.alg.Const(v))
	return nil
}

func (in *builderInstance) PushVariable(name string) error {
	if in.vars != nil {
		if c, ok := in.vars(name); ok {
			in.stack = append(in.stack, c)
			return nil
		}
	}
	return &NameError{Kind: "variable", Name: name}
}

func (in *builderInstance) PushProperty(p Property) error {
	if in.props != nil {
		if c, ok := in.props(p); ok {
			in.stack = append(in.stack, c)
			return nil
		}
	}
	return &NameError{Kind: "property", Name: p.String()}
}

func (in *builderInstance) ExecuteOperator(op Operator) error {
	n := op.Arity()
	if len(in.stack) < n {
		return &StackError{Op: op.String(), Want: n, Have: len(in.stack)}
	}
	args := in.stack[len(in.stack)-n:]
	var r Closure
	switch {
	case op.Kind == KindCall:
		fn := op.Fn
		if fn == nil {
			var ok bool
			fn, ok = in.funcs.Lookup(op.Name)
			if !ok {
				return &NameError{Kind: "function", Name: op.Name, Suggest: suggest(op.Name, in.funcs.Names())}
			}
		}
		if !fn.CanCall(n) {
			return &CallError{Func: op.Name, Want: arities(fn), Len: n}
		}
		r = in.alg.Call(op.Name, fn, args...)
	case op.Kind == KindCond:
		r = in.alg.Cond(args[0], args[1], args[2])
	case op.Kind.Unary():
		r = in.alg.Unary(op.Kind, args[0])
	case op.Kind.Binary():
		r = in.alg.Binary(op.Kind, args[0], args[1])
	default:
		panic("behavioral: cannot execute " + op.Kind.String())
	}
	in.stack = append(in.stack[:len(in.stack)-n], r)
	return nil
}
