package main

import (
	"fmt"
	"io"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/zephyrtronium/behavioral"
)

// env holds the values an expression is evaluated with.
type env struct {
	tol    behavioral.Tolerances
	given  map[string]float64
	wrt    []string
	props  map[string]float64
	tables map[string][]behavioral.Point
	log    hclog.Logger
}

// index returns the unknown index of a variable, or 0 if it is not
// independent.
func (e *env) index(name string) int {
	for i, w := range e.wrt {
		if w == name {
			return i + 1
		}
	}
	return 0
}

// closures creates an evaluator computing derivatives as closures.
func (e *env) closures() *behavioral.Evaluator[behavioral.Closure] {
	alg := behavioral.Closures{Tolerances: e.tol}
	rules := behavioral.DefaultRules[behavioral.Closure]()
	for name, t := range e.tables {
		rules = rules.With(name, behavioral.PwlRule[behavioral.Closure](t))
	}
	var vars behavioral.Resolver[behavioral.Closure] = func(name string) (behavioral.Derivatives[behavioral.Closure], bool) {
		v, ok := e.given[name]
		if !ok {
			return behavioral.Derivatives[behavioral.Closure]{}, false
		}
		if i := e.index(name); i > 0 {
			return behavioral.Independent[behavioral.Closure](alg, alg.Const(v), i), true
		}
		return behavioral.Value(alg.Const(v)), true
	}
	var props behavioral.PropertyResolver[behavioral.Closure] = func(p behavioral.Property) (behavioral.Derivatives[behavioral.Closure], bool) {
		v, ok := e.props[p.String()]
		if !ok {
			return behavioral.Derivatives[behavioral.Closure]{}, false
		}
		return behavioral.Value(alg.Const(v)), true
	}
	return behavioral.NewEvaluator[behavioral.Closure](alg,
		behavioral.WithRules(rules),
		behavioral.WithVariables(vars),
		behavioral.WithProperties(props),
		behavioral.WithLogger(e.log.Named("closures")),
	)
}

// trees creates an evaluator computing derivatives as expression trees.
func (e *env) trees() *behavioral.Evaluator[*behavioral.Node] {
	alg := behavioral.Trees{}
	rules := behavioral.DefaultRules[*behavioral.Node]()
	for name, t := range e.tables {
		rules = rules.With(name, behavioral.PwlRule[*behavioral.Node](t))
	}
	var vars behavioral.Resolver[*behavioral.Node] = func(name string) (behavioral.Derivatives[*behavioral.Node], bool) {
		if _, ok := e.given[name]; !ok {
			return behavioral.Derivatives[*behavioral.Node]{}, false
		}
		if i := e.index(name); i > 0 {
			return behavioral.Independent[*behavioral.Node](alg, behavioral.Var(name), i), true
		}
		return behavioral.Value(behavioral.Var(name)), true
	}
	var props behavioral.PropertyResolver[*behavioral.Node] = func(p behavioral.Property) (behavioral.Derivatives[*behavioral.Node], bool) {
		if _, ok := e.props[p.String()]; !ok {
			return behavioral.Derivatives[*behavioral.Node]{}, false
		}
		return behavioral.Value(behavioral.Prop(p.Kind, p.Args...)), true
	}
	return behavioral.NewEvaluator[*behavioral.Node](alg,
		behavioral.WithRules(rules),
		behavioral.WithVariables(vars),
		behavioral.WithProperties(props),
		behavioral.WithLogger(e.log.Named("trees")),
	)
}

// builder creates a Builder that compiles trees using the environment.
func (e *env) builder() *behavioral.Builder {
	b := behavioral.NewBuilder()
	b.Tolerances = e.tol
	for name, t := range e.tables {
		b.Funcs = b.Funcs.With(name, behavioral.PwlFunc(t))
	}
	b.Variables = func(name string) (behavioral.Closure, bool) {
		v, ok := e.given[name]
		return func() float64 { return v }, ok
	}
	b.Properties = func(p behavioral.Property) (behavioral.Closure, bool) {
		v, ok := e.props[p.String()]
		return func() float64 { return v }, ok
	}
	b.Logger = e.log.Named("builder")
	return b
}

// constant evaluates an expression with no variables.
func (e *env) constant(src string) (float64, error) {
	n, err := behavioral.ParseString(src)
	if err != nil {
		return 0, err
	}
	b := behavioral.NewBuilder()
	b.Tolerances = e.tol
	c, err := b.Build(n)
	if err != nil {
		return 0, err
	}
	return c(), nil
}

// run evaluates an expression and its derivatives with respect to each
// independent variable and writes them to w.
func (e *env) run(w io.Writer, n *behavioral.Node, verb string, tree bool) error {
	b := e.builder()
	v, err := b.Build(n)
	if err != nil {
		return err
	}
	d, err := e.closures().Differentiate(n)
	if err != nil {
		return err
	}
	s, err := e.trees().Differentiate(n)
	if err != nil {
		return err
	}
	c, err := b.Compile(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, verb+"\n", v())
	for i, name := range e.wrt {
		x, y := slot(d, i+1), slot(c, i+1)
		if x != y && !(math.IsNaN(x) && math.IsNaN(y)) {
			e.log.Warn("derivative paths disagree", "wrt", name, "closures", x, "trees", y)
		}
		fmt.Fprintf(w, "\td/d%s = "+verb+"\n", name, x)
		if tree {
			if t, ok := s.At(i + 1); ok {
				fmt.Fprint(w, t.Tree())
			}
		}
	}
	return nil
}

// slot evaluates slot i of d, with absent slots being zero.
func slot(d behavioral.Derivatives[behavioral.Closure], i int) float64 {
	if f, ok := d.At(i); ok {
		return f()
	}
	return 0
}
