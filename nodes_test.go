package behavioral_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/behavioral"
)

// recorder is a Listener that records the notifications it receives.
type recorder struct {
	got  []string
	fail int
}

func (r *recorder) note(s string) error {
	r.got = append(r.got, s)
	if r.fail > 0 && len(r.got) == r.fail {
		return errors.New("stop")
	}
	return nil
}

func (r *recorder) PushLiteral(v float64) error { return r.note(fmt.Sprint(v)) }
func (r *recorder) PushVariable(name string) error { return r.note(name) }
func (r *recorder) PushProperty(p behavioral.Property) error { return r.note(p.String()) }
func (r *recorder) ExecuteOperator(op behavioral.Operator) error { return r.note(op.String()) }

func TestWalk(t *testing.T) {
	cases := []struct {
		src  string
		want []string
	}{
		{"1", []string{"1"}},
		{"a + b*2", []string{"a", "b", "2", "*", "+"}},
		{"+x", []string{"x", "+"}},
		{"!-x", []string{"x", "-", "!"}},
		{"Max(a, -b) ? V(out) : 1", []string{"a", "b", "-", "Max/2", "V(out)", "1", "?:"}},
		{"a^b^c", []string{"a", "b", "c", "^", "^"}},
		{"f()", []string{"f/0"}},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n, err := behavioral.ParseString(c.src)
			require.NoError(t, err)
			var r recorder
			require.NoError(t, behavioral.Walk(n, &r))
			if diff := cmp.Diff(c.want, r.got); diff != "" {
				t.Errorf("wrong notifications (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkStops(t *testing.T) {
	n, err := behavioral.ParseString("a + b*c")
	require.NoError(t, err)
	r := recorder{fail: 2}
	require.Error(t, behavioral.Walk(n, &r))
	require.Equal(t, []string{"a", "b"}, r.got)
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    behavioral.Kind
		want string
	}{
		{behavioral.KindNone, "None"},
		{behavioral.KindCall, "Call"},
		{behavioral.KindNeg, "Neg"},
		{behavioral.KindAnd, "And"},
		{behavioral.Kind(100), "Kind(100)"},
		{behavioral.Kind(-1), "Kind(-1)"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("%d: want %q, got %q", int(c.k), c.want, got)
		}
	}
	require.True(t, behavioral.KindNot.Unary())
	require.False(t, behavioral.KindNot.Binary())
	require.True(t, behavioral.KindPow.Binary())
	require.False(t, behavioral.KindCond.Unary() || behavioral.KindCond.Binary())
}

func TestConstructorsPanic(t *testing.T) {
	x := behavioral.Var("x")
	require.Panics(t, func() { behavioral.Unary(behavioral.KindAdd, x) })
	require.Panics(t, func() { behavioral.Binary(behavioral.KindNeg, x, x) })
	require.Panics(t, func() { behavioral.Binary(behavioral.KindCall, x, x) })
	require.NotPanics(t, func() { behavioral.Unary(behavioral.KindNot, x) })
}

func TestOperator(t *testing.T) {
	cases := []struct {
		op    behavioral.Operator
		arity int
		str   string
	}{
		{behavioral.Operator{Kind: behavioral.KindNeg}, 1, "-"},
		{behavioral.Operator{Kind: behavioral.KindSub}, 2, "-"},
		{behavioral.Operator{Kind: behavioral.KindGe}, 2, ">="},
		{behavioral.Operator{Kind: behavioral.KindCond}, 3, "?:"},
		{behavioral.Operator{Kind: behavioral.KindCall, Name: "Log", Args: 2}, 2, "Log/2"},
	}
	for _, c := range cases {
		require.Equal(t, c.arity, c.op.Arity(), c.str)
		require.Equal(t, c.str, c.op.String())
	}
}

func TestNodeAccessors(t *testing.T) {
	n, err := behavioral.ParseString("Sin(x) * V(out) + I(V1) - x / y + 2")
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, n.Vars())
	require.Equal(t, []string{"I(V1)", "V(out)"}, n.Properties())
	require.Equal(t, behavioral.KindAdd, n.Kind())

	args := n.Args()
	require.Len(t, args, 2)
	v, ok := args[1].Value()
	require.True(t, ok)
	require.Equal(t, 2.0, v)
	_, ok = args[0].Value()
	require.False(t, ok)

	// Args is a copy.
	args[0] = behavioral.Const(0)
	require.NotEqual(t, behavioral.KindNum, n.Args()[0].Kind())

	call := behavioral.Call("Sin", behavioral.Var("x"))
	require.Equal(t, "Sin", call.Name())
	prop := behavioral.Prop("V", "a", "b")
	require.Equal(t, "V(a,b)", prop.Name())
	require.Equal(t, behavioral.Property{Kind: "V", Args: []string{"a", "b"}}, prop.Property())
}

func TestNodeString(t *testing.T) {
	cases := []struct {
		n    *behavioral.Node
		want string
	}{
		{behavioral.Const(1.5), "1.5"},
		{behavioral.Var("x"), "x"},
		{behavioral.Binary(behavioral.KindAdd, behavioral.Var("x"), behavioral.Const(1)), "(x + 1)"},
		{behavioral.Unary(behavioral.KindNeg, behavioral.Binary(behavioral.KindMul, behavioral.Var("x"), behavioral.Var("y"))), "(-[x * y])"},
		{behavioral.Call("Min", behavioral.Var("x"), behavioral.Const(2)), "Min(x, 2)"},
		{behavioral.Cond(behavioral.Var("c"), behavioral.Const(1), behavioral.Const(0)), "(c ? 1 : 0)"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.n.String())
	}
}

func TestNodeTree(t *testing.T) {
	n, err := behavioral.ParseString("c ? Max(a, -b) : V(out)")
	require.NoError(t, err)
	tree := n.Tree()
	for _, label := range []string{"?:", "Max()", "-", "a", "b", "V(out)", "c"} {
		require.Contains(t, tree, label)
	}
	require.True(t, strings.HasPrefix(tree, "?:"), "tree should start at the root:\n%s", tree)
	require.Equal(t, 7, strings.Count(strings.TrimSpace(tree), "\n")+1, "one line per node:\n%s", tree)
}

func TestWalkInvalid(t *testing.T) {
	cases := []struct {
		name string
		n    *behavioral.Node
		kind behavioral.Kind
	}{
		{"nil", nil, behavioral.KindNone},
		{"zero", &behavioral.Node{}, behavioral.KindNone},
		{"nilarg", behavioral.Unary(behavioral.KindNeg, nil), behavioral.KindNone},
		{"zeroarg", behavioral.Binary(behavioral.KindAdd, behavioral.Const(1), &behavioral.Node{}), behavioral.KindNone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var ne *behavioral.NodeError
			require.ErrorAs(t, behavioral.Walk(c.n, new(recorder)), &ne)
			require.Equal(t, c.kind, ne.Kind)

			_, err := behavioral.NewBuilder().Build(c.n)
			require.ErrorAs(t, err, &ne)
			_, err = behavioral.NewEvaluator[closure](alg).Differentiate(c.n)
			require.ErrorAs(t, err, &ne)
		})
	}
	require.EqualError(t, &behavioral.NodeError{}, "invalid expression node of kind None")
}
