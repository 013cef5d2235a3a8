package behavioral

import (
	"sort"
	"strconv"
	"strings"

	"github.com/xlab/treeprint"
)

// Node is a node in the syntax tree of an expression. Nodes are immutable
// once created, so subtrees may be shared freely, including between
// goroutines.
type Node struct {
	kind Kind

	val  float64
	name string
	prop Property
	fn   Func

	args []*Node
}

// Kind identifies the variant of a node or the operation an Operator
// executes.
type Kind int8

const (
	KindNone Kind = iota

	KindNum  // constant value
	KindName // variable lookup
	KindProp // external property lookup
	KindCall // named function applied to args
	KindCond // args[0] ? args[1] : args[2]

	KindPos // +x
	KindNeg // -x
	KindNot // !x

	KindAdd // x + y
	KindSub // x - y
	KindMul // x * y
	KindDiv // x / y
	KindMod // x % y
	KindPow // x ^ y
	KindEq  // x == y
	KindNe  // x != y
	KindGt  // x > y
	KindLt  // x < y
	KindGe  // x >= y
	KindLe  // x <= y
	KindOr  // x || y
	KindAnd // x && y

	kindCount
)

var kindNames = [kindCount]string{
	KindNone: "None",
	KindNum:  "Num",
	KindName: "Name",
	KindProp: "Prop",
	KindCall: "Call",
	KindCond: "Cond",
	KindPos:  "Pos",
	KindNeg:  "Neg",
	KindNot:  "Not",
	KindAdd:  "Add",
	KindSub:  "Sub",
	KindMul:  "Mul",
	KindDiv:  "Div",
	KindMod:  "Mod",
	KindPow:  "Pow",
	KindEq:   "Eq",
	KindNe:   "Ne",
	KindGt:   "Gt",
	KindLt:   "Lt",
	KindGe:   "Ge",
	KindLe:   "Le",
	KindOr:   "Or",
	KindAnd:  "And",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Unary reports whether k is a unary operator.
func (k Kind) Unary() bool {
	return KindPos <= k && k <= KindNot
}

// Binary reports whether k is a binary operator.
func (k Kind) Binary() bool {
	return KindAdd <= k && k <= KindAnd
}

// symbol is the operator text for a unary or binary kind.
func (k Kind) symbol() string {
	switch k {
	case KindPos, KindAdd:
		return "+"
	case KindNeg, KindSub:
		return "-"
	case KindNot:
		return "!"
	case KindMul:
		return "*"
	case KindDiv:
		return "/"
	case KindMod:
		return "%"
	case KindPow:
		return "^"
	case KindEq:
		return "=="
	case KindNe:
		return "!="
	case KindGt:
		return ">"
	case KindLt:
		return "<"
	case KindGe:
		return ">="
	case KindLe:
		return "<="
	case KindOr:
		return "||"
	case KindAnd:
		return "&&"
	default:
		return "?" + k.String() + "?"
	}
}

// Property names an external quantity of the surrounding circuit, such as
// the voltage V(out) or the current I(V1).
type Property struct {
	// Kind is the property name before the argument list, e.g. "V".
	Kind string
	// Args are the names inside the argument list.
	Args []string
}

func (p Property) String() string {
	return p.Kind + "(" + strings.Join(p.Args, ",") + ")"
}

// Const creates a constant node.
func Const(v float64) *Node {
	return &Node{kind: KindNum, val: v}
}

// Var creates a variable node.
func Var(name string) *Node {
	return &Node{kind: KindName, name: name}
}

// Prop creates a property node. The argument names are copied.
func Prop(kind string, args ...string) *Node {
	p := Property{Kind: kind, Args: append([]string(nil), args...)}
	return &Node{kind: KindProp, name: p.String(), prop: p}
}

// Unary creates a unary operator node. Panics if op is not a unary kind.
func Unary(op Kind, x *Node) *Node {
	if !op.Unary() {
		panic("behavioral: " + op.String() + " is not a unary operator")
	}
	return &Node{kind: op, args: []*Node{x}}
}

// Binary creates a binary operator node. Panics if op is not a binary kind.
func Binary(op Kind, x, y *Node) *Node {
	if !op.Binary() {
		panic("behavioral: " + op.String() + " is not a binary operator")
	}
	return &Node{kind: op, args: []*Node{x, y}}
}

// Cond creates a conditional node evaluating to then if cond is nonzero and
// to els otherwise.
func Cond(cond, then, els *Node) *Node {
	return &Node{kind: KindCond, args: []*Node{cond, then, els}}
}

// Call creates a call of the function with the given name. The function is
// resolved when the tree is differentiated or built.
func Call(name string, args ...*Node) *Node {
	return &Node{kind: KindCall, name: name, args: append([]*Node(nil), args...)}
}

// CallFunc creates a call node bound to a value function. A Builder calls fn
// directly rather than looking up name.
func CallFunc(name string, fn Func, args ...*Node) *Node {
	n := Call(name, args...)
	n.fn = fn
	return n
}

// Kind returns the node's variant.
func (n *Node) Kind() Kind {
	return n.kind
}

// Value returns the value of a constant node.
func (n *Node) Value() (float64, bool) {
	return n.val, n.kind == KindNum
}

// Name returns the variable, property, or function name of the node.
func (n *Node) Name() string {
	return n.name
}

// Property returns the property a property node refers to.
func (n *Node) Property() Property {
	return n.prop
}

// Args returns the node's operands.
func (n *Node) Args() []*Node {
	return append([]*Node(nil), n.args...)
}

// Vars returns the sorted names of the variables used in the tree.
func (n *Node) Vars() []string {
	return n.collect(KindName)
}

// Properties returns the sorted names of the properties used in the tree,
// e.g. "V(out)".
func (n *Node) Properties() []string {
	return n.collect(KindProp)
}

func (n *Node) collect(k Kind) []string {
	seen := make(map[string]bool)
	var walk func(*Node)
	walk = func(n *Node) {
		if n.kind == k {
			seen[n.name] = true
		}
		for _, a := range n.args {
			walk(a)
		}
	}
	walk(n)
	r := make([]string, 0, len(seen))
	for name := range seen {
		r = append(r, name)
	}
	sort.Strings(r)
	return r
}

// String creates a string representation of the tree, with alternating round
// and square brackets grouping each term.
func (n *Node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *Node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	switch n.kind {
	case KindNum:
		b.WriteString(strconv.FormatFloat(n.val, 'g', -1, 64))
		return
	case KindName, KindProp:
		b.WriteString(n.name)
		return
	case KindCall:
		b.WriteString(n.name)
		b.WriteByte(l)
		for i, a := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, !square)
		}
		b.WriteByte(r)
		return
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch {
	case n.kind == KindCond:
		n.args[0].fmt(b, !square)
		b.WriteString(" ? ")
		n.args[1].fmt(b, !square)
		b.WriteString(" : ")
		n.args[2].fmt(b, !square)
	case n.kind.Unary():
		b.WriteString(n.kind.symbol())
		n.args[0].fmt(b, !square)
	case n.kind.Binary():
		n.args[0].fmt(b, !square)
		b.WriteString(" " + n.kind.symbol() + " ")
		n.args[1].fmt(b, !square)
	default:
		// Invalid nodes use invalid characters.
		b.WriteString("$" + n.kind.String() + "$")
	}
}

// Tree renders the syntax tree with one node per line.
func (n *Node) Tree() string {
	t := treeprint.NewWithRoot(n.label())
	for _, a := range n.args {
		a.branch(t)
	}
	return t.String()
}

func (n *Node) branch(t treeprint.Tree) {
	if len(n.args) == 0 {
		t.AddNode(n.label())
		return
	}
	s := t.AddBranch(n.label())
	for _, a := range n.args {
		a.branch(s)
	}
}

func (n *Node) label() string {
	switch {
	case n.kind == KindNum:
		return strconv.FormatFloat(n.val, 'g', -1, 64)
	case n.kind == KindName, n.kind == KindProp:
		return n.name
	case n.kind == KindCall:
		return n.name + "()"
	case n.kind == KindCond:
		return "?:"
	case n.kind.Unary(), n.kind.Binary():
		return n.kind.symbol()
	default:
		return n.kind.String()
	}
}

// Operator describes an operation for a Listener to execute on the operands
// at the top of its stack.
type Operator struct {
	// Kind is the operation. It is never KindNum, KindName, or KindProp.
	Kind Kind
	// Name is the function name for KindCall.
	Name string
	// Args is the number of arguments for KindCall.
	Args int
	// Fn is the value function bound to a KindCall, if any.
	Fn Func
}

// Arity returns the number of operands the operator consumes.
func (op Operator) Arity() int {
	switch {
	case op.Kind == KindCall:
		return op.Args
	case op.Kind == KindCond:
		return 3
	case op.Kind.Unary():
		return 1
	case op.Kind.Binary():
		return 2
	default:
		return 0
	}
}

func (op Operator) String() string {
	if op.Kind == KindCall {
		return op.Name + "/" + strconv.Itoa(op.Args)
	}
	if op.Kind == KindCond {
		return "?:"
	}
	return op.Kind.symbol()
}

// Listener receives the notifications of an operator-precedence engine, in
// postfix order. Each method may fail, which aborts the expression.
type Listener interface {
	PushLiteral(v float64) error
	PushVariable(name string) error
	PushProperty(p Property) error
	ExecuteOperator(op Operator) error
}

// Walk sends the postfix notification sequence for the tree rooted at n to
// l. It stops at the first error. A nil node or one of an invalid kind, such
// as the zero Node, is a *NodeError.
func Walk(n *Node, l Listener) error {
	if n == nil {
		return &NodeError{}
	}
	if n.kind <= KindNone || n.kind >= kindCount {
		return &NodeError{Kind: n.kind}
	}
	switch n.kind {
	case KindNum:
		return l.PushLiteral(n.val)
	case KindName:
		return l.PushVariable(n.name)
	case KindProp:
		return l.PushProperty(n.prop)
	}
	for _, a := range n.args {
		if err := Walk(a, l); err != nil {
			return err
		}
	}
	op := Operator{Kind: n.kind}
	if n.kind == KindCall {
		op.Name = n.name
		op.Args = len(n.args)
		op.Fn = n.fn
	}
	return l.ExecuteOperator(op)
}

// NodeError is an error indicating a nil node or a node of an invalid kind
// in a tree.
type NodeError struct {
	// Kind is the kind of the node. It is KindNone for a nil node.
	Kind Kind
}

func (err *NodeError) Error() string {
	return "invalid expression node of kind " + err.Kind.String()
}
