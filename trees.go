package behavioral

// Trees is the symbolic Algebra. Its payloads are expression trees that can
// be inspected, printed, and compiled later with a Builder. Arithmetic on two
// constants other than division and exponentiation is folded, since those
// two depend on the fudge factor of the eventual Builder.
type Trees struct{}

var _ Algebra[*Node] = Trees{}

// Const creates a constant node.
func (Trees) Const(v float64) *Node {
	return Const(v)
}

// Unary creates a unary operator node.
func (Trees) Unary(op Kind, x *Node) *Node {
	switch op {
	case KindPos:
		return x
	case KindNeg:
		if v, ok := x.Value(); ok {
			return Const(-v)
		}
		if x.kind == KindNeg {
			return x.args[0]
		}
	}
	return Unary(op, x)
}

// Binary creates a binary operator node.
func (Trees) Binary(op Kind, x, y *Node) *Node {
	u, uok := x.Value()
	v, vok := y.Value()
	if uok && vok {
		switch op {
		case KindAdd:
			return Const(u + v)
		case KindSub:
			return Const(u - v)
		case KindMul:
			return Const(u * v)
		}
	}
	return Binary(op, x, y)
}

// Cond creates a conditional node.
func (Trees) Cond(cond, then, els *Node) *Node {
	return Cond(cond, then, els)
}

// Call creates a call node bound to fn.
func (Trees) Call(name string, fn Func, args ...*Node) *Node {
	return CallFunc(name, fn, args...)
}
