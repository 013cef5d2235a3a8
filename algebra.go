package behavioral

// Algebra is the set of elementary operations on a payload kind. The
// operations on Derivatives are written once in terms of an Algebra and work
// for any payload: Trees builds expression nodes for later compilation, and
// Closures builds functions that are directly executable.
//
// Implementations must not modify their operands.
type Algebra[T any] interface {
	// Const creates a payload with a constant value.
	Const(v float64) T
	// Unary applies a unary operator: KindPos, KindNeg, or KindNot.
	Unary(op Kind, x T) T
	// Binary applies a binary operator. Comparisons and logical operators
	// produce 1 for true and 0 for false.
	Binary(op Kind, x, y T) T
	// Cond selects then if cond is nonzero and els otherwise.
	Cond(cond, then, els T) T
	// Call applies a value function. fn is never nil.
	Call(name string, fn Func, args ...T) T
}

// Add adds two vectors. An absent slot is the additive identity.
func Add[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	r := withLen[T](max(a.Len(), b.Len()))
	for i := range r.slots {
		x, xok := a.At(i)
		y, yok := b.At(i)
		switch {
		case xok && yok:
			r.Set(i, alg.Binary(KindAdd, x, y))
		case xok:
			r.Set(i, x)
		case yok:
			r.Set(i, y)
		}
	}
	return r
}

// Subtract subtracts b from a.
func Subtract[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	r := withLen[T](max(a.Len(), b.Len()))
	for i := range r.slots {
		x, xok := a.At(i)
		y, yok := b.At(i)
		switch {
		case xok && yok:
			r.Set(i, alg.Binary(KindSub, x, y))
		case xok:
			r.Set(i, x)
		case yok:
			r.Set(i, alg.Unary(KindNeg, y))
		}
	}
	return r
}

// Multiply multiplies two vectors using the product rule. If either value is
// absent, so is the entire product.
func Multiply[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	a0, aok := a.At(0)
	b0, bok := b.At(0)
	if !aok || !bok {
		return Derivatives[T]{}
	}
	r := withLen[T](max(a.Len(), b.Len()))
	r.Set(0, alg.Binary(KindMul, a0, b0))
	for i := 1; i < r.Len(); i++ {
		x, xok := a.At(i)
		y, yok := b.At(i)
		switch {
		case xok && yok:
			// (fg)' = fg' + f'g
			r.Set(i, alg.Binary(KindAdd, alg.Binary(KindMul, a0, y), alg.Binary(KindMul, x, b0)))
		case xok:
			r.Set(i, alg.Binary(KindMul, x, b0))
		case yok:
			r.Set(i, alg.Binary(KindMul, a0, y))
		}
	}
	return r
}

// Divide divides a by b using the quotient rule. An absent dividend gives an
// absent result. An absent divisor is a division by a structural zero and
// results in a *ZeroError.
func Divide[T any](alg Algebra[T], a, b Derivatives[T]) (Derivatives[T], error) {
	a0, aok := a.At(0)
	if !aok {
		return Derivatives[T]{}, nil
	}
	b0, bok := b.At(0)
	if !bok {
		return Derivatives[T]{}, &ZeroError{Op: "/"}
	}
	r := withLen[T](max(a.Len(), b.Len()))
	r.Set(0, alg.Binary(KindDiv, a0, b0))
	var sq T
	haveSq := false
	for i := 1; i < r.Len(); i++ {
		x, xok := a.At(i)
		y, yok := b.At(i)
		if yok && !haveSq {
			sq, haveSq = alg.Call("Square", fnSquare, b0), true
		}
		switch {
		case xok && yok:
			// (f/g)' = (f'g - fg') / g²
			n := alg.Binary(KindSub, alg.Binary(KindMul, x, b0), alg.Binary(KindMul, a0, y))
			r.Set(i, alg.Binary(KindDiv, n, sq))
		case xok:
			r.Set(i, alg.Binary(KindDiv, x, b0))
		case yok:
			n := alg.Unary(KindNeg, alg.Binary(KindMul, a0, y))
			r.Set(i, alg.Binary(KindDiv, n, sq))
		}
	}
	return r, nil
}

// Pow raises a to the power b. With the exponent absent, the result is one,
// including the degenerate case 0^0. An absent base is zero.
func Pow[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	a0, aok := a.At(0)
	b0, bok := b.At(0)
	if !bok {
		return Value(alg.Const(1))
	}
	base := a0
	if !aok {
		base = alg.Const(0)
	}
	r := withLen[T](max(a.Len(), b.Len()))
	r.Set(0, alg.Binary(KindPow, base, b0))
	abs := base
	if aok {
		abs = alg.Call("Abs", fnAbs, a0)
	}
	var dbase, dexp T
	haveBase, haveExp := false, false
	for i := 1; i < r.Len(); i++ {
		x, xok := a.At(i)
		y, yok := b.At(i)
		var t T
		if xok {
			// (f^b)' = b f^(b-1) f'
			if !haveBase {
				dbase = alg.Binary(KindPow, abs, alg.Binary(KindSub, b0, alg.Const(1)))
				haveBase = true
			}
			t = alg.Binary(KindMul, b0, alg.Binary(KindMul, x, dbase))
		}
		if yok {
			// (f^g)' = f^g ln(f) g' for the exponent's part
			if !haveExp {
				dexp = alg.Binary(KindMul, alg.Binary(KindPow, abs, b0), alg.Call("Log", fnLog, abs))
				haveExp = true
			}
			u := alg.Binary(KindMul, dexp, y)
			if xok {
				t = alg.Binary(KindAdd, t, u)
			} else {
				t = u
			}
		}
		if xok || yok {
			r.Set(i, t)
		}
	}
	return r
}

// Modulo computes the remainder of a divided by b. The result has no
// derivatives. An absent divisor results in a *ZeroError.
func Modulo[T any](alg Algebra[T], a, b Derivatives[T]) (Derivatives[T], error) {
	a0, aok := a.At(0)
	if !aok {
		return Derivatives[T]{}, nil
	}
	b0, bok := b.At(0)
	if !bok {
		return Derivatives[T]{}, &ZeroError{Op: "%"}
	}
	return Value(alg.Binary(KindMod, a0, b0)), nil
}

// compare applies a comparison to the values of a and b, treating absent
// values as zero. Comparisons have no derivatives.
func compare[T any](alg Algebra[T], op Kind, a, b Derivatives[T]) Derivatives[T] {
	a0, aok := a.At(0)
	b0, bok := b.At(0)
	if !aok && !bok {
		switch op {
		case KindEq, KindGe, KindLe:
			return Value(alg.Const(1))
		default:
			return Derivatives[T]{}
		}
	}
	if !aok {
		a0 = alg.Const(0)
	}
	if !bok {
		b0 = alg.Const(0)
	}
	return Value(alg.Binary(op, a0, b0))
}

// Equal compares the values of a and b for equality within tolerance.
func Equal[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindEq, a, b)
}

// NotEqual compares the values of a and b for inequality.
func NotEqual[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindNe, a, b)
}

// GreaterThan compares whether a's value exceeds b's.
func GreaterThan[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindGt, a, b)
}

// LessThan compares whether a's value is below b's.
func LessThan[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindLt, a, b)
}

// GreaterOrEqual compares whether a's value is at least b's.
func GreaterOrEqual[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindGe, a, b)
}

// LessOrEqual compares whether a's value is at most b's.
func LessOrEqual[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	return compare(alg, KindLe, a, b)
}

// Or is 1 if either value is nonzero and 0 otherwise.
func Or[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	a0, aok := a.At(0)
	b0, bok := b.At(0)
	switch {
	case !aok && !bok:
		return Derivatives[T]{}
	case !aok:
		a0 = alg.Const(0)
	case !bok:
		b0 = alg.Const(0)
	}
	return Value(alg.Binary(KindOr, a0, b0))
}

// And is 1 if both values are nonzero and 0 otherwise.
func And[T any](alg Algebra[T], a, b Derivatives[T]) Derivatives[T] {
	a0, aok := a.At(0)
	b0, bok := b.At(0)
	if !aok || !bok {
		return Derivatives[T]{}
	}
	return Value(alg.Binary(KindAnd, a0, b0))
}

// IfThenElse selects then where cond's value is nonzero and els otherwise,
// slot by slot. An absent condition is statically false, so the result is
// els itself.
func IfThenElse[T any](alg Algebra[T], cond, then, els Derivatives[T]) Derivatives[T] {
	c0, ok := cond.At(0)
	if !ok {
		return els
	}
	r := withLen[T](max(then.Len(), els.Len()))
	var zero T
	haveZero := false
	for i := range r.slots {
		x, xok := then.At(i)
		y, yok := els.At(i)
		if !xok && !yok {
			continue
		}
		if !xok || !yok {
			if !haveZero {
				zero, haveZero = alg.Const(0), true
			}
			if !xok {
				x = zero
			} else {
				y = zero
			}
		}
		r.Set(i, alg.Cond(c0, x, y))
	}
	return r
}

// Negate negates every present slot.
func Negate[T any](alg Algebra[T], a Derivatives[T]) Derivatives[T] {
	r := withLen[T](a.Len())
	for i := range r.slots {
		if x, ok := a.At(i); ok {
			r.Set(i, alg.Unary(KindNeg, x))
		}
	}
	return r
}

// Not is 1 if a's value is absent or zero and 0 otherwise.
func Not[T any](alg Algebra[T], a Derivatives[T]) Derivatives[T] {
	a0, ok := a.At(0)
	if !ok {
		return Value(alg.Const(1))
	}
	return Value(alg.Unary(KindNot, a0))
}

// ZeroError is an error indicating an operation whose right operand is
// structurally zero, such as dividing by an expression that can only be 0.
type ZeroError struct {
	// Op is the operator.
	Op string
}

func (err *ZeroError) Error() string {
	return "invalid operation " + err.Op + " by structural zero"
}
