package behavioral

// Derivatives is a value and its partial derivatives with respect to a set of
// independent unknowns. Slot 0 holds the value and slot i holds the
// derivative with respect to unknown i.
//
// A slot may be absent. An absent slot means the quantity is structurally
// zero, which is different from a slot holding a payload that evaluates to
// zero: operations use absence to skip work and to detect invalid operations
// such as dividing by a literal zero. The zero Derivatives has every slot
// absent.
//
// Operations never modify their operands; every result is a new vector.
type Derivatives[T any] struct {
	slots []slot[T]
}

type slot[T any] struct {
	v  T
	ok bool
}

// Value creates a vector with slot 0 set to v and no derivatives.
func Value[T any](v T) Derivatives[T] {
	return Derivatives[T]{slots: []slot[T]{{v, true}}}
}

// Independent creates the vector for independent unknown i with value v.
// Its derivative with respect to itself is one and all others are absent.
// Panics if i < 1.
func Independent[T any](alg Algebra[T], v T, i int) Derivatives[T] {
	if i < 1 {
		panic("behavioral: independent unknowns are numbered from 1")
	}
	d := withLen[T](i + 1)
	d.Set(0, v)
	d.Set(i, alg.Const(1))
	return d
}

// withLen creates a vector with n absent slots.
func withLen[T any](n int) Derivatives[T] {
	return Derivatives[T]{slots: make([]slot[T], n)}
}

// Len returns the number of slots in d. Slots at or beyond Len are absent.
func (d Derivatives[T]) Len() int {
	return len(d.slots)
}

// At returns slot i and whether it is present.
func (d Derivatives[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(d.slots) {
		var z T
		return z, false
	}
	s := d.slots[i]
	return s.v, s.ok
}

// Has reports whether slot i is present.
func (d Derivatives[T]) Has(i int) bool {
	_, ok := d.At(i)
	return ok
}

// Set sets slot i, growing d as needed. Set must only be used while
// constructing a vector, before it is shared.
func (d *Derivatives[T]) Set(i int, v T) {
	if i >= len(d.slots) {
		s := make([]slot[T], i+1)
		copy(s, d.slots)
		d.slots = s
	}
	d.slots[i] = slot[T]{v, true}
}

// Clear makes slot i absent. Like Set, it must only be used while
// constructing a vector.
func (d *Derivatives[T]) Clear(i int) {
	if i < len(d.slots) {
		d.slots[i] = slot[T]{}
	}
}

// Clone returns a copy of d that can be modified independently.
func (d Derivatives[T]) Clone() Derivatives[T] {
	return Derivatives[T]{slots: append([]slot[T](nil), d.slots...)}
}

// Empty reports whether every slot of d is absent.
func (d Derivatives[T]) Empty() bool {
	for _, s := range d.slots {
		if s.ok {
			return false
		}
	}
	return true
}

// Map applies f to every present slot of d and returns a vector of the
// results, stopping at the first error.
func Map[T, U any](d Derivatives[T], f func(i int, v T) (U, error)) (Derivatives[U], error) {
	r := withLen[U](len(d.slots))
	for i, s := range d.slots {
		if !s.ok {
			continue
		}
		u, err := f(i, s.v)
		if err != nil {
			return Derivatives[U]{}, err
		}
		r.Set(i, u)
	}
	return r, nil
}
