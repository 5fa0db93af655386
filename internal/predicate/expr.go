package predicate

import "cmp"

// Expr is a predicate over entities of type E.
//
// Expr pairs the untyped expression tree handed to backends (Node) with an
// in-memory evaluator derived from the same typed inputs. Values are
// immutable and safe to copy and share. The zero Expr is not a valid
// predicate; obtain one from a constructor.
type Expr[E any] struct {
	node  Node
	match func(E) bool
}

// Node returns the expression tree.
func (x Expr[E]) Node() Node { return x.node }

// IsZero reports whether x was not produced by a constructor.
func (x Expr[E]) IsZero() bool { return x.node == nil }

// Match evaluates the predicate against e.
func (x Expr[E]) Match(e E) bool { return x.match(e) }

// String renders the expression in infix form.
func (x Expr[E]) String() string { return Format(x.node) }

// And is shorthand for And(x, y).
func (x Expr[E]) And(y Expr[E]) Expr[E] { return And(x, y) }

// Or is shorthand for Or(x, y).
func (x Expr[E]) Or(y Expr[E]) Expr[E] { return Or(x, y) }

// Not is shorthand for Not(x).
func (x Expr[E]) Not() Expr[E] { return Not(x) }

// Filter returns the items matching x, preserving order.
func Filter[E any](items []E, x Expr[E]) []E {
	var out []E
	for _, item := range items {
		if x.match(item) {
			out = append(out, item)
		}
	}
	return out
}

// Eq builds field == v.
func Eq[E any, V comparable](k Key[E, V], v V) Expr[E] {
	return equality(k, OpEq, Some(v))
}

// Ne builds field != v.
func Ne[E any, V comparable](k Key[E, V], v V) Expr[E] {
	return equality(k, OpNe, Some(v))
}

// Lt builds field < v.
func Lt[E any, V cmp.Ordered](k Key[E, V], v V) Expr[E] {
	return ordering(k, OpLt, Some(v))
}

// Le builds field <= v.
func Le[E any, V cmp.Ordered](k Key[E, V], v V) Expr[E] {
	return ordering(k, OpLe, Some(v))
}

// Gt builds field > v.
func Gt[E any, V cmp.Ordered](k Key[E, V], v V) Expr[E] {
	return ordering(k, OpGt, Some(v))
}

// Ge builds field >= v.
func Ge[E any, V cmp.Ordered](k Key[E, V], v V) Expr[E] {
	return ordering(k, OpGe, Some(v))
}

// EqOpt builds field == v where v may be absent.
// An absent field equals an absent literal.
func EqOpt[E any, V comparable](k Key[E, V], v Optional[V]) Expr[E] {
	return equality(k, OpEq, v)
}

// NeOpt builds field != v where v may be absent.
func NeOpt[E any, V comparable](k Key[E, V], v Optional[V]) Expr[E] {
	return equality(k, OpNe, v)
}

// LtOpt builds field < v where v may be absent.
// Absent values are incomparable: the predicate is false whenever the
// field or the literal is absent.
func LtOpt[E any, V cmp.Ordered](k Key[E, V], v Optional[V]) Expr[E] {
	return ordering(k, OpLt, v)
}

// LeOpt builds field <= v where v may be absent.
func LeOpt[E any, V cmp.Ordered](k Key[E, V], v Optional[V]) Expr[E] {
	return ordering(k, OpLe, v)
}

// GtOpt builds field > v where v may be absent.
func GtOpt[E any, V cmp.Ordered](k Key[E, V], v Optional[V]) Expr[E] {
	return ordering(k, OpGt, v)
}

// GeOpt builds field >= v where v may be absent.
func GeOpt[E any, V cmp.Ordered](k Key[E, V], v Optional[V]) Expr[E] {
	return ordering(k, OpGe, v)
}

// IsNil builds field == nil.
func IsNil[E any, V comparable](k Key[E, V]) Expr[E] {
	return EqOpt(k, None[V]())
}

// NotNil builds field != nil.
func NotNil[E any, V comparable](k Key[E, V]) Expr[E] {
	return NeOpt(k, None[V]())
}

// IsFalse builds field == false for a boolean field.
func IsFalse[E any](k Key[E, bool]) Expr[E] {
	return Eq(k, false)
}

func equality[E any, V comparable](k Key[E, V], op Op, lit Optional[V]) Expr[E] {
	lv, lok := lit.Get()
	eq := func(e E) bool {
		fv, fok := k.lookup(e)
		if !fok || !lok {
			return fok == lok
		}
		return fv == lv
	}

	match := eq
	if op == OpNe {
		match = func(e E) bool { return !eq(e) }
	}
	return Expr[E]{node: newComparison(k.path, op, lit), match: match}
}

func ordering[E any, V cmp.Ordered](k Key[E, V], op Op, lit Optional[V]) Expr[E] {
	lv, lok := lit.Get()

	var holds func(c int) bool
	switch op {
	case OpLt:
		holds = func(c int) bool { return c < 0 }
	case OpLe:
		holds = func(c int) bool { return c <= 0 }
	case OpGt:
		holds = func(c int) bool { return c > 0 }
	default:
		holds = func(c int) bool { return c >= 0 }
	}

	match := func(e E) bool {
		if !lok {
			return false
		}
		fv, fok := k.lookup(e)
		if !fok || isNaN(fv) || isNaN(lv) {
			return false
		}
		return holds(cmp.Compare(fv, lv))
	}
	return Expr[E]{node: newComparison(k.path, op, lit), match: match}
}

func newComparison[V any](field Path, op Op, lit Optional[V]) *Comparison {
	c := &Comparison{field: field, op: op}
	if v, ok := lit.Get(); ok {
		c.operand = Operand{value: v, present: true}
	}
	return c
}

// isNaN reports whether x is a floating-point NaN. cmp.Compare orders NaN
// before every number, while SQL and Go's relational operators treat it as
// unordered.
func isNaN[T cmp.Ordered](x T) bool {
	return x != x
}
