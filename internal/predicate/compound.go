package predicate

// And builds a AND b.
//
// Nested conjunctions are kept as built: And(And(x, y), z) is a two-level
// tree, not a flat three-child node.
func And[E any](a, b Expr[E]) Expr[E] {
	am, bm := a.match, b.match
	return Expr[E]{
		node:  &Compound{kind: KindAnd, children: []Node{a.node, b.node}},
		match: func(e E) bool { return am(e) && bm(e) },
	}
}

// Or builds a OR b.
func Or[E any](a, b Expr[E]) Expr[E] {
	am, bm := a.match, b.match
	return Expr[E]{
		node:  &Compound{kind: KindOr, children: []Node{a.node, b.node}},
		match: func(e E) bool { return am(e) || bm(e) },
	}
}

// Not builds NOT a. Double negations are not eliminated.
func Not[E any](a Expr[E]) Expr[E] {
	am := a.match
	return Expr[E]{
		node:  &Compound{kind: KindNot, children: []Node{a.node}},
		match: func(e E) bool { return !am(e) },
	}
}

// AndOpt combines two possibly-absent expressions with AND.
//
// An absent side contributes no constraint: the result is the present
// side, or absent when both are absent.
func AndOpt[E any](a, b Optional[Expr[E]]) Optional[Expr[E]] {
	return combine(a, b, And[E])
}

// OrOpt combines two possibly-absent expressions with OR.
// Absence is absorbed the same way as in AndOpt.
func OrOpt[E any](a, b Optional[Expr[E]]) Optional[Expr[E]] {
	return combine(a, b, Or[E])
}

// NotOpt negates a possibly-absent expression. NOT of absent is absent.
func NotOpt[E any](a Optional[Expr[E]]) Optional[Expr[E]] {
	x, ok := a.Get()
	if !ok {
		return a
	}
	return Some(Not(x))
}

// Maybe builds an expression from v when it is present and returns absent
// otherwise. It lets callers write filter fragments for optional inputs:
//
//	byName := predicate.Maybe(nameParam, func(n string) predicate.Expr[Employee] {
//	    return predicate.Eq(staff.Name, n)
//	})
func Maybe[E, V any](v Optional[V], build func(V) Expr[E]) Optional[Expr[E]] {
	val, ok := v.Get()
	if !ok {
		return None[Expr[E]]()
	}
	return Some(build(val))
}

func combine[E any](a, b Optional[Expr[E]], join func(a, b Expr[E]) Expr[E]) Optional[Expr[E]] {
	x, xok := a.Get()
	y, yok := b.Get()
	switch {
	case xok && yok:
		return Some(join(x, y))
	case xok:
		return a
	default:
		return b
	}
}
