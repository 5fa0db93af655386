// Package predicate builds typed, immutable predicate expressions over
// entity fields.
//
// A Key[E, V] names field F of entity type E with value type V. Comparison
// constructors combine a key with a literal of exactly type V and produce an
// Expr[E]; the compiler rejects mismatched literals and rejects ordering
// operators on types that are not cmp.Ordered:
//
//	byName := predicate.Eq(staff.Name, "Maheshwaran")
//	senior := predicate.And(
//	    predicate.Ge(staff.Experience, 1),
//	    predicate.Eq(staff.Working, true),
//	)
//	predicate.Lt(staff.ID, id) // does not compile: uuid.UUID is not ordered
//
// # Absence
//
// Absence is a value, not an error. Literals that may be missing are passed
// as Optional[V] to the *Opt constructors, and expressions that may be
// missing are Optional[Expr[E]]. AndOpt and OrOpt reduce to the present side
// when the other is absent, so optional filter fragments can be combined
// without checks at each call site:
//
//	filter := predicate.AndOpt(
//	    predicate.Maybe(nameParam, func(n string) predicate.Expr[staff.Employee] {
//	        return predicate.Eq(staff.Name, n)
//	    }),
//	    predicate.Some(predicate.Gt(staff.Experience, 1)),
//	)
//
// Comparisons against absent values follow one rule: absent equals absent,
// and absent is never less than or greater than anything.
//
// # Traversal
//
// Expr.Node returns the sealed Node tree (*Comparison or *Compound) that
// backends translate. Fold walks it bottom-up through a Visitor; Walk
// visits it top-down. Expr.Match evaluates the predicate in memory with
// the same semantics the SQL backend in internal/querysql implements.
//
// Everything in this package is pure: constructors never fail, never block
// and never mutate their inputs.
package predicate
