package predicate

import "fmt"

// Visitor is the traversal contract for backends that translate an
// expression tree into another form.
//
// Fold calls VisitCompound after all children have been visited, passing
// their results in child order.
type Visitor[R any] interface {
	VisitComparison(c *Comparison) (R, error)
	VisitCompound(c *Compound, children []R) (R, error)
}

// Fold walks n bottom-up with v and returns the result for the root.
// The first error returned by v aborts the traversal.
func Fold[R any](n Node, v Visitor[R]) (R, error) {
	var zero R
	switch node := n.(type) {
	case *Comparison:
		return v.VisitComparison(node)
	case *Compound:
		results := make([]R, len(node.children))
		for i, child := range node.children {
			r, err := Fold(child, v)
			if err != nil {
				return zero, err
			}
			results[i] = r
		}
		return v.VisitCompound(node, results)
	case nil:
		return zero, fmt.Errorf("nil node")
	default:
		return zero, fmt.Errorf("unsupported node type: %T", n)
	}
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the children of the current node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if c, ok := n.(*Compound); ok {
		for _, child := range c.children {
			Walk(child, fn)
		}
	}
}

// Fields returns the distinct fields referenced by n in first-use order.
func Fields(n Node) []Path {
	seen := make(map[Path]bool)
	var out []Path
	Walk(n, func(node Node) bool {
		if c, ok := node.(*Comparison); ok && !seen[c.field] {
			seen[c.field] = true
			out = append(out, c.field)
		}
		return true
	})
	return out
}

// Equal reports whether a and b are structurally equal: same shape, same
// connectives, and comparisons over the same field, operator and operand.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Comparison:
		y, ok := b.(*Comparison)
		if !ok {
			return false
		}
		return x.field == y.field && x.op == y.op && x.operand == y.operand
	case *Compound:
		y, ok := b.(*Compound)
		if !ok || x.kind != y.kind || len(x.children) != len(y.children) {
			return false
		}
		for i := range x.children {
			if !Equal(x.children[i], y.children[i]) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}
