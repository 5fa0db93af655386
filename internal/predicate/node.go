package predicate

// Node is an expression tree node.
//
// This is a sealed interface - only *Comparison and *Compound implement it.
// Backends can therefore switch exhaustively:
//
//	switch n := node.(type) {
//	case *predicate.Comparison:
//	    // field OP operand
//	case *predicate.Compound:
//	    // AND / OR / NOT over n.Children()
//	}
//
// Nodes are immutable once built and never reference their parents, so a
// tree is acyclic and safe to share between goroutines.
type Node interface {
	node() // Marker method - seals interface to this package
}

// Operand is the literal side of a comparison. An absent operand means
// "compare against no value".
type Operand struct {
	value   any
	present bool
}

// Value returns the literal and whether it is present.
func (o Operand) Value() (any, bool) { return o.value, o.present }

// IsPresent reports whether a literal was supplied.
func (o Operand) IsPresent() bool { return o.present }

// Comparison is a leaf node: field OP operand.
type Comparison struct {
	field   Path
	op      Op
	operand Operand
}

func (*Comparison) node() {}

// Field returns the compared field.
func (c *Comparison) Field() Path { return c.field }

// Op returns the comparison operator.
func (c *Comparison) Op() Op { return c.op }

// Operand returns the literal side.
func (c *Comparison) Operand() Operand { return c.operand }

// Compound is a boolean combination of child nodes.
// KindNot has exactly one child; KindAnd and KindOr have two.
type Compound struct {
	kind     Kind
	children []Node
}

func (*Compound) node() {}

// Kind returns the connective.
func (c *Compound) Kind() Kind { return c.kind }

// Children returns the child nodes in insertion order.
// The returned slice is a copy.
func (c *Compound) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// Len returns the number of children.
func (c *Compound) Len() int { return len(c.children) }

// Child returns the i-th child.
func (c *Compound) Child(i int) Node { return c.children[i] }
