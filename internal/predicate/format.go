package predicate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Format renders n in infix form, e.g.
//
//	(experience >= 1 AND working == true)
//
// String literals are quoted, absent operands print as nil. Format is meant
// for logs and diagnostics; use a backend for anything that is parsed.
func Format(n Node) string {
	if n == nil {
		return "<nil>"
	}
	s, err := Fold[string](n, formatter{})
	if err != nil {
		return "<invalid: " + err.Error() + ">"
	}
	return s
}

type formatter struct{}

func (formatter) VisitComparison(c *Comparison) (string, error) {
	return c.field.Field + " " + c.op.String() + " " + formatOperand(c.operand), nil
}

func (formatter) VisitCompound(c *Compound, children []string) (string, error) {
	if c.kind == KindNot {
		if inner, ok := c.children[0].(*Compound); ok && inner.kind != KindNot {
			return "NOT " + children[0], nil
		}
		return "NOT (" + children[0] + ")", nil
	}
	return "(" + strings.Join(children, " "+c.kind.String()+" ") + ")", nil
}

func formatOperand(o Operand) string {
	v, ok := o.Value()
	if !ok {
		return "nil"
	}
	if s, ok := v.(fmt.Stringer); ok {
		return strconv.Quote(s.String())
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return strconv.Quote(rv.String())
	}
	return fmt.Sprintf("%v", v)
}
