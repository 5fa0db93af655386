package predicate

import "fmt"

// Op is a comparison operator.
type Op uint8

const (
	// OpEq checks if the field is equal to the operand.
	OpEq Op = iota
	// OpNe checks if the field is not equal to the operand.
	OpNe
	// OpLt checks if the field is strictly less than the operand.
	OpLt
	// OpLe checks if the field is less than or equal to the operand.
	OpLe
	// OpGt checks if the field is strictly greater than the operand.
	OpGt
	// OpGe checks if the field is greater than or equal to the operand.
	OpGe
)

var opSymbols = [...]string{
	OpEq: "==",
	OpNe: "!=",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

var opNames = [...]string{
	OpEq: "eq",
	OpNe: "ne",
	OpLt: "lt",
	OpLe: "le",
	OpGt: "gt",
	OpGe: "ge",
}

// String returns the infix symbol of the operator.
func (o Op) String() string {
	if int(o) < len(opSymbols) {
		return opSymbols[o]
	}
	return fmt.Sprintf("Op(%d)", uint8(o))
}

// Name returns the short mnemonic used in filter documents ("eq", "lt", ...).
func (o Op) Name() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op%d", uint8(o))
}

// Ordered reports whether the operator needs an ordered value type.
func (o Op) Ordered() bool {
	return o >= OpLt && o <= OpGe
}

// ParseOp parses an operator mnemonic or symbol.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if s == name || s == opSymbols[i] {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown comparison operator %q", s)
}

// Kind is the boolean connective of a Compound node.
type Kind uint8

const (
	// KindAnd is satisfied when both children are.
	KindAnd Kind = iota
	// KindOr is satisfied when at least one child is.
	KindOr
	// KindNot inverts its single child.
	KindNot
)

// String returns the SQL-style keyword of the connective.
func (k Kind) String() string {
	switch k {
	case KindAnd:
		return "AND"
	case KindOr:
		return "OR"
	case KindNot:
		return "NOT"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}
