package predicate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/roach88/tpredicate/internal/ir"
)

// MarshalCanonical encodes n as RFC 8785 canonical JSON.
//
// The encoding is stable across processes: structurally equal trees encode
// to identical bytes. Operands carry their Go type so that 1 and "1" differ;
// floats are written as shortest decimal strings.
func MarshalCanonical(n Node) ([]byte, error) {
	v, err := Fold[ir.IRValue](n, irEncoder{})
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(v)
}

// Fingerprint returns the content address of n (hex SHA-256 of the
// canonical encoding under the expression domain).
// Trees with equal fingerprints are Equal, so it can key caches of
// translated queries and deduplicate filters.
func Fingerprint(n Node) (string, error) {
	v, err := Fold[ir.IRValue](n, irEncoder{})
	if err != nil {
		return "", err
	}
	return ir.Fingerprint(ir.DomainExpression, v)
}

type irEncoder struct{}

func (irEncoder) VisitComparison(c *Comparison) (ir.IRValue, error) {
	operand := ir.IRObject{"present": ir.IRBool(c.operand.present)}
	if v, ok := c.operand.Value(); ok {
		enc, err := encodeLiteral(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", c.field, err)
		}
		operand["type"] = ir.IRString(reflect.TypeOf(v).String())
		operand["value"] = enc
	}
	return ir.IRObject{
		"kind": ir.IRString("comparison"),
		"field": ir.IRObject{
			"entity":   ir.IRString(c.field.Entity),
			"field":    ir.IRString(c.field.Field),
			"type":     ir.IRString(c.field.Type),
			"nullable": ir.IRBool(c.field.Nullable),
		},
		"op":      ir.IRString(c.op.Name()),
		"operand": operand,
	}, nil
}

func (irEncoder) VisitCompound(c *Compound, children []ir.IRValue) (ir.IRValue, error) {
	return ir.IRObject{
		"kind":     ir.IRString(strings.ToLower(c.kind.String())),
		"children": ir.IRArray(children),
	}, nil
}

func encodeLiteral(v any) (ir.IRValue, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32:
		return ir.IRString(strconv.FormatFloat(rv.Float(), 'g', -1, 32)), nil
	case reflect.Float64:
		return ir.IRString(strconv.FormatFloat(rv.Float(), 'g', -1, 64)), nil
	}
	return ir.FromGo(v)
}
