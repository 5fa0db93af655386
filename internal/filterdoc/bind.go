package filterdoc

import (
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tpredicate/internal/predicate"
)

// Bind turns doc into an expression over E.
//
// Clauses whose param is missing from params bind to absent, and absent
// clauses are absorbed by their parents with the AndOpt/OrOpt/NotOpt
// rules. A document without a where clause, or whose clauses are all
// absent, yields an absent expression: no constraint.
//
// A parameter value of "null" is the absent literal. Values for string
// fields bind verbatim, so an empty value binds to "". Values for other
// fields are read as plain YAML scalars, so "3" binds to an int field as
// 3; an empty value is not a valid literal for them.
func Bind[E any](s *Schema[E], doc *Document, params map[string]string) (predicate.Optional[predicate.Expr[E]], error) {
	none := predicate.None[predicate.Expr[E]]()
	if doc.Entity != s.entity {
		return none, &BindError{
			Code:    ErrCodeUnknownEntity,
			Message: fmt.Sprintf("unknown entity %q (expected %q)", doc.Entity, s.entity),
		}
	}
	if doc.Where == nil {
		return none, nil
	}

	b := binder[E]{schema: s, params: params}
	x, err := b.clause(doc.Where)
	if err != nil {
		return none, err
	}
	slog.Debug("filter bound",
		"entity", doc.Entity,
		"present", x.IsPresent(),
		"params", len(params))
	return x, nil
}

type binder[E any] struct {
	schema *Schema[E]
	params map[string]string
}

func (b binder[E]) clause(c *Clause) (predicate.Optional[predicate.Expr[E]], error) {
	none := predicate.None[predicate.Expr[E]]()
	if c == nil {
		return none, &BindError{Code: ErrCodeInvalidClause, Message: "empty clause"}
	}

	forms := 0
	if c.Field != "" || c.Op != "" || c.HasValue() || c.Param != "" {
		forms++
	}
	if c.And != nil {
		forms++
	}
	if c.Or != nil {
		forms++
	}
	if c.Not != nil {
		forms++
	}
	if forms != 1 {
		return none, &BindError{
			Code:    ErrCodeInvalidClause,
			Line:    c.Line,
			Message: "clause must be exactly one of a comparison, and, or, not",
		}
	}

	switch {
	case c.And != nil:
		return b.fold(c, c.And, predicate.AndOpt[E])
	case c.Or != nil:
		return b.fold(c, c.Or, predicate.OrOpt[E])
	case c.Not != nil:
		inner, err := b.clause(c.Not)
		if err != nil {
			return none, err
		}
		return predicate.NotOpt(inner), nil
	default:
		return b.comparison(c)
	}
}

// fold combines children left to right: ((c0 op c1) op c2) ...
func (b binder[E]) fold(c *Clause, children []*Clause, join func(x, y predicate.Optional[predicate.Expr[E]]) predicate.Optional[predicate.Expr[E]]) (predicate.Optional[predicate.Expr[E]], error) {
	none := predicate.None[predicate.Expr[E]]()
	if len(children) < 2 {
		return none, &BindError{
			Code:    ErrCodeInvalidClause,
			Line:    c.Line,
			Message: fmt.Sprintf("and/or needs at least two clauses, got %d", len(children)),
		}
	}

	acc, err := b.clause(children[0])
	if err != nil {
		return none, err
	}
	for _, child := range children[1:] {
		next, err := b.clause(child)
		if err != nil {
			return none, err
		}
		acc = join(acc, next)
	}
	return acc, nil
}

func (b binder[E]) comparison(c *Clause) (predicate.Optional[predicate.Expr[E]], error) {
	none := predicate.None[predicate.Expr[E]]()
	if c.Field == "" || c.Op == "" {
		return none, &BindError{Code: ErrCodeInvalidClause, Field: c.Field, Line: c.Line, Message: "comparison needs field and op"}
	}
	if c.HasValue() == (c.Param != "") {
		return none, &BindError{Code: ErrCodeInvalidClause, Field: c.Field, Line: c.Line, Message: "comparison needs exactly one of value or param"}
	}

	f, ok := b.schema.fields[c.Field]
	if !ok {
		return none, &BindError{
			Code:    ErrCodeUnknownField,
			Field:   c.Field,
			Line:    c.Line,
			Message: fmt.Sprintf("no such field on %s", b.schema.entity),
		}
	}

	op, err := predicate.ParseOp(c.Op)
	if err != nil {
		return none, &BindError{Code: ErrCodeUnsupportedOperator, Field: c.Field, Line: c.Line, Message: err.Error()}
	}
	if op.Ordered() && !f.ordered {
		return none, &BindError{
			Code:    ErrCodeUnsupportedOperator,
			Field:   c.Field,
			Line:    c.Line,
			Message: fmt.Sprintf("%s is not ordered; %s is not supported", f.path.Type, op.Name()),
		}
	}

	lit := &c.Value
	if c.Param != "" {
		raw, supplied := b.params[c.Param]
		if !supplied {
			return none, nil
		}
		lit = paramNode(raw, f.text)
	}

	x, err := f.build(op, lit)
	if err != nil {
		return none, &BindError{Code: ErrCodeInvalidValue, Field: c.Field, Line: c.Line, Message: err.Error()}
	}
	return predicate.Some(x), nil
}

// paramNode wraps a parameter value as a YAML scalar.
func paramNode(raw string, text bool) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: raw}
	switch {
	case raw == "null":
		n.Tag = "!!null"
	case text || raw == "":
		n.Tag = "!!str"
	}
	return n
}
