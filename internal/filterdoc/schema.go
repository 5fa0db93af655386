package filterdoc

import (
	"cmp"
	"fmt"
	"reflect"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tpredicate/internal/predicate"
)

// Schema maps the field names a document may use to typed keys of entity E.
//
// Fields are registered from Go code with Equatable or Ordered; a document
// can only reach fields registered here, and only with the operators the
// field's value type supports.
type Schema[E any] struct {
	entity string
	fields map[string]field[E]
}

// field builds comparisons for one registered key.
type field[E any] struct {
	path    predicate.Path
	ordered bool
	text    bool // string-kinded value; params bind verbatim
	build   func(op predicate.Op, lit *yaml.Node) (predicate.Expr[E], error)
}

// NewSchema creates an empty schema for documents whose entity is name.
func NewSchema[E any](name string) *Schema[E] {
	return &Schema[E]{entity: name, fields: make(map[string]field[E])}
}

// Entity returns the entity name documents must declare.
func (s *Schema[E]) Entity() string { return s.entity }

// Fields returns the registered field paths sorted by name.
func (s *Schema[E]) Fields() []predicate.Path {
	out := make([]predicate.Path, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.path)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

// Supports reports whether name is registered and accepts op.
func (s *Schema[E]) Supports(name string, op predicate.Op) bool {
	f, ok := s.fields[name]
	return ok && (f.ordered || !op.Ordered())
}

// Equatable registers k for eq and ne. It panics if the field name is
// already registered.
func Equatable[E any, V comparable](s *Schema[E], k predicate.Key[E, V]) *Schema[E] {
	s.register(k.Path(), false, isText[V](), func(op predicate.Op, lit *yaml.Node) (predicate.Expr[E], error) {
		v, err := decodeLiteral[V](lit)
		if err != nil {
			return predicate.Expr[E]{}, err
		}
		switch op {
		case predicate.OpEq:
			return predicate.EqOpt(k, v), nil
		case predicate.OpNe:
			return predicate.NeOpt(k, v), nil
		}
		return predicate.Expr[E]{}, fmt.Errorf("operator %s needs an ordered field", op.Name())
	})
	return s
}

// Ordered registers k for all six comparison operators. It panics if the
// field name is already registered.
func Ordered[E any, V cmp.Ordered](s *Schema[E], k predicate.Key[E, V]) *Schema[E] {
	s.register(k.Path(), true, isText[V](), func(op predicate.Op, lit *yaml.Node) (predicate.Expr[E], error) {
		v, err := decodeLiteral[V](lit)
		if err != nil {
			return predicate.Expr[E]{}, err
		}
		switch op {
		case predicate.OpEq:
			return predicate.EqOpt(k, v), nil
		case predicate.OpNe:
			return predicate.NeOpt(k, v), nil
		case predicate.OpLt:
			return predicate.LtOpt(k, v), nil
		case predicate.OpLe:
			return predicate.LeOpt(k, v), nil
		case predicate.OpGt:
			return predicate.GtOpt(k, v), nil
		case predicate.OpGe:
			return predicate.GeOpt(k, v), nil
		}
		return predicate.Expr[E]{}, fmt.Errorf("unknown operator %s", op)
	})
	return s
}

func (s *Schema[E]) register(p predicate.Path, ordered, text bool, build func(predicate.Op, *yaml.Node) (predicate.Expr[E], error)) {
	if _, dup := s.fields[p.Field]; dup {
		panic(fmt.Sprintf("filterdoc: field %q registered twice for %s", p.Field, s.entity))
	}
	s.fields[p.Field] = field[E]{path: p, ordered: ordered, text: text, build: build}
}

// decodeLiteral decodes a YAML scalar into V. A nil or null node is the
// absent literal. Integer fields only accept !!int scalars: yaml.v3 would
// otherwise truncate 1.5 to 1.
func decodeLiteral[V any](node *yaml.Node) (predicate.Optional[V], error) {
	if node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null") {
		return predicate.None[V](), nil
	}
	if node.Kind != yaml.ScalarNode {
		return predicate.None[V](), fmt.Errorf("expected a scalar value")
	}
	if isInteger[V]() && node.ShortTag() != "!!int" {
		return predicate.None[V](), fmt.Errorf("%q is not an integer", node.Value)
	}
	var v V
	if err := node.Decode(&v); err != nil {
		return predicate.None[V](), err
	}
	return predicate.Some(v), nil
}

func isText[V any]() bool {
	return reflect.TypeOf((*V)(nil)).Elem().Kind() == reflect.String
}

// isInteger reports whether V is an integer kind. time.Duration is
// excluded: yaml.v3 decodes it from strings such as "1m30s".
func isInteger[V any]() bool {
	t := reflect.TypeOf((*V)(nil)).Elem()
	if t == reflect.TypeOf((*time.Duration)(nil)).Elem() {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
