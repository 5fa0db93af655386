package predicate

import (
	"fmt"
	"reflect"
)

// Path identifies a field of an entity type together with its value type.
//
// Path is comparable and is the identity of a Key: two keys with the same
// Path refer to the same field. Entity and Type are Go type names as
// reported by reflect (e.g. "staff.Employee", "uuid.UUID").
type Path struct {
	Entity   string `json:"entity"`
	Field    string `json:"field"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable,omitempty"`
}

// String renders the path as Entity.Field.
func (p Path) String() string {
	return p.Entity + "." + p.Field
}

// Key is a typed accessor for field Name of entity E whose values have type V.
//
// Keys are declared once by the entity model and shared freely; they are
// immutable. A nullable key may report that the field holds no value.
//
// V must be a concrete type. An interface V would let Eq compile against
// dynamic values such as slices or maps that panic under ==, so the
// constructors reject it.
type Key[E, V any] struct {
	path   Path
	lookup func(E) (V, bool)
}

// NewKey declares a non-nullable field accessor.
// Panics if name is empty, get is nil or V is an interface type.
func NewKey[E, V any](name string, get func(E) V) Key[E, V] {
	if get == nil {
		panic("predicate: NewKey called with nil getter")
	}
	return Key[E, V]{
		path: newPath[E, V](name, false),
		lookup: func(e E) (V, bool) {
			return get(e), true
		},
	}
}

// NewNullableKey declares an accessor for a field that may hold no value.
// lookup reports false when the field is absent.
// Panics if name is empty, lookup is nil or V is an interface type.
func NewNullableKey[E, V any](name string, lookup func(E) (V, bool)) Key[E, V] {
	if lookup == nil {
		panic("predicate: NewNullableKey called with nil lookup")
	}
	return Key[E, V]{
		path:   newPath[E, V](name, true),
		lookup: lookup,
	}
}

func newPath[E, V any](name string, nullable bool) Path {
	if name == "" {
		panic(fmt.Sprintf("predicate: empty field name for %s", reflect.TypeOf((*E)(nil)).Elem()))
	}
	if vt := reflect.TypeOf((*V)(nil)).Elem(); vt.Kind() == reflect.Interface {
		panic(fmt.Sprintf("predicate: field %s.%s has interface type %s", reflect.TypeOf((*E)(nil)).Elem(), name, vt))
	}
	return Path{
		Entity:   reflect.TypeOf((*E)(nil)).Elem().String(),
		Field:    name,
		Type:     reflect.TypeOf((*V)(nil)).Elem().String(),
		Nullable: nullable,
	}
}

// Name returns the field name.
func (k Key[E, V]) Name() string { return k.path.Field }

// Path returns the comparable identity of the key.
func (k Key[E, V]) Path() Path { return k.path }

// Nullable reports whether the field may hold no value.
func (k Key[E, V]) Nullable() bool { return k.path.Nullable }

// Lookup reads the field from e.
func (k Key[E, V]) Lookup(e E) (V, bool) { return k.lookup(e) }

// Equal reports whether k and other refer to the same field.
func (k Key[E, V]) Equal(other Key[E, V]) bool { return k.path == other.path }
