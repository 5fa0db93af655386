package staff

import "github.com/roach88/tpredicate/internal/filterdoc"

// Entity is the entity name filter documents use for employees.
const Entity = "employee"

// FilterSchema returns the fields filter documents may reference.
// id and working accept eq/ne only.
func FilterSchema() *filterdoc.Schema[Employee] {
	s := filterdoc.NewSchema[Employee](Entity)
	filterdoc.Equatable(s, ID)
	filterdoc.Equatable(s, Working)
	filterdoc.Ordered(s, Name)
	filterdoc.Ordered(s, Job)
	filterdoc.Ordered(s, Experience)
	return s
}
