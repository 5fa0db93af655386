// Command unordered must not compile: uuid.UUID and bool have no ordering.
package main

import (
	"github.com/google/uuid"

	"github.com/roach88/tpredicate/internal/predicate"
	"github.com/roach88/tpredicate/internal/staff"
)

func main() {
	_ = predicate.Lt(staff.ID, uuid.Nil)
	_ = predicate.Ge(staff.Working, true)
}
