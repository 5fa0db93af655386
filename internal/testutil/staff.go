package testutil

import (
	"github.com/roach88/tpredicate/internal/predicate"
	"github.com/roach88/tpredicate/internal/staff"
)

// Roster returns a fixed list of employees covering the cases filters care
// about: present and absent job titles, zero and non-zero experience, both
// employment states, and names whose byte order differs from their
// case-folded order.
//
// Ids come from a fresh DeterministicIDs, so Roster()[i].ID == IDFor(i+1).
func Roster() []staff.Employee {
	ids := NewDeterministicIDs()
	job := predicate.Some[string]
	none := predicate.None[string]()

	return []staff.Employee{
		{ID: ids.Next(), Name: "Maheshwaran", Job: job("developer"), Experience: 4, Working: true},
		{ID: ids.Next(), Name: "Priya", Job: job("tester"), Experience: 1, Working: true},
		{ID: ids.Next(), Name: "Arun", Job: none, Experience: 0, Working: false},
		{ID: ids.Next(), Name: "divya", Job: job("developer"), Experience: 7, Working: false},
		{ID: ids.Next(), Name: "Karthik", Job: job("architect"), Experience: 12, Working: true},
		{ID: ids.Next(), Name: "Zoe", Job: none, Experience: 2, Working: true},
		{ID: ids.Next(), Name: "\u00c9lodie", Job: job(""), Experience: 1, Working: false},
	}
}
