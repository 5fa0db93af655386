// Package staff is a small entity model used by the CLI and the backend
// tests: employees with a name, an optional job title, years of experience
// and an employment flag.
package staff

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tpredicate/internal/predicate"
)

// Collection is the store collection holding employees.
const Collection = "employees"

// Employee is a person on staff.
type Employee struct {
	ID         uuid.UUID                  `json:"id" yaml:"id"`
	Name       string                     `json:"name" yaml:"name"`
	Job        predicate.Optional[string] `json:"job" yaml:"job"`
	Experience int                        `json:"experience" yaml:"experience"`
	Working    bool                       `json:"working" yaml:"working"`
}

// Field keys. ID and Working are equatable only; Name, Job and Experience
// are ordered.
var (
	ID = predicate.NewKey("id", func(e Employee) uuid.UUID { return e.ID })

	Name = predicate.NewKey("name", func(e Employee) string { return e.Name })

	Job = predicate.NewNullableKey("job", func(e Employee) (string, bool) { return e.Job.Get() })

	Experience = predicate.NewKey("experience", func(e Employee) int { return e.Experience })

	Working = predicate.NewKey("working", func(e Employee) bool { return e.Working })
)

// Key returns the store key of the employee.
func (e Employee) Key() string { return e.ID.String() }

// LoadFile reads employees from a YAML file holding a list of employees.
// Employees without an id get a fresh UUIDv7.
func LoadFile(path string) ([]Employee, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read employees: %w", err)
	}

	var list []Employee
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse employees %s: %w", path, err)
	}

	for i := range list {
		if list[i].ID == uuid.Nil {
			list[i].ID = uuid.Must(uuid.NewV7())
		}
	}
	return list, nil
}
