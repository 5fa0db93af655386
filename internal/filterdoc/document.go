package filterdoc

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Document is a parsed filter document.
//
//	entity: employee
//	where:
//	  and:
//	    - {field: experience, op: ge, value: 1}
//	    - {field: name, op: eq, param: name}
//	limit: 10
type Document struct {
	Entity string  `yaml:"entity"`
	Where  *Clause `yaml:"where,omitempty"`
	Limit  int     `yaml:"limit,omitempty"`
}

// Clause is one node of a document's where tree. Exactly one of the
// comparison form (Field/Op with Value or Param), And, Or or Not is set.
type Clause struct {
	Field string    `yaml:"field,omitempty"`
	Op    string    `yaml:"op,omitempty"`
	Value yaml.Node `yaml:"value,omitempty"` // Kind 0 when missing; !!null is the absent literal
	Param string    `yaml:"param,omitempty"`
	And   []*Clause `yaml:"and,omitempty"`
	Or    []*Clause `yaml:"or,omitempty"`
	Not   *Clause   `yaml:"not,omitempty"`

	// Line is the source line of the clause.
	Line int `yaml:"-"`
}

// UnmarshalYAML records the clause's source line.
func (c *Clause) UnmarshalYAML(node *yaml.Node) error {
	type plain Clause
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Line = node.Line
	return nil
}

// HasValue reports whether the clause carries a literal (possibly null).
func (c *Clause) HasValue() bool {
	return c.Value.Kind != 0
}

// Parse decodes and validates a filter document.
// Schema violations are returned as *BindError with ErrCodeSchemaViolation.
func Parse(data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &BindError{Code: ErrCodeSchemaViolation, Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &BindError{Code: ErrCodeSchemaViolation, Message: err.Error()}
	}
	return &doc, nil
}

// ParseFile reads and parses the filter document at path.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filter document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// validate checks raw against the #Filter definition.
func validate(raw any) error {
	if raw == nil {
		return &BindError{Code: ErrCodeSchemaViolation, Message: "empty document"}
	}

	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("filter.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile filter schema: %w", err)
	}

	value := ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return &BindError{Code: ErrCodeSchemaViolation, Message: formatCUEError(err)}
	}

	unified := schema.LookupPath(cue.ParsePath("#Filter")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &BindError{Code: ErrCodeSchemaViolation, Message: formatCUEError(err)}
	}
	return nil
}

// formatCUEError returns the first CUE error message.
func formatCUEError(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	return strings.TrimPrefix(errs[0].Error(), "#Filter.")
}

// Params returns the distinct parameter names the document references, in
// first-use order.
func (d *Document) Params() []string {
	var out []string
	seen := make(map[string]bool)
	var walk func(c *Clause)
	walk = func(c *Clause) {
		if c == nil {
			return
		}
		if c.Param != "" && !seen[c.Param] {
			seen[c.Param] = true
			out = append(out, c.Param)
		}
		for _, child := range c.And {
			walk(child)
		}
		for _, child := range c.Or {
			walk(child)
		}
		walk(c.Not)
	}
	walk(d.Where)
	return out
}
