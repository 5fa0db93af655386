package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/predicate"
)

// CheckResult describes a bound filter document.
type CheckResult struct {
	Entity      string   `json:"entity"`
	Present     bool     `json:"present"`
	Expr        string   `json:"expr,omitempty"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Fields      []string `json:"fields,omitempty"`
	Params      []string `json:"params,omitempty"`
	Missing     []string `json:"missing,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

func (r CheckResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "entity:      %s\n", r.Entity)
	if !r.Present {
		b.WriteString("expr:        <none> (matches every record)\n")
	} else {
		fmt.Fprintf(&b, "expr:        %s\n", r.Expr)
		fmt.Fprintf(&b, "fingerprint: %s\n", r.Fingerprint)
		fmt.Fprintf(&b, "fields:      %s\n", strings.Join(r.Fields, ", "))
	}
	if len(r.Params) > 0 {
		fmt.Fprintf(&b, "params:      %s\n", strings.Join(r.Params, ", "))
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(&b, "missing:     %s (dropped)\n", strings.Join(r.Missing, ", "))
	}
	if r.Limit > 0 {
		fmt.Fprintf(&b, "limit:       %d\n", r.Limit)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "check <filter.yaml>",
		Short: "Validate and bind a filter document",
		Long: `Validate a filter document against the filter schema and bind it to
the employee fields.

Prints the bound expression and its fingerprint. Clauses whose parameter
is not supplied are dropped, and a filter with nothing left matches every
record.

Example:
  tpred check filters/senior.yaml --param name=Priya`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runCheck(rootOpts *RootOptions, opts *FilterOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)

	b, err := loadFilter(path, *opts)
	if err != nil {
		return filterFailure(f, err)
	}

	result := CheckResult{
		Entity:  b.Doc.Entity,
		Params:  b.Doc.Params(),
		Missing: b.Missing,
		Limit:   b.Limit,
	}
	if x, ok := b.Expr.Get(); ok {
		fp, err := predicate.Fingerprint(x.Node())
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeGeneric, "cannot fingerprint expression", err)
		}
		result.Present = true
		result.Expr = x.String()
		result.Fingerprint = fp
		for _, p := range predicate.Fields(x.Node()) {
			result.Fields = append(result.Fields, p.Field)
		}
	}

	return f.Success(result)
}
