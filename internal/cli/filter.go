package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/filterdoc"
	"github.com/roach88/tpredicate/internal/predicate"
	"github.com/roach88/tpredicate/internal/staff"
)

// errInvalidParam marks a malformed --param flag.
var errInvalidParam = errors.New("invalid parameter")

// FilterOptions holds the flags shared by commands that read a filter
// document.
type FilterOptions struct {
	Params []string // name=value pairs
	Limit  int      // overrides the document limit when > 0
}

func (o *FilterOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&o.Params, "param", "p", nil, "filter parameter as name=value (repeatable)")
	cmd.Flags().IntVar(&o.Limit, "limit", 0, "maximum rows (overrides the document limit)")
}

// boundFilter is a filter document bound to the employee schema.
type boundFilter struct {
	Doc     *filterdoc.Document
	Expr    predicate.Optional[predicate.Expr[staff.Employee]]
	Limit   int
	Missing []string // referenced parameters that were not supplied
}

// Node returns the expression tree, or nil when the filter is absent.
func (b boundFilter) Node() predicate.Node {
	if x, ok := b.Expr.Get(); ok {
		return x.Node()
	}
	return nil
}

// loadFilter reads the document at path and binds it with the given
// options.
func loadFilter(path string, opts FilterOptions) (boundFilter, error) {
	params, err := parseParams(opts.Params)
	if err != nil {
		return boundFilter{}, err
	}

	doc, err := filterdoc.ParseFile(path)
	if err != nil {
		return boundFilter{}, err
	}

	x, err := filterdoc.Bind(staff.FilterSchema(), doc, params)
	if err != nil {
		return boundFilter{}, fmt.Errorf("%s: %w", path, err)
	}

	b := boundFilter{Doc: doc, Expr: x, Limit: doc.Limit}
	if opts.Limit > 0 {
		b.Limit = opts.Limit
	}
	for _, name := range doc.Params() {
		if _, ok := params[name]; !ok {
			b.Missing = append(b.Missing, name)
		}
	}
	return b, nil
}

// parseParams turns name=value flags into a map. Values may be empty and
// may contain '='; names may not repeat.
func parseParams(raw []string) (map[string]string, error) {
	params := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w %q: want name=value", errInvalidParam, kv)
		}
		if _, dup := params[name]; dup {
			return nil, fmt.Errorf("%w %q: %s given twice", errInvalidParam, kv, name)
		}
		params[name] = value
	}
	return params, nil
}

// filterFailure reports a loadFilter error. Rejected documents exit with
// ExitFailure and their filterdoc code; unreadable input exits with
// ExitCommandError.
func filterFailure(f *OutputFormatter, err error) error {
	exitCode, code, message := classifyFilterError(err)
	return f.Fail(exitCode, code, message, err)
}

func classifyFilterError(err error) (exitCode int, code, message string) {
	var be *filterdoc.BindError
	switch {
	case errors.As(err, &be):
		return ExitFailure, string(be.Code), "filter rejected"
	case errors.Is(err, errInvalidParam):
		return ExitCommandError, ErrCodeInvalidParam, "invalid --param"
	default:
		return ExitCommandError, ErrCodeLoadFailed, "cannot read filter document"
	}
}
