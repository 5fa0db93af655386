package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/staff"
	"github.com/roach88/tpredicate/internal/store"
)

// SQLResult is the compiled form of a filter document.
type SQLResult struct {
	SQL    string `json:"sql"`
	Params []any  `json:"params"`
}

func (r SQLResult) String() string {
	params, err := json.Marshal(r.Params)
	if err != nil {
		params = []byte(fmt.Sprint(r.Params))
	}
	return r.SQL + "\n-- params: " + string(params)
}

// NewSQLCommand creates the sql command.
func NewSQLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FilterOptions{}

	cmd := &cobra.Command{
		Use:   "sql <filter.yaml>",
		Short: "Show the SQL a filter document compiles to",
		Long: `Compile a filter document to the parameterized SQLite query the
store runs for it. No database is opened.

Example:
  tpred sql filters/senior.yaml --param name=Priya --limit 5`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSQL(rootOpts, opts, args[0], cmd)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runSQL(rootOpts *RootOptions, opts *FilterOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)

	b, err := loadFilter(path, *opts)
	if err != nil {
		return filterFailure(f, err)
	}

	query, params, err := store.Explain(staff.Collection, b.Node(), b.Limit)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeCompile, "cannot compile filter", err)
	}
	if params == nil {
		params = []any{}
	}

	return f.Success(SQLResult{SQL: query, Params: params})
}
