package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/staff"
	"github.com/roach88/tpredicate/internal/store"
)

// QueryOptions holds flags for the query and watch commands.
type QueryOptions struct {
	*RootOptions
	FilterOptions
	Database string
}

// QueryResult holds the employees a filter selected.
type QueryResult struct {
	Expr      string           `json:"expr,omitempty"`
	Count     int              `json:"count"`
	Employees []staff.Employee `json:"employees"`
}

func (r QueryResult) String() string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tJOB\tEXPERIENCE\tWORKING")
	for _, e := range r.Employees {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n", e.ID, e.Name, e.Job.OrElse("-"), e.Experience, e.Working)
	}
	tw.Flush()
	fmt.Fprintf(&b, "(%d row(s))", r.Count)
	return b.String()
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <filter.yaml>",
		Short: "Run a filter document against the store",
		Long: `Bind a filter document and return the matching employees from the
SQLite document store, in insertion order.

Example:
  tpred query --db ./staff.db filters/senior.yaml --param name=Priya`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(commandContext(cmd), opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "cannot open database", err)
	}
	defer closeStore(st)

	result, err := queryOnce(commandContext(cmd), st, path, opts.FilterOptions)
	if err != nil {
		return queryFailure(f, err)
	}
	return f.Success(result)
}

// queryOnce loads the filter at path and runs it.
func queryOnce(ctx context.Context, st *store.Store, path string, opts FilterOptions) (QueryResult, error) {
	b, err := loadFilter(path, opts)
	if err != nil {
		return QueryResult{}, err
	}

	employees, err := store.Query(ctx, st, staff.Collection, b.Expr, b.Limit)
	if err != nil {
		return QueryResult{}, &storeError{err: err}
	}

	result := QueryResult{Count: len(employees), Employees: employees}
	if x, ok := b.Expr.Get(); ok {
		result.Expr = x.String()
	}
	slog.Debug("query complete", "path", path, "rows", result.Count)
	return result, nil
}

// storeError marks a failure of the store rather than of the filter.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func queryFailure(f *OutputFormatter, err error) error {
	var se *storeError
	if !errors.As(err, &se) {
		return filterFailure(f, err)
	}
	if errors.Is(err, store.ErrUnknownCollection) {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "no employees in database (run tpred seed first)", err)
	}
	return f.Fail(ExitCommandError, ErrCodeStoreFailed, "query failed", err)
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
