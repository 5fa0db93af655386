package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/staff"
	"github.com/roach88/tpredicate/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Database string
}

// SeedResult reports what was written.
type SeedResult struct {
	Database   string `json:"database"`
	Collection string `json:"collection"`
	Written    int    `json:"written"`
}

func (r SeedResult) String() string {
	return fmt.Sprintf("seeded %d employee(s) into %s (%s)", r.Written, r.Collection, r.Database)
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed <employees.yaml>",
		Short: "Load employees into the document store",
		Long: `Load a YAML list of employees into the SQLite document store,
creating the database if it doesn't exist.

Employees are upserted by id; records without an id get a fresh UUIDv7.

Example:
  tpred seed --db ./staff.db ./employees.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runSeed(opts *SeedOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	employees, err := staff.LoadFile(path)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoadFailed, "cannot load employees", err)
	}
	slog.Debug("employees loaded", "path", path, "count", len(employees))

	st, err := store.Open(commandContext(cmd), opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "cannot open database", err)
	}
	defer closeStore(st)

	n, err := store.PutAll(commandContext(cmd), st, staff.Collection, employees)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "cannot write employees", err)
	}

	return f.Success(SeedResult{Database: opts.Database, Collection: staff.Collection, Written: n})
}
