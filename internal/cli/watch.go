package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/roach88/tpredicate/internal/store"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <filter.yaml>",
		Short: "Re-run a filter document whenever it changes",
		Long: `Run a filter document against the store, then run it again every
time the file is saved. A document that fails to bind is reported and
the previous result stays current until the next save.

In json format every run is written as one line.

Example:
  tpred watch --db ./staff.db filters/senior.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runWatch(opts *QueryOptions, path string, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	if _, err := parseParams(opts.Params); err != nil {
		return filterFailure(f, err)
	}

	st, err := store.Open(commandContext(cmd), opts.Database)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, "cannot open database", err)
	}
	defer closeStore(st)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeGeneric, "cannot create watcher", err)
	}
	defer watcher.Close()

	// Editors save by replacing the file, so watch the directory.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return f.Fail(ExitCommandError, ErrCodeLoadFailed, "cannot watch filter document", err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watchRun(ctx, f, st, path, opts.FilterOptions); err != nil {
		return err
	}
	slog.Info("watching filter document", "path", target)

	for {
		select {
		case <-ctx.Done():
			slog.Info("watch stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				slog.Debug("fsnotify watcher channel is closed")
				return nil
			}
			if filepath.Clean(event.Name) != target || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			slog.Debug("filter document changed", "event", event.String())
			if err := watchRun(ctx, f, st, path, opts.FilterOptions); err != nil {
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return f.Fail(ExitCommandError, ErrCodeGeneric, "watch failed", err)
		}
	}
}

// watchRun runs the filter once. A document that cannot be read or bound
// is reported and keeps the watch alive; a store failure ends it.
func watchRun(ctx context.Context, f *OutputFormatter, st *store.Store, path string, opts FilterOptions) error {
	result, err := queryOnce(ctx, st, path, opts)
	if err == nil {
		return f.Success(result)
	}

	var se *storeError
	if errors.As(err, &se) {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return queryFailure(f, err)
	}

	slog.Warn("filter document rejected", "path", path, "error", err)
	_, code, message := classifyFilterError(err)
	return f.Error(code, message, errorDetails(err))
}
