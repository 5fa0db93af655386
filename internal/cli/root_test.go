package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to
// stdout. Logs are discarded.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "tpred", cmd.Use)
	assert.Contains(t, cmd.Long, "filter")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"check", "sql", "seed", "query", "watch"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestFilterFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"check", "sql", "query", "watch"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			param := sub.Flags().Lookup("param")
			require.NotNil(t, param)
			assert.Equal(t, "p", param.Shorthand)
			require.NotNil(t, sub.Flags().Lookup("limit"))
		})
	}
}

func TestDatabaseFlagRequired(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"seed", "query", "watch"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			db := sub.Flags().Lookup("db")
			require.NotNil(t, db)
			assert.Equal(t, []string{"true"}, db.Annotations["cobra_annotation_bash_completion_one_required_flag"])
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "xml", "check", "testdata/senior.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		opts      RootOptions
		wantDebug bool
		wantJSON  bool
	}{
		{"text", RootOptions{Format: "text"}, false, false},
		{"text verbose", RootOptions{Format: "text", Verbose: true}, true, false},
		{"json verbose", RootOptions{Format: "json", Verbose: true}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := newLogger(buf, &tt.opts)

			logger.Debug("probe", "n", 1)
			if tt.wantDebug {
				assert.Contains(t, buf.String(), "probe")
			} else {
				assert.Empty(t, buf.String())
			}

			buf.Reset()
			logger.Info("ready")
			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"ready"`)
			} else {
				assert.Contains(t, buf.String(), "ready")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}
