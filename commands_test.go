package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(out)
	cmd.SetArgs(append([]string{"--log-level", "warn", "--color=false"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestPlanCommand(t *testing.T) {
	t.Run("renders the optimal line world policy", func(t *testing.T) {
		out, err := execute(t, "plan", "--env", "lineworld", "--algo", "policy-iteration")
		require.NoError(t, err)
		require.Contains(t, out, "  * |  > |  > |  > |  * |")
	})

	t.Run("unknown environment", func(t *testing.T) {
		_, err := execute(t, "plan", "--env", "chess")
		require.ErrorContains(t, err, "unknown environment")
	})
}

func TestLearnCommand(t *testing.T) {
	t.Run("stores the run when asked", func(t *testing.T) {
		dir := t.TempDir()
		out, err := execute(t, "--seed", "3", "learn", "--algo", "dyna-q", "--episodes", "200", "--out", dir)
		require.NoError(t, err)
		require.Contains(t, out, "dyna-q policy")

		runs, err := filepath.Glob(filepath.Join(dir, "dyna-q", "*", "runs.csv"))
		require.NoError(t, err)
		require.Len(t, runs, 1)
	})

	t.Run("rejects an unknown refresh mode", func(t *testing.T) {
		_, err := execute(t, "learn", "--algo", "monte-carlo-es", "--refresh", "never")
		require.ErrorContains(t, err, "unknown policy refresh")
	})
}

func TestSecretCommand(t *testing.T) {
	_, err := execute(t, "secret", "--path", filepath.Join(t.TempDir(), "missing.so"))
	require.ErrorContains(t, err, "failed to load secret environment library")
}

func TestLogLevel(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--log-level", "loud", "plan"})
	require.Error(t, cmd.Execute())
}
