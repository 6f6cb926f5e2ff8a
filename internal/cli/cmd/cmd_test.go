package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/pueue/internal/command"
	"github.com/berrythewa/pueue/internal/config"
)

var fixedNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

// setupTestConfig points the shared config at a temp dir.
func setupTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	c := config.DefaultConfig(config.ConfigPaths{
		BaseDir:     dir,
		ConfigFile:  filepath.Join(dir, "config.yaml"),
		DataDir:     filepath.Join(dir, "data"),
		JournalFile: filepath.Join(dir, "journal.db"),
		LogDir:      filepath.Join(dir, "logs"),
		TempDir:     filepath.Join(dir, "temp"),
	})
	c.Client.Colors = false

	origCfg := cfg
	cfg = c
	t.Cleanup(func() {
		Cleanup()
		cfg = origCfg
	})
	return c
}

// executeCommand runs args against a fresh command tree and returns what was
// handed to the dispatcher.
func executeCommand(t *testing.T, args ...string) ([]command.Command, string, error) {
	t.Helper()
	setupTestConfig(t)

	var captured []command.Command
	origDispatch, origNow := dispatch, now
	dispatch = func(cmd *cobra.Command, c command.Command) error {
		captured = append(captured, c)
		return nil
	}
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		dispatch = origDispatch
		now = origNow
	})

	root := &cobra.Command{Use: "pueue", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(GetCommands()...)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return captured, out.String(), err
}

func TestCommandParsing(t *testing.T) {
	delayed := fixedNow.Add(10 * time.Minute)

	tests := []struct {
		name string
		args []string
		want command.Command
	}{
		{"add", []string{"add", "echo", "hi"}, command.Add{Command: []string{"echo", "hi"}}},
		{"add keeps command flags", []string{"add", "-i", "ls", "-la"}, command.Add{Command: []string{"ls", "-la"}, StartImmediately: true}},
		{"add stashed with delay", []string{"add", "-s", "--delay", "10m", "--", "make", "test"},
			command.Add{Command: []string{"make", "test"}, Stashed: true, DelayUntil: &delayed}},
		{"remove", []string{"remove", "3", "7", "9"}, command.Remove{TaskIDs: []int{3, 7, 9}}},
		{"switch", []string{"switch", "2", "5"}, command.Switch{TaskID1: 2, TaskID2: 5}},
		{"stash", []string{"stash", "1"}, command.Stash{TaskIDs: []int{1}}},
		{"enqueue", []string{"enqueue", "-d", "10m", "4"}, command.Enqueue{TaskIDs: []int{4}, DelayUntil: &delayed}},
		{"enqueue now", []string{"enqueue", "4", "5"}, command.Enqueue{TaskIDs: []int{4, 5}}},
		{"start all", []string{"start"}, command.Start{}},
		{"start some", []string{"start", "2"}, command.Start{TaskIDs: []int{2}}},
		{"restart", []string{"restart", "-i", "-s", "8"}, command.Restart{TaskIDs: []int{8}, StartImmediately: true, Stashed: true}},
		{"pause wait", []string{"pause", "--wait"}, command.Pause{Wait: true}},
		{"pause some", []string{"pause", "1", "2"}, command.Pause{TaskIDs: []int{1, 2}}},
		{"kill all", []string{"kill", "--all"}, command.Kill{All: true}},
		{"kill some", []string{"kill", "6"}, command.Kill{TaskIDs: []int{6}}},
		{"send", []string{"send", "3", "yes"}, command.Send{TaskID: 3, Input: "yes"}},
		{"edit", []string{"edit", "4"}, command.Edit{TaskID: 4}},
		{"edit with path", []string{"edit", "--path", "/tmp/x", "4"}, command.Edit{TaskID: 4, Path: "/tmp/x"}},
		{"status", []string{"status"}, command.Status{}},
		{"status json", []string{"status", "--json"}, command.Status{JSON: true}},
		{"log", []string{"log", "-j", "1"}, command.Log{TaskIDs: []int{1}, JSON: true}},
		{"show", []string{"show", "-f", "-e", "2"}, command.Show{TaskID: 2, Follow: true, Err: true}},
		{"clean", []string{"clean"}, command.Clean{}},
		{"reset", []string{"reset"}, command.Reset{}},
		{"shutdown", []string{"shutdown"}, command.Shutdown{}},
		{"parallel", []string{"parallel", "4"}, command.Parallel{ParallelTasks: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestCommandParsingErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"non numeric id", []string{"remove", "abc"}},
		{"negative id", []string{"stash", "-1"}},
		{"remove without ids", []string{"remove"}},
		{"switch needs two ids", []string{"switch", "1"}},
		{"add without command", []string{"add"}},
		{"delay in the past", []string{"add", "--delay", "2020-01-01", "true"}},
		{"garbage delay", []string{"enqueue", "--delay", "qwzx plorb", "1"}},
		{"kill all with ids", []string{"kill", "--all", "1"}},
		{"bad parallel", []string{"parallel", "many"}},
		{"send without input", []string{"send", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := executeCommand(t, tt.args...)
			assert.Error(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestCompletionsWriteFiles(t *testing.T) {
	for shell, file := range completionFiles {
		t.Run(shell, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")

			got, out, err := executeCommand(t, "completions", shell, dir)
			require.NoError(t, err)
			assert.Empty(t, got, "completions must not reach the dispatcher")
			assert.Contains(t, out, "Wrote "+shell+" completions")

			data, err := os.ReadFile(filepath.Join(dir, file))
			require.NoError(t, err)
			assert.Contains(t, string(data), "pueue")
		})
	}
}

func TestCompletionsUnknownShell(t *testing.T) {
	got, _, err := executeCommand(t, "completions", "tcsh", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell")
	assert.Empty(t, got)
}

func TestConfigPath(t *testing.T) {
	_, out, err := executeCommand(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "Journal:     "+cfg.SystemPaths.JournalFile)
}

func TestConfigResetAndValidate(t *testing.T) {
	_, out, err := executeCommand(t, "config", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration reset to defaults")

	// The file exists now, so a second reset needs --force
	root := &cobra.Command{Use: "pueue", SilenceUsage: true, SilenceErrors: true}
	root.AddCommand(GetCommands()...)
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "reset"})
	assert.Error(t, root.Execute())

	root.SetArgs([]string{"config", "validate"})
	assert.NoError(t, root.Execute())

	require.NoError(t, os.WriteFile(cfg.SystemPaths.ConfigFile, []byte("log:\n  format: xml\n"), 0644))
	root.SetArgs([]string{"config", "validate"})
	assert.Error(t, root.Execute())
}

func TestConfigShow(t *testing.T) {
	_, out, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "socket_path:")

	_, out, err = executeCommand(t, "config", "show", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Daemon"`)
}
