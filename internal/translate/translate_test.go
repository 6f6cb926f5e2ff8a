package translate

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrythewa/pueue/internal/command"
	"github.com/berrythewa/pueue/internal/message"
)

const projectDir = "/home/u/project"

func TestTranslate(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		cmd  command.Command
		want message.Message
	}{
		{
			name: "add",
			cmd:  command.Add{Command: []string{"echo", "hi"}, StartImmediately: true},
			want: message.Add{Command: "echo hi", Path: projectDir, StartImmediately: true},
		},
		{
			name: "add stashed with delay",
			cmd:  command.Add{Command: []string{"sleep", "60"}, Stashed: true, DelayUntil: &at},
			want: message.Add{Command: "sleep 60", Path: projectDir, Stashed: true, EnqueueAt: &at},
		},
		{
			name: "remove",
			cmd:  command.Remove{TaskIDs: []int{3, 7, 9}},
			want: message.Remove{TaskIDs: []int{3, 7, 9}},
		},
		{
			name: "stash",
			cmd:  command.Stash{TaskIDs: []int{3, 7, 9}},
			want: message.Stash{TaskIDs: []int{3, 7, 9}},
		},
		{
			name: "switch",
			cmd:  command.Switch{TaskID1: 2, TaskID2: 5},
			want: message.Switch{TaskID1: 2, TaskID2: 5},
		},
		{
			name: "enqueue",
			cmd:  command.Enqueue{TaskIDs: []int{1}, DelayUntil: &at},
			want: message.Enqueue{TaskIDs: []int{1}, EnqueueAt: &at},
		},
		{
			name: "start",
			cmd:  command.Start{TaskIDs: []int{3, 7, 9}},
			want: message.Start{TaskIDs: []int{3, 7, 9}},
		},
		{
			name: "restart",
			cmd:  command.Restart{TaskIDs: []int{4}, StartImmediately: true, Stashed: true},
			want: message.Restart{TaskIDs: []int{4}, StartImmediately: true, Stashed: true},
		},
		{
			name: "pause",
			cmd:  command.Pause{Wait: true, TaskIDs: []int{8}},
			want: message.Pause{Wait: true, TaskIDs: []int{8}},
		},
		{
			name: "kill all",
			cmd:  command.Kill{All: true},
			want: message.Kill{All: true},
		},
		{
			name: "send",
			cmd:  command.Send{TaskID: 6, Input: "yes\n"},
			want: message.Send{TaskID: 6, Input: "yes\n"},
		},
		{
			name: "edit drops local path",
			cmd:  command.Edit{TaskID: 4, Path: "/tmp/x"},
			want: message.EditRequest{TaskID: 4},
		},
		{
			name: "status drops json flag",
			cmd:  command.Status{JSON: true},
			want: message.Status{},
		},
		{
			name: "log drops json flag",
			cmd:  command.Log{TaskIDs: []int{1, 2}, JSON: true},
			want: message.Log{TaskIDs: []int{1, 2}},
		},
		{
			name: "show",
			cmd:  command.Show{TaskID: 3, Follow: true, Err: true},
			want: message.StreamRequest{TaskID: 3, Follow: true, Err: true},
		},
		{name: "clean", cmd: command.Clean{}, want: message.Clean{}},
		{name: "reset", cmd: command.Reset{}, want: message.Reset{}},
		{name: "shutdown", cmd: command.Shutdown{}, want: message.DaemonShutdown{}},
		{
			name: "parallel",
			cmd:  command.Parallel{ParallelTasks: 3},
			want: message.Parallel{ParallelTasks: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Translate(tt.cmd, FixedDir(projectDir))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateCoversEveryVariant(t *testing.T) {
	for _, cmd := range command.Variants() {
		t.Run(cmd.Name(), func(t *testing.T) {
			msg, err := Translate(cmd, FixedDir(projectDir))
			if command.IsLocal(cmd) {
				assert.ErrorIs(t, err, ErrMisroutedLocalCommand)
				assert.Nil(t, msg)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, msg)
			assert.NotErrorIs(t, err, ErrUnsupportedCommand)
		})
	}
}

func TestTranslateCompletions(t *testing.T) {
	cmds := []command.Completions{
		{},
		{Shell: "bash", OutputDirectory: "/tmp"},
		{Shell: "zsh", OutputDirectory: "."},
	}
	for _, cmd := range cmds {
		msg, err := Translate(cmd, FixedDir(projectDir))
		assert.Nil(t, msg)
		require.ErrorIs(t, err, ErrMisroutedLocalCommand)

		var terr *Error
		require.True(t, errors.As(err, &terr))
		assert.Equal(t, "completions", terr.Op)
	}
}

func TestTranslateCompletionsNeverQueriesEnvironment(t *testing.T) {
	called := false
	env := EnvironmentFunc(func() (string, error) {
		called = true
		return projectDir, nil
	})

	_, err := Translate(command.Completions{Shell: "fish"}, env)
	assert.ErrorIs(t, err, ErrMisroutedLocalCommand)
	assert.False(t, called)
}

func TestTranslateAddEnvironmentUnavailable(t *testing.T) {
	env := EnvironmentFunc(func() (string, error) {
		return "", os.ErrNotExist
	})

	msg, err := Translate(command.Add{Command: []string{"ls"}}, env)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrEnvironmentUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTranslateAddRelativeDir(t *testing.T) {
	msg, err := Translate(command.Add{Command: []string{"ls"}}, FixedDir("relative/dir"))
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrEnvironmentUnavailable)
}

func TestTranslateAddNonUTF8(t *testing.T) {
	msg, err := Translate(command.Add{Command: []string{"ls"}}, FixedDir("/home/\xff\xfe/dir"))
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrNonUTF8Path)
	assert.NotErrorIs(t, err, ErrEnvironmentUnavailable)
}

func TestTranslateOnlyAddTouchesEnvironment(t *testing.T) {
	env := EnvironmentFunc(func() (string, error) {
		return "", errors.New("must not be called")
	})
	for _, cmd := range command.Variants() {
		if _, ok := cmd.(command.Add); ok || command.IsLocal(cmd) {
			continue
		}
		_, err := Translate(cmd, env)
		assert.NoError(t, err, cmd.Name())
	}
}

func TestTranslateIsIdempotent(t *testing.T) {
	at := time.Now().Add(time.Hour)
	cmd := command.Add{Command: []string{"make", "test"}, DelayUntil: &at}

	first, err := Translate(cmd, FixedDir(projectDir))
	require.NoError(t, err)
	second, err := Translate(cmd, FixedDir(projectDir))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTranslateDoesNotAliasCommand(t *testing.T) {
	ids := []int{3, 7, 9}
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	msg, err := Translate(command.Enqueue{TaskIDs: ids, DelayUntil: &at}, FixedDir(projectDir))
	require.NoError(t, err)

	ids[0] = 100
	at = at.Add(time.Hour)

	enq := msg.(message.Enqueue)
	assert.Equal(t, []int{3, 7, 9}, enq.TaskIDs)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *enq.EnqueueAt)
}

func TestTranslateNil(t *testing.T) {
	_, err := Translate(nil, FixedDir(projectDir))
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestTranslatePointerVariants(t *testing.T) {
	assert.True(t, command.IsLocal(&command.Completions{}))
	assert.False(t, command.IsLocal((*command.Completions)(nil)))

	msg, err := Translate(&command.Completions{Shell: "bash"}, FixedDir(projectDir))
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrMisroutedLocalCommand)
	assert.NotErrorIs(t, err, ErrUnsupportedCommand)

	msg, err = Translate(&command.Pause{TaskIDs: []int{2}, Wait: true}, FixedDir(projectDir))
	require.NoError(t, err)
	want, err := Translate(command.Pause{TaskIDs: []int{2}, Wait: true}, FixedDir(projectDir))
	require.NoError(t, err)
	assert.Equal(t, want, msg)

	var nilKill *command.Kill
	_, err = Translate(nilKill, FixedDir(projectDir))
	assert.ErrorIs(t, err, ErrUnsupportedCommand)
}

func TestHostWorkingDir(t *testing.T) {
	got, err := Host().WorkingDir()
	require.NoError(t, err)

	want, err := os.Stat(".")
	require.NoError(t, err)
	info, err := os.Stat(got)
	require.NoError(t, err)
	assert.True(t, os.SameFile(want, info))
}
