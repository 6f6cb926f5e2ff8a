// Package translate turns parsed user commands into daemon messages.
//
// Translate is the single place where a command is committed to its wire
// representation. It performs no I/O except reading the working directory for
// Add, never logs, and never retries; every failure is returned to the caller.
package translate

import (
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/berrythewa/pueue/internal/command"
	"github.com/berrythewa/pueue/internal/message"
)

// Translate converts cmd into the message the daemon expects.
//
// Local-only fields (Edit's path, the JSON switches of Status and Log) are
// dropped. Completions never has a message and always yields
// ErrMisroutedLocalCommand. Pointers to variants are translated like the
// values they point to.
func Translate(cmd command.Command, env Environment) (message.Message, error) {
	switch c := deref(cmd).(type) {
	case command.Add:
		path, err := workingDir(env)
		if err != nil {
			return nil, &Error{Op: c.Name(), Err: err}
		}
		return message.Add{
			Command:          strings.Join(c.Command, " "),
			Path:             path,
			StartImmediately: c.StartImmediately,
			Stashed:          c.Stashed,
			EnqueueAt:        copyTime(c.DelayUntil),
		}, nil
	case command.Remove:
		return message.Remove{TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Stash:
		return message.Stash{TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Switch:
		return message.Switch{TaskID1: c.TaskID1, TaskID2: c.TaskID2}, nil
	case command.Enqueue:
		return message.Enqueue{
			TaskIDs:   slices.Clone(c.TaskIDs),
			EnqueueAt: copyTime(c.DelayUntil),
		}, nil
	case command.Start:
		return message.Start{TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Restart:
		return message.Restart{
			TaskIDs:          slices.Clone(c.TaskIDs),
			StartImmediately: c.StartImmediately,
			Stashed:          c.Stashed,
		}, nil
	case command.Pause:
		return message.Pause{Wait: c.Wait, TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Kill:
		return message.Kill{All: c.All, TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Send:
		return message.Send{TaskID: c.TaskID, Input: c.Input}, nil
	case command.Edit:
		return message.EditRequest{TaskID: c.TaskID}, nil
	case command.Status:
		return message.Status{}, nil
	case command.Log:
		return message.Log{TaskIDs: slices.Clone(c.TaskIDs)}, nil
	case command.Show:
		return message.StreamRequest{TaskID: c.TaskID, Follow: c.Follow, Err: c.Err}, nil
	case command.Clean:
		return message.Clean{}, nil
	case command.Reset:
		return message.Reset{}, nil
	case command.Shutdown:
		return message.DaemonShutdown{}, nil
	case command.Parallel:
		return message.Parallel{ParallelTasks: c.ParallelTasks}, nil
	case command.Completions:
		return nil, &Error{Op: c.Name(), Err: ErrMisroutedLocalCommand}
	case nil:
		return nil, &Error{Op: "<nil>", Err: ErrUnsupportedCommand}
	default:
		return nil, &Error{Op: cmd.Name(), Err: fmt.Errorf("%w: %T", ErrUnsupportedCommand, cmd)}
	}
}

// deref unwraps a pointer to a command variant. A nil pointer becomes nil.
func deref(cmd command.Command) command.Command {
	v := reflect.ValueOf(cmd)
	if v.Kind() != reflect.Pointer {
		return cmd
	}
	if v.IsNil() {
		return nil
	}
	if c, ok := v.Elem().Interface().(command.Command); ok {
		return c
	}
	return cmd
}

func workingDir(env Environment) (string, error) {
	dir, err := env.WorkingDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEnvironmentUnavailable, err)
	}
	if !utf8.ValidString(dir) {
		return "", ErrNonUTF8Path
	}
	if !filepath.IsAbs(dir) {
		return "", fmt.Errorf("%w: %q is not absolute", ErrEnvironmentUnavailable, dir)
	}
	return dir, nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
