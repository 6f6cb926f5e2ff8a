// Package command holds the parsed form of every user operation the client
// understands. Values are produced by the CLI and consumed read-only by the
// translator.
package command

import "time"

// Command is one parsed user operation. The set of implementations is closed.
type Command interface {
	isCommand()
	// Name is the subcommand the value was parsed from.
	Name() string
}

// Add queues a new task running Command in the caller's working directory.
type Add struct {
	Command          []string
	StartImmediately bool
	Stashed          bool
	DelayUntil       *time.Time
}

// Remove deletes tasks from the queue.
type Remove struct{ TaskIDs []int }

// Stash keeps queued tasks from being started.
type Stash struct{ TaskIDs []int }

// Switch swaps the queue position of two tasks.
type Switch struct {
	TaskID1 int
	TaskID2 int
}

// Enqueue releases stashed tasks, optionally at a later time.
type Enqueue struct {
	TaskIDs    []int
	DelayUntil *time.Time
}

// Start resumes the daemon or the given paused tasks.
type Start struct{ TaskIDs []int }

// Restart queues finished tasks again.
type Restart struct {
	TaskIDs          []int
	StartImmediately bool
	Stashed          bool
}

// Pause halts the daemon or the given tasks.
type Pause struct {
	Wait    bool
	TaskIDs []int
}

// Kill terminates running tasks.
type Kill struct {
	All     bool
	TaskIDs []int
}

// Send writes Input to the stdin of a running task.
type Send struct {
	TaskID int
	Input  string
}

// Edit opens a queued task's command in an editor. Path is a local file used
// for the editing session.
type Edit struct {
	TaskID int
	Path   string
}

// Status shows the queue.
type Status struct{ JSON bool }

// Log shows the output of finished tasks.
type Log struct {
	TaskIDs []int
	JSON    bool
}

// Show prints or follows the output of a running task.
type Show struct {
	TaskID int
	Follow bool
	Err    bool
}

// Clean removes finished tasks from the list.
type Clean struct{}

// Reset kills everything and clears the queue.
type Reset struct{}

// Shutdown stops the daemon.
type Shutdown struct{}

// Parallel sets how many tasks may run at once.
type Parallel struct{ ParallelTasks int }

// Completions writes shell completion scripts. It is handled entirely by the
// client and has no daemon message.
type Completions struct {
	Shell           string
	OutputDirectory string
}

func (Add) isCommand()         {}
func (Remove) isCommand()      {}
func (Stash) isCommand()       {}
func (Switch) isCommand()      {}
func (Enqueue) isCommand()     {}
func (Start) isCommand()       {}
func (Restart) isCommand()     {}
func (Pause) isCommand()       {}
func (Kill) isCommand()        {}
func (Send) isCommand()        {}
func (Edit) isCommand()        {}
func (Status) isCommand()      {}
func (Log) isCommand()         {}
func (Show) isCommand()        {}
func (Clean) isCommand()       {}
func (Reset) isCommand()       {}
func (Shutdown) isCommand()    {}
func (Parallel) isCommand()    {}
func (Completions) isCommand() {}

func (Add) Name() string         { return "add" }
func (Remove) Name() string      { return "remove" }
func (Stash) Name() string       { return "stash" }
func (Switch) Name() string      { return "switch" }
func (Enqueue) Name() string     { return "enqueue" }
func (Start) Name() string       { return "start" }
func (Restart) Name() string     { return "restart" }
func (Pause) Name() string       { return "pause" }
func (Kill) Name() string        { return "kill" }
func (Send) Name() string        { return "send" }
func (Edit) Name() string        { return "edit" }
func (Status) Name() string      { return "status" }
func (Log) Name() string         { return "log" }
func (Show) Name() string        { return "show" }
func (Clean) Name() string       { return "clean" }
func (Reset) Name() string       { return "reset" }
func (Shutdown) Name() string    { return "shutdown" }
func (Parallel) Name() string    { return "parallel" }
func (Completions) Name() string { return "completions" }

// Variants returns the zero value of every Command implementation.
// Keep it in sync with the type list above; translator tests walk it.
func Variants() []Command {
	return []Command{
		Add{},
		Remove{},
		Stash{},
		Switch{},
		Enqueue{},
		Start{},
		Restart{},
		Pause{},
		Kill{},
		Send{},
		Edit{},
		Status{},
		Log{},
		Show{},
		Clean{},
		Reset{},
		Shutdown{},
		Parallel{},
		Completions{},
	}
}

// IsLocal reports whether cmd is handled by the client without talking to
// the daemon.
func IsLocal(cmd Command) bool {
	switch c := cmd.(type) {
	case Completions:
		return true
	case *Completions:
		return c != nil
	}
	return false
}
