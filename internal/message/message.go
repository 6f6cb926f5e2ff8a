// Package message defines the protocol understood by the pueue daemon.
//
// Every request is one of the Message implementations below. Each payload is a
// flat record of serializable fields so a Message can be handed to the
// transport and encoded independently of whatever produced it.
package message

import "time"

// Kind tags identify the variant on the wire.
const (
	KindAdd            = "add"
	KindRemove         = "remove"
	KindStash          = "stash"
	KindSwitch         = "switch"
	KindEnqueue        = "enqueue"
	KindStart          = "start"
	KindRestart        = "restart"
	KindPause          = "pause"
	KindKill           = "kill"
	KindSend           = "send"
	KindEditRequest    = "edit_request"
	KindEdit           = "edit"
	KindStatus         = "status"
	KindLog            = "log"
	KindStreamRequest  = "stream_request"
	KindClean          = "clean"
	KindReset          = "reset"
	KindDaemonShutdown = "daemon_shutdown"
	KindParallel       = "parallel"
)

// Message is a request for the daemon. The set of implementations is closed.
type Message interface {
	isMessage()
	Kind() string
}

// Add queues a new task.
type Add struct {
	Command          string     `json:"command"`
	Path             string     `json:"path"`
	StartImmediately bool       `json:"start_immediately"`
	Stashed          bool       `json:"stashed"`
	EnqueueAt        *time.Time `json:"enqueue_at,omitempty"`
}

type Remove struct {
	TaskIDs []int `json:"task_ids"`
}

type Stash struct {
	TaskIDs []int `json:"task_ids"`
}

type Switch struct {
	TaskID1 int `json:"task_id_1"`
	TaskID2 int `json:"task_id_2"`
}

type Enqueue struct {
	TaskIDs   []int      `json:"task_ids"`
	EnqueueAt *time.Time `json:"enqueue_at,omitempty"`
}

type Start struct {
	TaskIDs []int `json:"task_ids"`
}

type Restart struct {
	TaskIDs          []int `json:"task_ids"`
	StartImmediately bool  `json:"start_immediately"`
	Stashed          bool  `json:"stashed"`
}

type Pause struct {
	Wait    bool  `json:"wait"`
	TaskIDs []int `json:"task_ids"`
}

type Kill struct {
	All     bool  `json:"all"`
	TaskIDs []int `json:"task_ids"`
}

type Send struct {
	TaskID int    `json:"task_id"`
	Input  string `json:"input"`
}

// EditRequest asks the daemon for the stored command of a task so it can be
// edited locally.
type EditRequest struct {
	TaskID int `json:"task_id"`
}

// Edit replaces the command of a task after a local editing session.
type Edit struct {
	TaskID  int    `json:"task_id"`
	Command string `json:"command"`
	Path    string `json:"path"`
}

type Status struct{}

type Log struct {
	TaskIDs []int `json:"task_ids"`
}

// StreamRequest asks for the output of a running task. With Follow set the
// daemon keeps the connection open and sends chunks until the task ends.
type StreamRequest struct {
	TaskID int  `json:"task_id"`
	Follow bool `json:"follow"`
	Err    bool `json:"err"`
}

type Clean struct{}

type Reset struct{}

type DaemonShutdown struct{}

type Parallel struct {
	ParallelTasks int `json:"parallel_tasks"`
}

func (Add) isMessage()            {}
func (Remove) isMessage()         {}
func (Stash) isMessage()          {}
func (Switch) isMessage()         {}
func (Enqueue) isMessage()        {}
func (Start) isMessage()          {}
func (Restart) isMessage()        {}
func (Pause) isMessage()          {}
func (Kill) isMessage()           {}
func (Send) isMessage()           {}
func (EditRequest) isMessage()    {}
func (Edit) isMessage()           {}
func (Status) isMessage()         {}
func (Log) isMessage()            {}
func (StreamRequest) isMessage()  {}
func (Clean) isMessage()          {}
func (Reset) isMessage()          {}
func (DaemonShutdown) isMessage() {}
func (Parallel) isMessage()       {}

func (Add) Kind() string            { return KindAdd }
func (Remove) Kind() string         { return KindRemove }
func (Stash) Kind() string          { return KindStash }
func (Switch) Kind() string         { return KindSwitch }
func (Enqueue) Kind() string        { return KindEnqueue }
func (Start) Kind() string          { return KindStart }
func (Restart) Kind() string        { return KindRestart }
func (Pause) Kind() string          { return KindPause }
func (Kill) Kind() string           { return KindKill }
func (Send) Kind() string           { return KindSend }
func (EditRequest) Kind() string    { return KindEditRequest }
func (Edit) Kind() string           { return KindEdit }
func (Status) Kind() string         { return KindStatus }
func (Log) Kind() string            { return KindLog }
func (StreamRequest) Kind() string  { return KindStreamRequest }
func (Clean) Kind() string          { return KindClean }
func (Reset) Kind() string          { return KindReset }
func (DaemonShutdown) Kind() string { return KindDaemonShutdown }
func (Parallel) Kind() string       { return KindParallel }

// New returns a pointer to an empty Message of the given kind, ready to be
// unmarshalled into. ok is false for unknown kinds.
func New(kind string) (m Message, ok bool) {
	switch kind {
	case KindAdd:
		return &Add{}, true
	case KindRemove:
		return &Remove{}, true
	case KindStash:
		return &Stash{}, true
	case KindSwitch:
		return &Switch{}, true
	case KindEnqueue:
		return &Enqueue{}, true
	case KindStart:
		return &Start{}, true
	case KindRestart:
		return &Restart{}, true
	case KindPause:
		return &Pause{}, true
	case KindKill:
		return &Kill{}, true
	case KindSend:
		return &Send{}, true
	case KindEditRequest:
		return &EditRequest{}, true
	case KindEdit:
		return &Edit{}, true
	case KindStatus:
		return &Status{}, true
	case KindLog:
		return &Log{}, true
	case KindStreamRequest:
		return &StreamRequest{}, true
	case KindClean:
		return &Clean{}, true
	case KindReset:
		return &Reset{}, true
	case KindDaemonShutdown:
		return &DaemonShutdown{}, true
	case KindParallel:
		return &Parallel{}, true
	}
	return nil, false
}
