package message

import (
	"encoding/json"
	"fmt"
	"time"
)

// Response statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Response is the daemon's reply to a single request.
type Response struct {
	ID      string          `json:"id,omitempty"`      // matches the request envelope id
	Status  string          `json:"status"`            // "ok" or "error"
	Message string          `json:"message,omitempty"` // human-readable message or error
	Data    json.RawMessage `json:"data,omitempty"`    // kind-specific payload
}

// OK reports whether the daemon accepted the request.
func (r *Response) OK() bool {
	return r != nil && r.Status == StatusOK
}

// DecodeData unmarshals the response payload into v.
func (r *Response) DecodeData(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("response carries no data")
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// NewResponse builds an ok response carrying data.
func NewResponse(id string, data any) (*Response, error) {
	resp := &Response{ID: id, Status: StatusOK}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to encode response data: %w", err)
		}
		resp.Data = raw
	}
	return resp, nil
}

// ErrorResponse builds an error response.
func ErrorResponse(id, msg string) *Response {
	return &Response{ID: id, Status: StatusError, Message: msg}
}

// TaskStatus is the lifecycle state of a task as reported by the daemon.
type TaskStatus string

const (
	TaskQueued  TaskStatus = "Queued"
	TaskStashed TaskStatus = "Stashed"
	TaskRunning TaskStatus = "Running"
	TaskPaused  TaskStatus = "Paused"
	TaskDone    TaskStatus = "Done"
	TaskFailed  TaskStatus = "Failed"
	TaskKilled  TaskStatus = "Killed"
)

// Task is a single queue entry.
type Task struct {
	ID        int        `json:"id"`
	Command   string     `json:"command"`
	Path      string     `json:"path"`
	Status    TaskStatus `json:"status"`
	ExitCode  *int       `json:"exit_code,omitempty"`
	EnqueueAt *time.Time `json:"enqueue_at,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// StatusData is the payload of a status response.
type StatusData struct {
	Running  bool   `json:"running"`
	Parallel int    `json:"parallel"`
	Tasks    []Task `json:"tasks"`
}

// TaskLog carries the captured output of one finished task.
type TaskLog struct {
	Task   Task   `json:"task"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// LogData is the payload of a log response.
type LogData struct {
	Logs []TaskLog `json:"logs"`
}

// EditData is the payload of an edit_request response.
type EditData struct {
	TaskID  int    `json:"task_id"`
	Command string `json:"command"`
	Path    string `json:"path"`
}

// StreamChunk is one piece of task output sent in reply to a StreamRequest.
// Done marks the last chunk.
type StreamChunk struct {
	Text string `json:"text"`
	Done bool   `json:"done,omitempty"`
}
