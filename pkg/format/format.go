package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/berrythewa/pueue/internal/journal"
	"github.com/berrythewa/pueue/internal/message"
)

// Formatter renders daemon responses for the terminal
type Formatter struct {
	options Options
	now     func() time.Time
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
		now:     time.Now,
	}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatResponse renders a generic acknowledgement or error
func (f *Formatter) FormatResponse(resp *message.Response) string {
	if resp == nil {
		return ColorizeIf("No response", Gray, f.options.UseColors)
	}
	if !resp.OK() {
		msg := resp.Message
		if msg == "" {
			msg = "request failed"
		}
		return ColorizeIf("Error: "+msg, Red, f.options.UseColors)
	}
	if resp.Message == "" {
		return ColorizeIf("Ok", Green, f.options.UseColors)
	}
	return ColorizeIf(resp.Message, Green, f.options.UseColors)
}

// FormatStatus renders the task table
func (f *Formatter) FormatStatus(data message.StatusData) string {
	var parts []string

	state := ColorizeIf("running", Green, f.options.UseColors)
	if !data.Running {
		state = ColorizeIf("paused", Yellow, f.options.UseColors)
	}
	parts = append(parts, fmt.Sprintf("%s %s %s",
		BoldIf("Daemon:", f.options.UseColors), state,
		DimIf(fmt.Sprintf("(parallel: %d)", data.Parallel), f.options.UseColors)))

	if len(data.Tasks) == 0 {
		parts = append(parts, ColorizeIf("No tasks", Gray, f.options.UseColors))
		return strings.Join(parts, "\n")
	}

	header := []string{"Id", "Status", "Command", "Path", "Start", "Runtime"}
	rows := make([][]string, 0, len(data.Tasks))
	for _, task := range data.Tasks {
		rows = append(rows, f.taskRow(task))
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := len([]rune(cell)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	parts = append(parts, "")
	parts = append(parts, f.tableLine(header, widths, func(_ int, s string) string {
		return BoldIf(s, f.options.UseColors)
	}))
	for i, row := range rows {
		status := data.Tasks[i].Status
		parts = append(parts, f.tableLine(row, widths, func(col int, s string) string {
			if col == 1 {
				return ColorizeIf(s, StatusColors[status], f.options.UseColors)
			}
			return s
		}))
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) taskRow(task message.Task) []string {
	status := string(task.Status)
	if task.ExitCode != nil && task.Status == message.TaskFailed {
		status = fmt.Sprintf("%s(%d)", status, *task.ExitCode)
	}
	if task.EnqueueAt != nil && (task.Status == message.TaskStashed || task.Status == message.TaskQueued) {
		status += " until " + task.EnqueueAt.Local().Format("01-02 15:04")
	}

	start, runtime := "", ""
	if task.Start != nil {
		start = task.Start.Local().Format("15:04:05")
		end := f.now()
		if task.End != nil {
			end = *task.End
		}
		runtime = FormatDuration(end.Sub(*task.Start))
	}

	return []string{
		strconv.Itoa(task.ID),
		status,
		TruncateText(task.Command, f.options.MaxWidth),
		TruncateText(task.Path, f.options.MaxWidth),
		start,
		runtime,
	}
}

func (f *Formatter) tableLine(cells []string, widths []int, style func(int, string) string) string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		padded := cell
		if i < len(cells)-1 {
			padded = padRight(cell, widths[i])
		}
		out[i] = style(i, padded)
	}
	return strings.TrimRight(strings.Join(out, "  "), " ")
}

// FormatLogs renders the captured output of each task
func (f *Formatter) FormatLogs(data message.LogData) string {
	if len(data.Logs) == 0 {
		return ColorizeIf("No logs", Gray, f.options.UseColors)
	}

	var parts []string
	for i, log := range data.Logs {
		task := log.Task
		title := fmt.Sprintf("Task %d: %s", task.ID, task.Command)
		status := ColorizeIf(string(task.Status), StatusColors[task.Status], f.options.UseColors)
		if task.ExitCode != nil {
			status += DimIf(fmt.Sprintf(" (exit %d)", *task.ExitCode), f.options.UseColors)
		}
		parts = append(parts, BoldIf(title, f.options.UseColors)+" "+status)

		if box := CreateBox("stdout", TruncateLines(log.Stdout, f.options.MaxLines), f.options); box != "" {
			parts = append(parts, box)
		}
		if box := CreateBox("stderr", TruncateLines(log.Stderr, f.options.MaxLines), f.options); box != "" {
			parts = append(parts, box)
		}
		if i < len(data.Logs)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}
	return strings.Join(parts, "\n")
}

// FormatJournal renders journal entries, one per line
func (f *Formatter) FormatJournal(entries []journal.Entry) string {
	if len(entries) == 0 {
		return ColorizeIf("Journal is empty", Gray, f.options.UseColors)
	}

	now := f.now()
	title := fmt.Sprintf("Sent messages (%d entries)", len(entries))
	parts := []string{ColorizeIf(title, BrightBlue, f.options.UseColors), ""}

	for _, e := range entries {
		status := e.Status
		color := Green
		if status != message.StatusOK {
			color = Red
		}
		line := fmt.Sprintf("%s  %s  %s",
			DimIf(padRight(FormatRelativeTime(e.SentAt, now), 14), f.options.UseColors),
			padRight(e.Kind, 15),
			ColorizeIf(padRight(status, 11), color, f.options.UseColors))

		detail := e.Reply
		if detail == "" && len(e.Payload) > 0 && !f.options.Compact {
			detail = string(e.Payload)
		}
		if detail != "" {
			line += " " + TruncateText(detail, f.options.MaxWidth)
		}
		parts = append(parts, strings.TrimRight(line, " "))
	}
	return strings.Join(parts, "\n")
}

// Package-level convenience functions

// FormatStatus renders the task table with given options
func FormatStatus(data message.StatusData, opts Options) string {
	return New(opts).FormatStatus(data)
}

// FormatLogs renders task logs with given options
func FormatLogs(data message.LogData, opts Options) string {
	return New(opts).FormatLogs(data)
}
