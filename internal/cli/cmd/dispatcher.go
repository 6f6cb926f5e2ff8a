package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/berrythewa/pueue/internal/command"
	"github.com/berrythewa/pueue/internal/ipc"
	"github.com/berrythewa/pueue/internal/journal"
	"github.com/berrythewa/pueue/internal/message"
	"github.com/berrythewa/pueue/internal/translate"
	"github.com/berrythewa/pueue/pkg/format"
	"github.com/berrythewa/pueue/pkg/utils"
)

// Journal statuses for requests that got no response.
const (
	statusUnreachable = "unreachable"
	statusFailed      = "failed"
)

// ErrEmptyEdit is returned when the edited text is empty.
var ErrEmptyEdit = errors.New("edited text is empty, nothing sent")

// Dispatcher sends commands to the daemon and renders the replies.
type Dispatcher struct {
	Client    *ipc.Client
	Journal   *journal.Journal // nil disables recording
	Env       translate.Environment
	Formatter *format.Formatter
	Out       io.Writer
	Logger    *zap.Logger

	Editor    string
	TempDir   string
	RunEditor func(ctx context.Context, editor, path string) error
}

// dispatch is replaced in tests to capture parsed commands.
var dispatch = func(cmd *cobra.Command, c command.Command) error {
	return newDispatcher(cmd).Dispatch(cmd.Context(), c)
}

// run hands c to the dispatcher unless it is handled locally.
func run(cmd *cobra.Command, c command.Command) error {
	if command.IsLocal(c) {
		return runLocal(cmd, c)
	}
	return dispatch(cmd, c)
}

func runLocal(cmd *cobra.Command, c command.Command) error {
	switch c := c.(type) {
	case command.Completions:
		return writeCompletions(cmd.Root(), c, cmd.OutOrStdout())
	case *command.Completions:
		return writeCompletions(cmd.Root(), *c, cmd.OutOrStdout())
	default:
		return fmt.Errorf("no local handler for %s", c.Name())
	}
}

func newDispatcher(cmd *cobra.Command) *Dispatcher {
	logger := GetZapLogger()

	client := ipc.NewClient(cfg.Daemon.SocketPath, logger)
	client.Retries = cfg.Daemon.Retries
	client.RetryDelay = cfg.Daemon.RetryDelay
	client.Timeout = cfg.Daemon.Timeout

	var j *journal.Journal
	if cfg.Client.Journal {
		var err error
		if j, err = getJournal(); err != nil {
			logger.Warn("Journal unavailable, continuing without it", zap.Error(err))
		}
	}

	opts := format.DefaultOptions()
	opts.UseColors = cfg.Client.Colors

	return &Dispatcher{
		Client:    client,
		Journal:   j,
		Env:       translate.Host(),
		Formatter: format.New(opts),
		Out:       cmd.OutOrStdout(),
		Logger:    logger,
		Editor:    cfg.EditorCommand(),
		TempDir:   cfg.SystemPaths.TempDir,
	}
}

// Dispatch translates c, sends it and renders the reply.
func (d *Dispatcher) Dispatch(ctx context.Context, c command.Command) error {
	if c != nil {
		d.logger().Debug("Dispatching command", zap.String("command", c.Name()))
	}

	switch c := c.(type) {
	case command.Edit:
		return d.edit(ctx, c)
	case command.Show:
		return d.show(ctx, c)
	}

	msg, err := translate.Translate(c, d.Env)
	if err != nil {
		return err
	}
	resp, err := d.send(ctx, msg)
	if err != nil {
		return err
	}
	return d.render(c, resp)
}

func (d *Dispatcher) send(ctx context.Context, msg message.Message) (*message.Response, error) {
	resp, err := d.Client.Send(ctx, msg)
	d.record(msg, resp, err)
	return resp, err
}

func (d *Dispatcher) record(msg message.Message, resp *message.Response, sendErr error) {
	if d.Journal == nil {
		return
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		d.logger().Warn("Failed to encode journal payload", zap.Error(err))
		return
	}
	entry := journal.Entry{Kind: msg.Kind(), Payload: payload}
	switch {
	case resp != nil:
		entry.RequestID = resp.ID
		entry.Status = resp.Status
		entry.Reply = resp.Message
	case sendErr == nil:
		entry.Status = message.StatusOK
	case errors.Is(sendErr, ipc.ErrDaemonUnavailable):
		entry.Status = statusUnreachable
	default:
		entry.Status = statusFailed
		entry.Reply = sendErr.Error()
	}

	if _, err := d.Journal.Record(entry); err != nil {
		d.logger().Warn("Failed to record journal entry", zap.Error(err))
	}
}

func (d *Dispatcher) render(c command.Command, resp *message.Response) error {
	switch c := c.(type) {
	case command.Status:
		if c.JSON {
			return d.writeJSON(resp.Data)
		}
		var data message.StatusData
		if err := resp.DecodeData(&data); err != nil {
			return err
		}
		return d.println(d.Formatter.FormatStatus(data))
	case command.Log:
		if c.JSON {
			return d.writeJSON(resp.Data)
		}
		var data message.LogData
		if err := resp.DecodeData(&data); err != nil {
			return err
		}
		return d.println(d.Formatter.FormatLogs(data))
	default:
		return d.println(d.Formatter.FormatResponse(resp))
	}
}

func (d *Dispatcher) show(ctx context.Context, c command.Show) error {
	msg, err := translate.Translate(c, d.Env)
	if err != nil {
		return err
	}
	req, ok := msg.(message.StreamRequest)
	if !ok {
		return fmt.Errorf("show translated to unexpected %s message", msg.Kind())
	}

	err = d.Client.Stream(ctx, req, func(chunk message.StreamChunk) error {
		_, err := io.WriteString(d.Out, chunk.Text)
		return err
	})
	d.record(msg, nil, err)
	if c.Follow && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// edit asks the daemon for the task, lets the user change it in an editor
// and sends the result back.
func (d *Dispatcher) edit(ctx context.Context, c command.Edit) error {
	msg, err := translate.Translate(c, d.Env)
	if err != nil {
		return err
	}
	resp, err := d.send(ctx, msg)
	if err != nil {
		return err
	}
	var data message.EditData
	if err := resp.DecodeData(&data); err != nil {
		return err
	}

	edited, err := d.editText(ctx, data.Command, c.Path)
	if err != nil {
		return err
	}

	update := message.Edit{TaskID: data.TaskID, Command: edited, Path: data.Path}
	resp, err = d.send(ctx, update)
	if err != nil {
		return err
	}
	return d.println(d.Formatter.FormatResponse(resp))
}

const (
	editBufferPrefix = "edit"
	editBufferExt    = ".txt"
	staleEditAge     = time.Hour
)

// editText opens text in the editor and returns the result. The buffer is a
// temp file unless bufferPath is given; a user-supplied buffer is kept.
func (d *Dispatcher) editText(ctx context.Context, text, bufferPath string) (string, error) {
	path := bufferPath
	if path != "" {
		if err := os.WriteFile(path, []byte(text+"\n"), 0600); err != nil {
			return "", fmt.Errorf("failed to write edit buffer: %w", err)
		}
	} else {
		dir := d.TempDir
		if dir == "" {
			dir = os.TempDir()
		} else if err := utils.RemoveAllTempFiles(dir, editBufferPrefix, editBufferExt, staleEditAge); err != nil {
			// buffers left behind by editors that crashed or were killed
			d.logger().Warn("Failed to sweep stale edit buffers", zap.String("dir", dir), zap.Error(err))
		}
		var err error
		if path, err = utils.WriteTempFile(dir, editBufferPrefix, editBufferExt, text+"\n"); err != nil {
			return "", err
		}
		defer func() {
			if err := utils.RemoveTempFile(path); err != nil {
				d.logger().Warn("Failed to remove edit buffer", zap.String("path", path), zap.Error(err))
			}
		}()
	}

	runEditor := d.RunEditor
	if runEditor == nil {
		runEditor = launchEditor
	}
	d.logger().Debug("Launching editor", zap.String("editor", d.Editor), zap.String("path", path))
	if err := runEditor(ctx, d.Editor, path); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", d.Editor, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read edit buffer: %w", err)
	}
	edited := strings.TrimRight(string(data), "\r\n")
	if strings.TrimSpace(edited) == "" {
		return "", ErrEmptyEdit
	}
	return edited, nil
}

// launchEditor runs editor on path attached to the terminal. The editor
// setting may carry arguments, e.g. "code --wait".
func launchEditor(ctx context.Context, editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return fmt.Errorf("no editor configured")
	}
	cmd := exec.CommandContext(ctx, fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (d *Dispatcher) writeJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to format response data: %w", err)
	}
	buf.WriteByte('\n')
	_, err := d.Out.Write(buf.Bytes())
	return err
}

func (d *Dispatcher) println(s string) error {
	_, err := fmt.Fprintln(d.Out, s)
	return err
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
