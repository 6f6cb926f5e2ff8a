package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/berrythewa/pueue/internal/message"
)

const (
	// Default socket path for Unix systems
	DefaultSocketPath = "/tmp/pueue.sock"

	defaultRetries    = 3
	defaultRetryDelay = 200 * time.Millisecond
	defaultTimeout    = 10 * time.Second
)

var (
	// ErrDaemonUnavailable indicates that the daemon socket could not be reached.
	ErrDaemonUnavailable = errors.New("daemon unavailable")

	// ErrDaemonError indicates that the daemon answered with an error status.
	ErrDaemonError = errors.New("daemon returned an error")
)

// Client sends messages to the daemon over a unix socket. Only connecting is
// retried; once a request has been written it is never sent again.
type Client struct {
	SocketPath string
	Retries    uint64
	RetryDelay time.Duration
	// Timeout bounds a request/response exchange when ctx has no deadline.
	// Streams with Follow set are bounded only by ctx.
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a client with default retry settings.
func NewClient(socketPath string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		SocketPath: socketPath,
		Retries:    defaultRetries,
		RetryDelay: defaultRetryDelay,
		Timeout:    defaultTimeout,
		Logger:     logger,
	}
}

func (c *Client) socketPath() string {
	if c.SocketPath == "" {
		return DefaultSocketPath
	}
	return c.SocketPath
}

func (c *Client) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// dial connects to the daemon, retrying with exponential backoff.
func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	var conn net.Conn
	var d net.Dialer

	op := func() error {
		var err error
		conn, err = d.DialContext(ctx, "unix", c.socketPath())
		return err
	}

	bo := backoff.NewExponentialBackOff()
	if c.RetryDelay > 0 {
		bo.InitialInterval = c.RetryDelay
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.Retries), ctx)

	notify := func(err error, wait time.Duration) {
		c.logger().Debug("Daemon not reachable, retrying",
			zap.String("socket", c.socketPath()),
			zap.Duration("wait", wait),
			zap.Error(err))
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDaemonUnavailable, err)
	}
	return conn, nil
}

// exchange writes req and returns a decoder positioned at the reply. The
// connection is closed when ctx is done.
func (c *Client) exchange(ctx context.Context, req *Request, bounded bool) (net.Conn, *json.Decoder, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, nil, err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	} else if bounded && c.Timeout > 0 {
		conn.SetDeadline(time.Now().Add(c.Timeout))
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		stop()
		conn.Close()
		return nil, nil, fmt.Errorf("failed to send request: %w", err)
	}
	c.logger().Debug("Request sent",
		zap.String("id", req.ID),
		zap.String("kind", req.Kind))

	return &stoppingConn{Conn: conn, stop: stop}, json.NewDecoder(conn), nil
}

// Send delivers msg and waits for the daemon's response. A response with an
// error status is returned together with an error wrapping ErrDaemonError.
func (c *Client) Send(ctx context.Context, msg message.Message) (*message.Response, error) {
	req, err := Encode(msg)
	if err != nil {
		return nil, err
	}

	conn, dec, err := c.exchange(ctx, req, true)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return readResponse(ctx, dec, req)
}

// Stream delivers a stream request and passes every output chunk to fn until
// the daemon marks the stream done or closes the connection.
func (c *Client) Stream(ctx context.Context, msg message.StreamRequest, fn func(message.StreamChunk) error) error {
	req, err := Encode(msg)
	if err != nil {
		return err
	}

	conn, dec, err := c.exchange(ctx, req, !msg.Follow)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := readResponse(ctx, dec, req); err != nil {
		return err
	}

	for {
		var chunk message.StreamChunk
		if err := dec.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to read stream: %w", err)
		}
		if chunk.Text != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
		if chunk.Done {
			return nil
		}
	}
}

func readResponse(ctx context.Context, dec *json.Decoder, req *Request) (*message.Response, error) {
	var resp message.Response
	if err := dec.Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.ID != "" && resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	if !resp.OK() {
		return &resp, fmt.Errorf("%w: %s", ErrDaemonError, resp.Message)
	}
	return &resp, nil
}

type stoppingConn struct {
	net.Conn
	stop func() bool
}

func (c *stoppingConn) Close() error {
	c.stop()
	return c.Conn.Close()
}

// ResponseWriter answers a single request on the server side.
type ResponseWriter struct {
	id  string
	enc *json.Encoder
}

// Respond sends the response for the request. The request id is filled in.
func (w *ResponseWriter) Respond(resp *message.Response) error {
	resp.ID = w.id
	return w.enc.Encode(resp)
}

// Chunk sends one piece of stream output after the response.
func (w *ResponseWriter) Chunk(chunk message.StreamChunk) error {
	return w.enc.Encode(chunk)
}

// Handler serves one decoded message.
type Handler func(ctx context.Context, msg message.Message, w *ResponseWriter)

// Listen removes a stale socket at socketPath and listens on it.
func Listen(socketPath string) (net.Listener, error) {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove any stale socket
	os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on socket: %w", err)
	}
	return ln, nil
}

// Serve accepts connections on ln until ctx is done, handling each in its own
// goroutine. The listener is closed on return.
func Serve(ctx context.Context, ln net.Listener, handler Handler) error {
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer ln.Close()

	// Accept errors such as EMFILE persist for a while; back off between tries.
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 5 * time.Millisecond
	bo.MaxInterval = time.Second
	bo.MaxElapsedTime = 0

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(bo.NextBackOff()):
			}
			continue
		}
		bo.Reset()
		go handleConn(ctx, conn, handler)
	}
}

// ListenAndServe starts the IPC server and handles requests using the given handler.
func ListenAndServe(ctx context.Context, socketPath string, handler Handler) error {
	ln, err := Listen(socketPath)
	if err != nil {
		return err
	}
	defer os.Remove(ln.Addr().String())
	return Serve(ctx, ln, handler)
}

func handleConn(ctx context.Context, conn net.Conn, handler Handler) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(message.ErrorResponse("", "invalid request: "+err.Error()))
		return
	}
	msg, err := Decode(&req)
	if err != nil {
		enc.Encode(message.ErrorResponse(req.ID, err.Error()))
		return
	}
	handler(ctx, msg, &ResponseWriter{id: req.ID, enc: enc})
}
