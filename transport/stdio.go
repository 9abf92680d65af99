package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/toolwire/mcp-go/protocol"
)

// maxLineSize bounds a single inbound message line.
const maxLineSize = 10 * 1024 * 1024

// StdioTransport exchanges newline-delimited JSON messages over a pair
// of byte streams, typically a child process's stdio.
//
// Two background workers bridge the streams to the Transport API: a
// reader scans stdout line by line and a writer drains an unbounded
// outbound queue, so Send never blocks the caller and read and write
// cadence stay decoupled.
type StdioTransport struct {
	cmd *exec.Cmd // nil when attached to existing streams
	in  io.Reader
	out io.Writer
	log *slog.Logger

	inbound chan protocol.Message
	quit    chan struct{}

	mu       sync.Mutex
	cond     *sync.Cond
	outbound []protocol.Message
	closed   bool

	procDone   chan struct{}
	writerDone chan struct{}
}

// StdioOption configures a StdioTransport.
type StdioOption func(*StdioTransport)

// WithLogger sets the logger used for skipped lines and worker errors.
// The default discards all output.
func WithLogger(log *slog.Logger) StdioOption {
	return func(t *StdioTransport) {
		t.log = log
	}
}

// Spawn launches command with piped stdin/stdout and inherited stderr,
// and returns a transport connected to the child. The child is killed
// when the transport is closed.
func Spawn(command string, args []string, opts ...StdioOption) (*StdioTransport, error) {
	cmd := exec.Command(command, args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}

	t := newStdioTransport(cmd, stdout, stdin, opts...)

	go func() {
		_ = cmd.Wait()
		close(t.procDone)
	}()

	return t, nil
}

// NewStdioTransport attaches a transport to existing streams. This is
// how a server speaks over its own stdin/stdout, and how tests wire
// two endpoints together with in-memory pipes.
func NewStdioTransport(in io.Reader, out io.Writer, opts ...StdioOption) *StdioTransport {
	return newStdioTransport(nil, in, out, opts...)
}

func newStdioTransport(cmd *exec.Cmd, in io.Reader, out io.Writer, opts ...StdioOption) *StdioTransport {
	t := &StdioTransport{
		cmd:        cmd,
		in:         in,
		out:        out,
		log:        slog.New(slog.DiscardHandler),
		inbound:    make(chan protocol.Message, 16),
		quit:       make(chan struct{}),
		procDone:   make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	t.cond = sync.NewCond(&t.mu)

	for _, opt := range opts {
		opt(t)
	}

	go t.readLoop()
	go t.writeLoop()

	return t
}

// Send enqueues a message for the writer worker. It returns ErrClosed
// if the transport has shut down; it never blocks on peer I/O.
func (t *StdioTransport) Send(msg protocol.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	t.outbound = append(t.outbound, msg)
	t.cond.Signal()
	return nil
}

// Receive yields the next inbound message. It returns ErrClosed when
// the stream has ended and ctx.Err() if the context is done first.
func (t *StdioTransport) Receive(ctx context.Context) (protocol.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-t.inbound:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	}
}

// IsRunning reports whether the child process is still alive. It is a
// non-blocking poll; transports attached to plain streams always
// report true.
func (t *StdioTransport) IsRunning() bool {
	if t.cmd == nil {
		return true
	}
	select {
	case <-t.procDone:
		return false
	default:
		return true
	}
}

// Close stops both workers and force-kills the child process, if any.
// It is safe to call more than once.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.cond.Broadcast()
	t.mu.Unlock()

	close(t.quit)

	// Closing the streams unblocks both workers. For a spawned child
	// the kill below closes its end of the pipes as well.
	if c, ok := t.out.(io.Closer); ok {
		_ = c.Close()
	}
	if c, ok := t.in.(io.Closer); ok {
		_ = c.Close()
	}

	if t.cmd != nil && t.cmd.Process != nil {
		_ = t.cmd.Process.Kill()
	}

	<-t.writerDone
	return nil
}

// readLoop scans newline-delimited messages until EOF. Blank lines are
// skipped; lines that fail to decode are logged and skipped without
// terminating the loop.
func (t *StdioTransport) readLoop() {
	defer close(t.inbound)

	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		msg, err := protocol.DecodeMessage([]byte(line))
		if err != nil {
			t.log.Warn("skipping malformed message", "error", err, "line", line)
			continue
		}

		select {
		case t.inbound <- msg:
		case <-t.quit:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		t.log.Debug("reader stopped", "error", err)
	}
}

// writeLoop drains the outbound queue, writing one JSON line per
// message and flushing after each write.
func (t *StdioTransport) writeLoop() {
	defer close(t.writerDone)

	w := bufio.NewWriter(t.out)

	for {
		t.mu.Lock()
		for len(t.outbound) == 0 && !t.closed {
			t.cond.Wait()
		}
		if len(t.outbound) == 0 && t.closed {
			t.mu.Unlock()
			return
		}
		msg := t.outbound[0]
		t.outbound = t.outbound[1:]
		t.mu.Unlock()

		data, err := protocol.EncodeMessage(msg)
		if err != nil {
			t.log.Error("failed to encode message", "error", err)
			continue
		}

		if _, err := w.Write(append(data, '\n')); err != nil {
			t.log.Debug("writer stopped", "error", err)
			return
		}
		if err := w.Flush(); err != nil {
			t.log.Debug("writer stopped", "error", err)
			return
		}
	}
}
