package pty

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Size represents terminal dimensions in rows and columns.
type Size struct {
	Rows uint16
	Cols uint16
}

// Runner is the interface for spawning and controlling a PTY.
// Implementations can be swapped (e.g. creack/pty, or a pipe for tests).
type Runner interface {
	Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error)
	Resize(rwc io.ReadWriteCloser, size Size) error
}

// CreackPTY implements Runner using github.com/creack/pty.
type CreackPTY struct{}

// Ensure CreackPTY implements Runner.
var _ Runner = (*CreackPTY)(nil)

// Start implements Runner. Spawns cmd in a PTY with the given size.
func (c *CreackPTY) Start(ctx context.Context, cmd *exec.Cmd, size Size) (io.ReadWriteCloser, error) {
	ws := &pty.Winsize{Rows: size.Rows, Cols: size.Cols}
	f, err := pty.StartWithSize(cmd, ws)
	if err != nil {
		return nil, err
	}
	// Context cancellation is handled by the Session that owns f.
	return f, nil
}

// Resize implements Runner. Resizes the PTY to the given dimensions.
// The rwc must be the *os.File returned by Start; other types are no-op.
func (c *CreackPTY) Resize(rwc io.ReadWriteCloser, size Size) error {
	f, ok := rwc.(*os.File)
	if !ok {
		return nil
	}
	return pty.Setsize(f, &pty.Winsize{Rows: size.Rows, Cols: size.Cols})
}

// Session streams the output of one command, line by line.
type Session struct {
	runner Runner
	rwc    io.ReadWriteCloser
	cmd    *exec.Cmd
	done   chan struct{}
	once   sync.Once
	err    error
}

// StartSession runs argv under runner and calls onLine for every output line
// from a background goroutine. onLine must be safe to call concurrently with
// the caller.
func StartSession(ctx context.Context, runner Runner, argv []string, dir string, size Size, onLine func(string)) (*Session, error) {
	if len(argv) == 0 {
		return nil, errors.New("pty: empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	rwc, err := runner.Start(ctx, cmd, size)
	if err != nil {
		return nil, err
	}
	s := &Session{runner: runner, rwc: rwc, cmd: cmd, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		sc := bufio.NewScanner(rwc)
		for sc.Scan() {
			onLine(sc.Text())
		}
		s.err = sc.Err()
	}()
	return s, nil
}

// Resize forwards new dimensions to the PTY.
func (s *Session) Resize(size Size) error {
	return s.runner.Resize(s.rwc, size)
}

// Done is closed when the output stream ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Err returns the read error that ended the stream, if any.
func (s *Session) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close kills the process, releases the PTY and waits for the reader.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		err = s.rwc.Close()
		<-s.done
		if s.cmd.Process != nil {
			_ = s.cmd.Wait()
		}
	})
	return err
}
