package rpc

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"sync"

	"github.com/wagiedev/enigma-go/internal/config"
)

// DialTCP returns a dialer connecting to a QIX engine at addr.
func DialTCP(addr string) config.Dialer {
	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		var d net.Dialer

		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("dial %s: %w", addr, err)
		}

		return conn, nil
	}
}

// DialCommand returns a dialer that spawns name with args and speaks to it
// over its stdin and stdout. Stderr lines are logged at debug level.
func DialCommand(log *slog.Logger, name string, args ...string) config.Dialer {
	log = log.With("component", "rpc_command", "command", name)

	return func(ctx context.Context) (io.ReadWriteCloser, error) {
		//nolint:gosec // G204: the command line is supplied by the caller
		cmd := exec.Command(name, args...)

		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("stdout pipe: %w", err)
		}

		stderr, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("stderr pipe: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := cmd.Start(); err != nil {
			log.Error("Failed to start engine process", "error", err)

			return nil, fmt.Errorf("start process: %w", err)
		}

		log.Info("Engine process started", "pid", cmd.Process.Pid)

		pc := &processConn{log: log, cmd: cmd, stdin: stdin, stdout: stdout}

		pc.stderrWg.Go(func() {
			scanner := bufio.NewScanner(stderr)
			for scanner.Scan() {
				log.Debug("Engine stderr", "line", scanner.Text())
			}
		})

		return pc, nil
	}
}

// processConn adapts a child process's stdio to io.ReadWriteCloser.
type processConn struct {
	log      *slog.Logger
	cmd      *exec.Cmd
	stdin    io.WriteCloser
	stdout   io.ReadCloser
	stderrWg sync.WaitGroup

	closeOnce sync.Once
	closeErr  error
}

func (p *processConn) Read(b []byte) (int, error) { return p.stdout.Read(b) }

func (p *processConn) Write(b []byte) (int, error) { return p.stdin.Write(b) }

// Close closes stdin, kills the process, and reaps it.
func (p *processConn) Close() error {
	p.closeOnce.Do(func() {
		if err := p.stdin.Close(); err != nil {
			p.log.Debug("Error closing stdin", "error", err)
		}

		if err := p.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			p.log.Debug("Error killing engine process", "error", err)
		}

		p.stderrWg.Wait()

		if err := p.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !stderrors.As(err, &exitErr) {
				p.closeErr = fmt.Errorf("wait for process: %w", err)
			}
		}

		p.log.Debug("Engine process stopped")
	})

	return p.closeErr
}
