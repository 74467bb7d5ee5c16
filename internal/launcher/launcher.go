// Package launcher starts user commands detached from the window manager
// and reaps them when they exit.
package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/eowm/eowm/internal/util"
)

// Shell runs every command.
const Shell = "/bin/sh"

// Launcher spawns commands through the shell in their own session.
type Launcher struct {
	logger *util.Logger
	shell  string

	mu      sync.Mutex
	started int
	reaped  int
}

// New returns a launcher that logs through logger.
func New(logger *util.Logger) *Launcher {
	return &Launcher{logger: logger, shell: Shell}
}

// Launch starts command without waiting for it. The child gets a new
// session so it outlives the window manager's terminal and process group.
func (l *Launcher) Launch(command string) error {
	if command == "" {
		return fmt.Errorf("empty command")
	}
	cmd := exec.Command(l.shell, "-c", command)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", command, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		l.logger.Debugf("release pid %d: %v", pid, err)
	}
	l.mu.Lock()
	l.started++
	l.mu.Unlock()
	l.logger.Debugf("spawned pid %d: %s", pid, command)
	return nil
}

// Reap collects exited children on every SIGCHLD until ctx is cancelled.
func (l *Launcher) Reap(ctx context.Context) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGCHLD)
	defer signal.Stop(sigs)
	l.reapAll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-sigs:
			l.reapAll()
		}
	}
}

// reapAll waits for every child that has already exited.
func (l *Launcher) reapAll() int {
	n := 0
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err == unix.EINTR {
			continue
		}
		if err != nil || pid <= 0 {
			break
		}
		n++
		l.logger.Tracef("reaped pid %d status %d", pid, status.ExitStatus())
	}
	if n > 0 {
		l.mu.Lock()
		l.reaped += n
		l.mu.Unlock()
	}
	return n
}

// Counts reports how many children were started and reaped.
func (l *Launcher) Counts() (started, reaped int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started, l.reaped
}
