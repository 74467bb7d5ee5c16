package launcher

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eowm/eowm/internal/util"
)

func newTestLauncher() *Launcher {
	return New(util.NewLoggerWithWriter(util.LevelError, io.Discard))
}

func TestLaunchRunsThroughShellAndIsReaped(t *testing.T) {
	l := newTestLauncher()
	marker := filepath.Join(t.TempDir(), "ran")
	if err := l.Launch("echo ok > " + marker); err != nil {
		t.Fatalf("launch: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		l.reapAll()
		_, reaped := l.Counts()
		if _, err := os.Stat(marker); err == nil && reaped == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("child not run and reaped in time (reaped=%d)", reaped)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if started, _ := l.Counts(); started != 1 {
		t.Fatalf("started = %d", started)
	}
}

func TestLaunchRejectsEmptyCommand(t *testing.T) {
	if err := newTestLauncher().Launch(""); err == nil {
		t.Fatalf("expected error for empty command")
	}
}

func TestLaunchMissingShell(t *testing.T) {
	l := newTestLauncher()
	l.shell = filepath.Join(t.TempDir(), "no-such-shell")
	if err := l.Launch("true"); err == nil {
		t.Fatalf("expected start error")
	}
}

func TestReapStopsOnCancel(t *testing.T) {
	l := newTestLauncher()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Reap(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Reap did not return after cancel")
	}
}
