package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eowm/eowm/internal/control/client"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/state"
)

type fakeController struct {
	socket    string
	workspace int
	op, arg   string
	reloaded  bool
	err       error
}

func (f *fakeController) State(context.Context) (client.State, error) {
	return state.Snapshot{
		Monitors: []state.Monitor{{Name: "DP-1", Rect: layout.Rect{Width: 1920, Height: 1080}}},
		Workspaces: []state.WorkspaceSnapshot{{
			Index:   0,
			Name:    "1",
			Columns: 1,
			Clients: []state.ClientSnapshot{{Window: 0x400001, Class: "XTerm", Focused: true}},
		}},
	}, f.err
}

func (f *fakeController) SetWorkspace(_ context.Context, index int) error {
	f.workspace = index
	return f.err
}

func (f *fakeController) Exec(_ context.Context, op, arg string) error {
	f.op, f.arg = op, arg
	return f.err
}

func (f *fakeController) Reload(context.Context) error {
	f.reloaded = true
	return f.err
}

func (f *fakeController) Metrics(context.Context) (client.Metrics, error) {
	return metrics.Snapshot{
		Enabled: true,
		Totals:  metrics.Totals{Events: 7, Managed: 3},
		Events:  []metrics.EventMetrics{{Kind: "map-request", Handled: 3}, {Kind: "key-press", Handled: 4}},
		Actions: []metrics.ActionMetrics{{Action: "spawn", Runs: 2}},
	}, f.err
}

func (f *fakeController) RecentEvents(context.Context) ([]client.EventRecord, error) {
	return []client.EventRecord{{Detail: "map-request 0x400001"}}, f.err
}

func execute(t *testing.T, fake *fakeController, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(func(socket string) (controller, error) {
		fake.socket = socket
		return fake, nil
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestStateCommand(t *testing.T) {
	fake := &fakeController{}
	out, err := execute(t, fake, "--socket", "/tmp/test.sock", "state")
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if fake.socket != "/tmp/test.sock" {
		t.Fatalf("socket flag not passed, got %q", fake.socket)
	}
	if !strings.Contains(out, "*0x400001") || !strings.Contains(out, "XTerm") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestWorkspaceCommand(t *testing.T) {
	fake := &fakeController{}
	out, err := execute(t, fake, "workspace", "3")
	if err != nil {
		t.Fatalf("workspace: %v", err)
	}
	if fake.workspace != 3 || !strings.Contains(out, "Switched to workspace 3") {
		t.Fatalf("workspace = %d, output %q", fake.workspace, out)
	}
	if _, err := execute(t, &fakeController{}, "workspace", "three"); err == nil {
		t.Fatalf("expected error for non-numeric workspace")
	}
}

func TestExecCommand(t *testing.T) {
	fake := &fakeController{}
	if _, err := execute(t, fake, "exec", "column.move", "-1"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if fake.op != "column.move" || fake.arg != "-1" {
		t.Fatalf("op=%q arg=%q", fake.op, fake.arg)
	}

	fake = &fakeController{}
	if _, err := execute(t, fake, "exec", "fullscreen.toggle"); err != nil {
		t.Fatalf("exec without argument: %v", err)
	}
	if fake.op != "fullscreen.toggle" || fake.arg != "" {
		t.Fatalf("op=%q arg=%q", fake.op, fake.arg)
	}
}

func TestReloadCommandError(t *testing.T) {
	fake := &fakeController{err: errors.New("decode config: bad")}
	_, err := execute(t, fake, "reload")
	if err == nil || err.Error() != "decode config: bad" {
		t.Fatalf("reload error = %v", err)
	}
	if !fake.reloaded {
		t.Fatalf("reload not sent")
	}
}

func TestMetricsCommand(t *testing.T) {
	out, err := execute(t, &fakeController{}, "metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	for _, want := range []string{"Events: 7 (errors 0)", "Windows managed: 3", "key-press", "spawn"} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "key-press") > strings.Index(out, "map-request") {
		t.Fatalf("event kinds not sorted:\n%s", out)
	}
}

func TestEventsCommand(t *testing.T) {
	out, err := execute(t, &fakeController{}, "events")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if !strings.Contains(out, "map-request 0x400001") {
		t.Fatalf("unexpected output %q", out)
	}
}

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestCheckSuccess(t *testing.T) {
	path := writeTempConfig(t, "appearance:\n  padding: 8\n")
	out, err := execute(t, &fakeController{}, "check", "--config", path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.TrimSpace(out) != "Configuration OK" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCheckFailure(t *testing.T) {
	path := writeTempConfig(t, "layout:\n  maxColumns: 0\n")
	out, err := execute(t, &fakeController{}, "check", "--config", path)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	if !strings.Contains(out, "maxColumns") {
		t.Fatalf("expected reason in output, got %q", out)
	}
	if _, err := execute(t, &fakeController{}, "check"); err == nil {
		t.Fatalf("expected error without --config")
	}
}
