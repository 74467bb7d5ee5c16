package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/util"
)

type fakeTarget struct {
	applied []*config.Config
	err     error
	doErr   error
}

func (f *fakeTarget) Do(_ context.Context, fn func()) error {
	if f.doErr != nil {
		return f.doErr
	}
	fn()
	return nil
}

func (f *fakeTarget) Reload(cfg *config.Config) error {
	if f.err != nil {
		return f.err
	}
	f.applied = append(f.applied, cfg)
	return nil
}

const initialConfig = `
appearance:
  padding: 10
  borderWidth: 2
`

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(strings.TrimPrefix(body, "\n")), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func newTestReloader(t *testing.T, target reloadTarget) (*configReloader, string, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeConfig(t, path, initialConfig)
	cfg, err := config.Parse([]byte(initialConfig))
	if err != nil {
		t.Fatalf("parse initial config: %v", err)
	}
	var logs bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelDebug, &logs)
	return newConfigReloader(path, logger, target, cfg), path, &logs
}

func TestReloadRejectsInvalidConfigAndKeepsPrevious(t *testing.T) {
	target := &fakeTarget{}
	reloader, path, logs := newTestReloader(t, target)
	previous := reloader.lastConfig

	writeConfig(t, path, `
appearance:
  padding: -4
`)
	err := reloader.Reload(context.Background(), "test reason")
	if err == nil || !strings.Contains(err.Error(), "padding") {
		t.Fatalf("expected padding error, got %v", err)
	}
	if len(target.applied) != 0 {
		t.Fatalf("invalid config reached the engine")
	}
	if reloader.lastConfig != previous {
		t.Fatalf("last valid config replaced after a failed reload")
	}
	if !strings.Contains(logs.String(), "config change rejected; diff vs last valid config") {
		t.Fatalf("expected diff log, got %s", logs.String())
	}
}

func TestReloadAppliesValidConfig(t *testing.T) {
	target := &fakeTarget{}
	reloader, path, logs := newTestReloader(t, target)

	writeConfig(t, path, `
appearance:
  padding: 20
  borderWidth: 2
`)
	if err := reloader.Reload(context.Background(), "config file updated"); err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if len(target.applied) != 1 || target.applied[0].Appearance.Padding != 20 {
		t.Fatalf("engine did not receive the new config: %#v", target.applied)
	}
	if reloader.lastConfig.Appearance.Padding != 20 {
		t.Fatalf("last config not updated")
	}
	if !strings.Contains(logs.String(), "config changes:") {
		t.Fatalf("expected diff debug log, got %s", logs.String())
	}
}

func TestReloadEngineRejection(t *testing.T) {
	target := &fakeTarget{err: errors.New("bad key grab")}
	reloader, path, _ := newTestReloader(t, target)
	writeConfig(t, path, `
appearance:
  padding: 12
`)
	err := reloader.Reload(context.Background(), "received SIGHUP")
	if err == nil || !strings.Contains(err.Error(), "apply config: bad key grab") {
		t.Fatalf("Reload error = %v", err)
	}
	if reloader.lastConfig.Appearance.Padding != 10 {
		t.Fatalf("last config replaced after engine rejection")
	}
}

func TestReloadEngineStopped(t *testing.T) {
	stopped := errors.New("engine not running")
	reloader, _, _ := newTestReloader(t, &fakeTarget{doErr: stopped})
	if err := reloader.Reload(context.Background(), "test"); !errors.Is(err, stopped) {
		t.Fatalf("Reload error = %v", err)
	}
}

func TestReloadMissingFile(t *testing.T) {
	reloader, path, _ := newTestReloader(t, &fakeTarget{})
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove config: %v", err)
	}
	if err := reloader.Reload(context.Background(), "test"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"--config", "/tmp/eowm.yaml", "--log-level", "debug", "--no-control"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if opts.configPath != "/tmp/eowm.yaml" || opts.logLevel != "debug" || !opts.noControl {
		t.Fatalf("unexpected options: %#v", opts)
	}
	if _, err := parseFlags([]string{"--log-level", "loud"}); err == nil {
		t.Fatalf("expected invalid log level error")
	}
	if _, err := parseFlags([]string{"extra"}); err == nil {
		t.Fatalf("expected error for positional arguments")
	}
}
