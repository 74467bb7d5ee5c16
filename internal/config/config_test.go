package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eowm/eowm/internal/keys"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	table, err := cfg.KeyTable()
	if err != nil {
		t.Fatalf("default key table: %v", err)
	}
	b, ok := table.Lookup(keys.Mod1|keys.ModShift, "3")
	if !ok || b.Action != keys.WorkspaceSend || b.Arg.Workspace != 2 {
		t.Fatalf("Mod1-Shift-3 = %+v, %v", b, ok)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
logLevel: debug
appearance:
  padding: 0
  borderFocused: "#FF0000"
rules:
  - class: mpv
    workspace: 4
keys:
  - bind: Super-Return
    action: spawn
    command: xterm
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Appearance.Padding != 0 || cfg.Appearance.BorderWidth != 2 {
		t.Fatalf("appearance = %+v", cfg.Appearance)
	}
	if cfg.Appearance.BorderFocused != 0xff0000 {
		t.Fatalf("borderFocused = %s", cfg.Appearance.BorderFocused)
	}
	want := []RuleConfig{{Class: "mpv", Workspace: 4}}
	if diff := cmp.Diff(want, cfg.Rules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Keys) != 1 {
		t.Fatalf("keys should replace defaults, got %d", len(cfg.Keys))
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad color":       "appearance:\n  borderNormal: grey\n",
		"negative pad":    "appearance:\n  padding: -1\n",
		"bad level":       "logLevel: loud\n",
		"rule workspace":  "rules:\n  - class: a\n    workspace: 10\n",
		"empty rule":      "rules:\n  - floating: true\n",
		"unknown action":  "keys:\n  - bind: Mod1-x\n    action: explode\n",
		"missing delta":   "keys:\n  - bind: Mod1-x\n    action: column.move\n",
		"two args":        "keys:\n  - bind: Mod1-x\n    action: spawn\n    command: a\n    delta: 1\n",
		"arg on none":     "keys:\n  - bind: Mod1-x\n    action: quit\n    delta: 1\n",
		"bad combo":       "keys:\n  - bind: Hyper-x\n    action: quit\n",
		"duplicate combo": "keys:\n  - bind: Mod1-x\n    action: quit\n  - bind: Alt-x\n    action: focus.next\n",
		"zero columns":    "layout:\n  maxColumns: 0\n",
	}
	for name, doc := range tests {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, found, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if found {
		t.Fatalf("found = true for missing file")
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("fallback differs from defaults:\n%s", diff)
	}
}

func TestLoadReportsDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("appearance: [\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, found, err := LoadOrDefault(path)
	if err == nil || !found {
		t.Fatalf("expected decode error, got found=%v err=%v", found, err)
	}
	if !strings.Contains(err.Error(), "decode config") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestMarshalRoundTripsColors(t *testing.T) {
	data, err := Default().Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "#ececec") {
		t.Fatalf("colour not rendered as hex:\n%s", data)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("re-parse marshalled defaults: %v", err)
	}
	if cfg.Appearance.BorderNormal != 0x999999 {
		t.Fatalf("borderNormal = %s", cfg.Appearance.BorderNormal)
	}
}
