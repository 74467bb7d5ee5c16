package state

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/eowm/eowm/internal/layout"
)

func TestWorldRandomLifecycleKeepsOwnership(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	w := NewWorld(nil, screenRect)
	var live []layout.Window
	next := layout.Window(1)

	for step := 0; step < 2000; step++ {
		switch op := rng.Intn(5); {
		case op < 2 || len(live) == 0:
			c := &Client{Window: next}
			ws := rng.Intn(NumWorkspaces)
			if err := w.Manage(c, ws, rng.Intn(4)); err != nil {
				t.Fatalf("manage: %v", err)
			}
			live = append(live, next)
			next++
		case op == 2:
			i := rng.Intn(len(live))
			if _, ok := w.Unmanage(live[i]); !ok {
				t.Fatalf("unmanage 0x%x failed", uint32(live[i]))
			}
			live = append(live[:i], live[i+1:]...)
		case op == 3:
			c, _ := w.Registry.Find(live[rng.Intn(len(live))])
			delta := 1
			if rng.Intn(2) == 0 {
				delta = -1
			}
			w.Workspace(c.Workspace).MoveColumn(c, delta, 6)
		default:
			c, _ := w.Registry.Find(live[rng.Intn(len(live))])
			if err := w.MoveToWorkspace(c, rng.Intn(NumWorkspaces)); err != nil {
				t.Fatalf("move: %v", err)
			}
		}
		if err := w.Check(); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if w.Registry.Len() != len(live) {
			t.Fatalf("step %d: registry has %d, want %d", step, w.Registry.Len(), len(live))
		}
	}
}

func TestFocusedIgnoresStaleWindows(t *testing.T) {
	w := NewWorld(nil, screenRect)
	c := &Client{Window: 10}
	if err := w.Manage(c, 0, 0); err != nil {
		t.Fatal(err)
	}
	ws := w.Current()
	ws.Focused = c.Window
	if w.Focused(ws) != c {
		t.Fatalf("expected focused client")
	}
	c.Hidden = true
	if w.Focused(ws) != nil {
		t.Fatalf("hidden client must not count as focused")
	}
	c.Hidden = false
	w.Unmanage(c.Window)
	if w.Focused(ws) != nil || ws.Focused != layout.None {
		t.Fatalf("removed client must not stay focused")
	}
}

func TestManageRejectsDuplicatesAndBadWorkspace(t *testing.T) {
	w := NewWorld([]string{"web", "code"}, screenRect)
	if err := w.Manage(&Client{Window: 1}, 0, 0); err != nil {
		t.Fatal(err)
	}
	if err := w.Manage(&Client{Window: 1}, 1, 0); err == nil {
		t.Fatalf("duplicate manage should fail")
	}
	if err := w.Manage(&Client{Window: 2}, NumWorkspaces, 0); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("err = %v, want ErrNoWorkspace", err)
	}
	if err := w.SetCurrent(-1); !errors.Is(err, ErrNoWorkspace) {
		t.Fatalf("SetCurrent(-1) err = %v", err)
	}
	if got := w.Names(); got[0] != "web" || got[2] != "3" {
		t.Fatalf("names = %v", got)
	}
	if err := w.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestSnapshotMarksFocus(t *testing.T) {
	w := NewWorld(nil, screenRect)
	w.Manage(&Client{Window: 1, Class: "XTerm"}, 0, 0)
	w.Manage(&Client{Window: 2}, 0, 0)
	w.Current().Focused = 2
	snap := w.Snapshot()
	if snap.Clients() != 2 {
		t.Fatalf("snapshot clients = %d", snap.Clients())
	}
	clients := snap.Workspaces[0].Clients
	if clients[0].Focused || !clients[1].Focused {
		t.Fatalf("focus flags wrong: %+v", clients)
	}
	if clients[0].Class != "XTerm" {
		t.Fatalf("class not copied: %+v", clients[0])
	}
}
