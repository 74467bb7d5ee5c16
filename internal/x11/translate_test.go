package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/google/go-cmp/cmp"

	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
)

func TestLockCombos(t *testing.T) {
	got := lockCombos(keys.IgnoredMods)
	want := []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("lock combos mismatch (-want +got):\n%s", diff)
	}
	if got := lockCombos(0); len(got) != 1 || got[0] != 0 {
		t.Fatalf("no locks should grab once, got %v", got)
	}
}

func TestConfigureMaskRoundTrip(t *testing.T) {
	xmask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowHeight | xproto.ConfigWindowStackMode)
	ev := configureRequest(xproto.ConfigureRequestEvent{
		Window:    7,
		X:         -20,
		Y:         5,
		Width:     300,
		Height:    200,
		StackMode: xproto.StackModeBelow,
		ValueMask: xmask,
	})
	wantMask := events.ConfigureX | events.ConfigureHeight | events.ConfigureStackMode
	if ev.Mask != wantMask {
		t.Fatalf("mask = %b, want %b", ev.Mask, wantMask)
	}
	if ev.Window != 7 || ev.Rect != (layout.Rect{X: -20, Y: 5, Width: 300, Height: 200}) {
		t.Fatalf("request = %+v", ev)
	}

	mask, values := configureValues(ev)
	if mask != xmask {
		t.Fatalf("value mask = %b, want %b", mask, xmask)
	}
	want := []uint32{uint32(0xffffffec), 200, xproto.StackModeBelow}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigureValuesEmpty(t *testing.T) {
	mask, values := configureValues(events.ConfigureRequest{Window: 1})
	if mask != 0 || len(values) != 0 {
		t.Fatalf("empty request produced %b %v", mask, values)
	}
}

func TestFullscreenAction(t *testing.T) {
	const fs = xproto.Atom(99)
	tests := []struct {
		name string
		data []uint32
		want events.FullscreenAction
		ok   bool
	}{
		{"remove", []uint32{0, 99, 0, 1, 0}, events.FullscreenRemove, true},
		{"add second property", []uint32{1, 12, 99, 1, 0}, events.FullscreenAdd, true},
		{"toggle", []uint32{2, 99, 0, 1, 0}, events.FullscreenToggle, true},
		{"other state", []uint32{1, 12, 13, 1, 0}, 0, false},
		{"bad action", []uint32{7, 99, 0, 1, 0}, 0, false},
		{"short", []uint32{1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fullscreenAction(tt.data, fs)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("fullscreenAction = %v, %t; want %v, %t", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestSyntheticUnmap(t *testing.T) {
	const root = xproto.Window(1)
	if isSyntheticUnmap(xproto.UnmapNotifyEvent{Event: root, Window: 5}, root) {
		t.Fatalf("unmap reported through the root is genuine")
	}
	if !isSyntheticUnmap(xproto.UnmapNotifyEvent{Event: 5, Window: 5}, root) {
		t.Fatalf("unmap sent to the window itself is synthetic")
	}
	// ICCCM withdraw requests are addressed to the root.
	if isSyntheticUnmap(xproto.UnmapNotifyEvent{Event: root, Window: 9}, root) {
		t.Fatalf("withdraw request through the root must unmanage")
	}
}

func TestButtonPressNamesChild(t *testing.T) {
	ev := buttonPress(xproto.ButtonPressEvent{Event: 1, Child: 0x400002, Detail: 1})
	if ev.Window != 0x400002 {
		t.Fatalf("window = 0x%x, want the clicked child", uint32(ev.Window))
	}
	if ev := buttonPress(xproto.ButtonPressEvent{Event: 1}); ev.Window != layout.None {
		t.Fatalf("click on bare root named 0x%x", uint32(ev.Window))
	}
}

func TestStrutInsets(t *testing.T) {
	got := strutInsets(0, 4, 30, 0)
	if got != (layout.Insets{Right: 4, Top: 30}) {
		t.Fatalf("insets = %+v", got)
	}
}
