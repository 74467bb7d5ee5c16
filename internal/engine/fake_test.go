package engine

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/state"
	"github.com/eowm/eowm/internal/util"
)

var errBadWindow = errors.New("BadWindow")

type fakeWindow struct {
	attrs     state.WindowAttributes
	types     []string
	strut     layout.Insets
	class     string
	instance  string
	transient bool
	geom      layout.Rect
	mapped    bool
	border    int
	color     uint32
}

// fakeDisplay records every request the engine makes.
type fakeDisplay struct {
	windows map[layout.Window]*fakeWindow
	outputs []state.Output
	screen  layout.Rect

	focused       layout.Window
	active        layout.Window
	clientList    []layout.Window
	desktop       int
	desktopNames  []string
	windowDesktop map[layout.Window]int
	fullscreen    map[layout.Window]bool
	closed        []layout.Window
	notified      map[layout.Window]layout.Rect
	configured    []events.ConfigureRequest
	warps         [][2]int
	grabbed       []keys.Binding
	unmapped      []layout.Window
	raised        []layout.Window
	moves         int
}

func newFakeDisplay() *fakeDisplay {
	return &fakeDisplay{
		windows:       make(map[layout.Window]*fakeWindow),
		screen:        layout.Rect{Width: 1920, Height: 1080},
		windowDesktop: make(map[layout.Window]int),
		fullscreen:    make(map[layout.Window]bool),
		notified:      make(map[layout.Window]layout.Rect),
	}
}

func (f *fakeDisplay) add(w layout.Window, win *fakeWindow) {
	if win.geom.Empty() {
		win.geom = layout.Rect{Width: 640, Height: 480}
	}
	f.windows[w] = win
}

func (f *fakeDisplay) win(w layout.Window) (*fakeWindow, error) {
	win, ok := f.windows[w]
	if !ok {
		return nil, errBadWindow
	}
	return win, nil
}

func (f *fakeDisplay) Attributes(w layout.Window) (state.WindowAttributes, error) {
	win, err := f.win(w)
	if err != nil {
		return state.WindowAttributes{}, err
	}
	attrs := win.attrs
	attrs.Viewable = win.mapped
	return attrs, nil
}

func (f *fakeDisplay) WindowTypes(w layout.Window) ([]string, error) {
	win, err := f.win(w)
	if err != nil {
		return nil, err
	}
	return win.types, nil
}

func (f *fakeDisplay) Strut(w layout.Window) (layout.Insets, error) {
	win, err := f.win(w)
	if err != nil {
		return layout.Insets{}, err
	}
	return win.strut, nil
}

func (f *fakeDisplay) Class(w layout.Window) (string, string, error) {
	win, err := f.win(w)
	if err != nil {
		return "", "", err
	}
	return win.class, win.instance, nil
}

func (f *fakeDisplay) IsTransient(w layout.Window) (bool, error) {
	win, err := f.win(w)
	if err != nil {
		return false, err
	}
	return win.transient, nil
}

func (f *fakeDisplay) Geometry(w layout.Window) (layout.Rect, error) {
	win, err := f.win(w)
	if err != nil {
		return layout.Rect{}, err
	}
	return win.geom, nil
}

func (f *fakeDisplay) Outputs() ([]state.Output, error) { return f.outputs, nil }
func (f *fakeDisplay) Screen() layout.Rect              { return f.screen }

func (f *fakeDisplay) TopLevel() ([]layout.Window, error) {
	var out []layout.Window
	for w := range f.windows {
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeDisplay) MoveResize(w layout.Window, r layout.Rect) error {
	win, err := f.win(w)
	if err != nil {
		return err
	}
	f.moves++
	win.geom = r
	return nil
}

func (f *fakeDisplay) SetBorderWidth(w layout.Window, width int) error {
	win, err := f.win(w)
	if err != nil {
		return err
	}
	win.border = width
	return nil
}

func (f *fakeDisplay) Show(w layout.Window) error {
	win, err := f.win(w)
	if err != nil {
		return err
	}
	win.mapped = true
	return nil
}

func (f *fakeDisplay) Hide(w layout.Window) error {
	win, err := f.win(w)
	if err != nil {
		return err
	}
	win.mapped = false
	f.unmapped = append(f.unmapped, w)
	return nil
}

func (f *fakeDisplay) Raise(w layout.Window) error {
	f.raised = append(f.raised, w)
	return nil
}

func (f *fakeDisplay) SetBorderColor(w layout.Window, color uint32) error {
	win, err := f.win(w)
	if err != nil {
		return err
	}
	win.color = color
	return nil
}

func (f *fakeDisplay) Focus(w layout.Window) error {
	f.focused = w
	return nil
}

func (f *fakeDisplay) Close(w layout.Window) error {
	f.closed = append(f.closed, w)
	return nil
}

func (f *fakeDisplay) Configure(req events.ConfigureRequest) error {
	f.configured = append(f.configured, req)
	return nil
}

func (f *fakeDisplay) SendConfigureNotify(w layout.Window, r layout.Rect, _ int) error {
	f.notified[w] = r
	return nil
}

func (f *fakeDisplay) SelectClientInput(layout.Window) error { return nil }
func (f *fakeDisplay) SelectStrutInput(layout.Window) error  { return nil }

func (f *fakeDisplay) WarpPointer(x, y int) error {
	f.warps = append(f.warps, [2]int{x, y})
	return nil
}

func (f *fakeDisplay) GrabKeys(bindings []keys.Binding) error {
	f.grabbed = bindings
	return nil
}

func (f *fakeDisplay) SetActiveWindow(w layout.Window) error {
	f.active = w
	return nil
}

func (f *fakeDisplay) SetClientList(windows []layout.Window) error {
	f.clientList = windows
	return nil
}

func (f *fakeDisplay) SetDesktops(names []string) error {
	f.desktopNames = names
	return nil
}

func (f *fakeDisplay) SetCurrentDesktop(i int) error {
	f.desktop = i
	return nil
}

func (f *fakeDisplay) SetWindowDesktop(w layout.Window, i int) error {
	f.windowDesktop[w] = i
	return nil
}

func (f *fakeDisplay) SetFullscreenState(w layout.Window, on bool) error {
	f.fullscreen[w] = on
	return nil
}

// echoUnmaps delivers the UnmapNotify events for every unmap issued so far.
func (f *fakeDisplay) echoUnmaps(t *testing.T, e *Engine) {
	t.Helper()
	pending := f.unmapped
	f.unmapped = nil
	for _, w := range pending {
		if err := e.Handle(events.UnmapNotify{Window: w}); err != nil {
			t.Fatalf("unmap echo 0x%x: %v", uint32(w), err)
		}
	}
}

type chanSource struct {
	ch chan events.Event
}

func (s chanSource) Subscribe(context.Context) (<-chan events.Event, error) {
	return s.ch, nil
}

type recordingLauncher struct {
	commands []string
}

func (l *recordingLauncher) Launch(cmd string) error {
	l.commands = append(l.commands, cmd)
	return nil
}

func newTestEngine(t testing.TB, d *fakeDisplay, mutate func(*config.Config)) (*Engine, *recordingLauncher) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	launcher := &recordingLauncher{}
	logger := util.NewLoggerWithWriter(util.LevelError, io.Discard)
	e, err := New(d, chanSource{ch: make(chan events.Event)}, launcher, logger, metrics.NewCollector(true), cfg)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := e.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return e, launcher
}

// mapNew creates window w on the fake display and sends its MapRequest.
func mapNew(t testing.TB, e *Engine, d *fakeDisplay, w layout.Window, win *fakeWindow) {
	t.Helper()
	if win == nil {
		win = &fakeWindow{}
	}
	d.add(w, win)
	if err := e.Handle(events.MapRequest{Window: w}); err != nil {
		t.Fatalf("map 0x%x: %v", uint32(w), err)
	}
	checkInvariants(t, e)
}

func checkInvariants(t testing.TB, e *Engine) {
	t.Helper()
	if err := e.world.Check(); err != nil {
		t.Fatalf("model invariant: %v", err)
	}
	cur := e.world.Current()
	if c := e.world.Focused(cur); c != nil && (c.Hidden || c.Workspace != cur.Index) {
		t.Fatalf("focus on invalid client %+v", c)
	}
}

func exec(t testing.TB, e *Engine, action keys.Action, arg keys.Arg) {
	t.Helper()
	if err := e.Exec(action, arg); err != nil {
		t.Fatalf("exec %s: %v", action, err)
	}
	checkInvariants(t, e)
}

func inner(r layout.Rect, bw int) layout.Rect {
	return innerGeometry(r, bw)
}
