package engine

import (
	"context"

	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

// Display is the engine's view of the display server: the queries it reads
// the world from, the layout commands it applies and the focus, input and
// EWMH requests it issues.
type Display interface {
	state.DataSource
	layout.Dispatcher

	SetBorderColor(w layout.Window, color uint32) error
	// Focus gives input focus to w, or back to the root for layout.None.
	Focus(w layout.Window) error
	// Close asks w to close through WM_DELETE_WINDOW, killing it when the
	// protocol is not supported.
	Close(w layout.Window) error
	Configure(req events.ConfigureRequest) error
	SendConfigureNotify(w layout.Window, r layout.Rect, border int) error
	SelectClientInput(w layout.Window) error
	SelectStrutInput(w layout.Window) error
	WarpPointer(x, y int) error
	GrabKeys(bindings []keys.Binding) error

	SetActiveWindow(w layout.Window) error
	SetClientList(windows []layout.Window) error
	SetDesktops(names []string) error
	SetCurrentDesktop(i int) error
	SetWindowDesktop(w layout.Window, i int) error
	SetFullscreenState(w layout.Window, on bool) error
}

// EventSource delivers display-server events until ctx is cancelled.
type EventSource interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// Launcher starts external programs.
type Launcher interface {
	Launch(command string) error
}

// Window type names that decide how a window is treated on map.
const (
	TypeDock         = "_NET_WM_WINDOW_TYPE_DOCK"
	TypeNotification = "_NET_WM_WINDOW_TYPE_NOTIFICATION"
	TypeSplash       = "_NET_WM_WINDOW_TYPE_SPLASH"
)

func hasType(types []string, want ...string) bool {
	for _, t := range types {
		for _, w := range want {
			if t == w {
				return true
			}
		}
	}
	return false
}
