package engine

import (
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

// applier executes plans, keeping client state in step with the commands
// sent to the display.
type applier struct {
	e       *Engine
	borders map[layout.Window]int
}

func (a *applier) client(w layout.Window) *state.Client {
	c, _ := a.e.world.Registry.Find(w)
	return c
}

func (a *applier) borderFor(w layout.Window) int {
	if bw, ok := a.borders[w]; ok {
		return bw
	}
	if c := a.client(w); c != nil && c.Fullscreen {
		return 0
	}
	return a.e.settings.Params.BorderWidth
}

// MoveResize records the outer rectangle and sends the inner geometry.
func (a *applier) MoveResize(w layout.Window, r layout.Rect) error {
	if c := a.client(w); c != nil {
		c.Geometry = r
	}
	return a.e.display.MoveResize(w, innerGeometry(r, a.borderFor(w)))
}

func (a *applier) SetBorderWidth(w layout.Window, width int) error {
	a.borders[w] = width
	return a.e.display.SetBorderWidth(w, width)
}

// Show maps a hidden client. Clients that are already visible are left
// alone.
func (a *applier) Show(w layout.Window) error {
	c := a.client(w)
	if c == nil {
		return a.e.display.Show(w)
	}
	if !c.Hidden {
		return nil
	}
	c.Hidden = false
	return a.e.display.Show(w)
}

// Hide unmaps a visible client and remembers to ignore the resulting
// UnmapNotify.
func (a *applier) Hide(w layout.Window) error {
	c := a.client(w)
	if c == nil {
		return a.e.display.Hide(w)
	}
	if c.Hidden {
		return nil
	}
	c.Hidden = true
	c.PendingUnmaps++
	return a.e.display.Hide(w)
}

func (a *applier) Raise(w layout.Window) error {
	return a.e.display.Raise(w)
}

// innerGeometry converts an outer rectangle to the X geometry of a window
// with the given border.
func innerGeometry(r layout.Rect, border int) layout.Rect {
	r.Width = max(r.Width-2*border, 1)
	r.Height = max(r.Height-2*border, 1)
	return r
}

func (e *Engine) apply(plan layout.Plan) {
	if len(plan.Commands) == 0 {
		return
	}
	err := plan.Execute(&applier{e: e, borders: make(map[layout.Window]int)})
	failed := 0
	if err != nil {
		failed = 1
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			failed = len(joined.Unwrap())
		}
		e.logger.Warnf("layout: %v", err)
	}
	e.metrics.RecordLayout(len(plan.Commands), failed)
}

// arrange lays out the current workspace and repairs its focus.
func (e *Engine) arrange() {
	ws := e.world.Current()
	e.apply(layout.Arrange(e.world.Input(ws, e.settings.Params)))
	e.ensureFocus(ws)
}

// ensureFocus keeps the current workspace focus on a visible member. A
// focus left on a hidden client, as happens when another client goes
// fullscreen, moves to the first visible client.
func (e *Engine) ensureFocus(ws *state.Workspace) {
	if ws.Focused == layout.None {
		return
	}
	if e.world.Focused(ws) != nil {
		return
	}
	if c := firstVisible(ws); c != nil {
		e.focus(c)
		return
	}
	e.clearFocus(ws)
}

func firstVisible(ws *state.Workspace) *state.Client {
	for _, c := range ws.Clients() {
		if !c.Hidden {
			return c
		}
	}
	return nil
}

func (e *Engine) refreshMonitors() {
	outputs, err := e.display.Outputs()
	if err != nil {
		e.logger.Warnf("query outputs: %v", err)
	}
	e.world.Monitors.Rebuild(outputs, e.display.Screen())
	for _, m := range e.world.Monitors.All() {
		e.logger.Debugf("monitor %d %s %dx%d+%d+%d", m.Index, m.Name, m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y)
	}
}

// repaintBorders applies the configured colours to every client.
func (e *Engine) repaintBorders() {
	for i := 0; i < state.NumWorkspaces; i++ {
		ws := e.world.Workspace(i)
		focused := e.world.Focused(ws)
		for _, c := range ws.Clients() {
			color := e.settings.BorderNormal
			if c == focused {
				color = e.settings.BorderFocused
			}
			if err := e.display.SetBorderColor(c.Window, color); err != nil {
				e.logger.Debugf("border colour 0x%x: %v", uint32(c.Window), err)
			}
		}
	}
}
