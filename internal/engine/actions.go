package engine

import (
	"fmt"

	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

// Exec runs a key-bound operation. Operations that need a focused client do
// nothing when there is none.
func (e *Engine) Exec(action keys.Action, arg keys.Arg) error {
	if err := keys.Validate(action, arg); err != nil {
		return err
	}
	e.metrics.RecordAction(string(action))
	switch action {
	case keys.FocusNext:
		e.cycleFocus(1)
	case keys.FocusPrev:
		e.cycleFocus(-1)
	case keys.ColumnFocus:
		e.focusColumn(arg.Delta)
	case keys.ColumnMove:
		e.moveColumn(arg.Delta)
	case keys.WindowMove:
		e.moveInColumn(arg.Delta)
	case keys.WindowFullscreen:
		if c := e.focusedClient(); c != nil {
			e.setFullscreen(c, !c.Fullscreen)
		}
	case keys.WindowFloat:
		e.toggleFloating()
	case keys.WindowClose:
		if c := e.focusedClient(); c != nil {
			return e.display.Close(c.Window)
		}
	case keys.WorkspaceSwitch:
		return e.SwitchWorkspace(arg.Workspace)
	case keys.WorkspaceSend:
		return e.sendToWorkspace(arg.Workspace)
	case keys.MonitorFocus:
		e.focusMonitor(arg.Delta)
	case keys.MonitorSend:
		e.sendToMonitor(arg.Delta)
	case keys.Spawn:
		if e.launcher == nil {
			return fmt.Errorf("no launcher configured")
		}
		if err := e.launcher.Launch(arg.Command); err != nil {
			return fmt.Errorf("spawn %q: %w", arg.Command, err)
		}
	case keys.Quit:
		e.quit = true
	default:
		return fmt.Errorf("unhandled action %s", action)
	}
	return nil
}

// Quitting reports whether a quit operation has run.
func (e *Engine) Quitting() bool {
	return e.quit
}

func (e *Engine) cycleFocus(step int) {
	ws := e.world.Current()
	cur := layout.None
	if c := e.focusedClient(); c != nil {
		cur = c.Window
	}
	for i := 0; i < ws.Len(); i++ {
		var next *state.Client
		if step > 0 {
			next = ws.Next(cur)
		} else {
			next = ws.Prev(cur)
		}
		if next == nil {
			return
		}
		if !next.Hidden {
			e.focus(next)
			return
		}
		cur = next.Window
	}
}

// focusColumn moves focus delta columns over, keeping the row where the
// target column is tall enough.
func (e *Engine) focusColumn(delta int) {
	ws := e.world.Current()
	row := 0
	col := ws.FocusedColumn()
	if c := e.focusedClient(); c != nil {
		row = ws.Row(c)
		col = c.Column
	}
	target := col + delta
	if target < 0 {
		target = 0
	}
	if target >= ws.NumColumns() {
		target = ws.NumColumns() - 1
	}
	members := ws.Column(target)
	if len(members) == 0 {
		return
	}
	if row >= len(members) {
		row = len(members) - 1
	}
	if row < 0 {
		row = 0
	}
	if c := members[row]; !c.Hidden {
		e.focus(c)
	}
}

func (e *Engine) moveColumn(delta int) {
	c := e.focusedClient()
	if c == nil {
		return
	}
	ws := e.world.Current()
	if !ws.MoveColumn(c, delta, e.settings.MaxColumns) {
		return
	}
	e.arrange()
	e.focus(c)
}

// moveInColumn swaps the focused client with its neighbour inside the
// same column. Nothing happens at either end.
func (e *Engine) moveInColumn(delta int) {
	c := e.focusedClient()
	if c == nil {
		return
	}
	if !e.world.Current().MoveInColumn(c, delta) {
		return
	}
	e.arrange()
	e.focus(c)
}

// toggleFloating flips the floating flag of the focused client. A client
// that starts floating is centred on the current monitor at half its size.
func (e *Engine) toggleFloating() {
	c := e.focusedClient()
	if c == nil || c.Fullscreen {
		return
	}
	c.Floating = !c.Floating
	if c.Floating {
		mon := e.world.Monitors.Current().Rect
		r := layout.Rect{Width: mon.Width / 2, Height: mon.Height / 2}.CenterIn(mon)
		var plan layout.Plan
		plan.MoveResize(c.Window, r)
		e.apply(plan)
	}
	e.arrange()
	e.focus(c)
}

// SwitchWorkspace makes workspace i visible. Clients of the old workspace
// are hidden, those of the new one shown with the normal border, and the
// new workspace's remembered focus is restored when still valid.
func (e *Engine) SwitchWorkspace(i int) error {
	target := e.world.Workspace(i)
	if target == nil {
		return fmt.Errorf("%w: %d", state.ErrNoWorkspace, i)
	}
	old := e.world.Current()
	if target == old {
		return nil
	}
	var plan layout.Plan
	for _, c := range old.Clients() {
		plan.Hide(c.Window)
	}
	e.apply(plan)
	if err := e.world.SetCurrent(i); err != nil {
		return err
	}
	if err := e.display.SetCurrentDesktop(i); err != nil {
		e.logger.Debugf("set current desktop: %v", err)
	}
	e.unfocusBorders(target.Clients()...)
	e.arrange()
	if c := e.world.Focused(target); c != nil {
		e.focus(c)
	} else {
		e.focusFirst(target)
	}
	e.logger.Debugf("switched to workspace %d", i+1)
	return nil
}

// sendToWorkspace moves the focused client to workspace i. It leaves
// fullscreen, disappears from view and focus passes to the first client
// left on the current workspace.
func (e *Engine) sendToWorkspace(i int) error {
	c := e.focusedClient()
	if c == nil || i == c.Workspace {
		return nil
	}
	target := e.world.Workspace(i)
	if target == nil {
		return fmt.Errorf("%w: %d", state.ErrNoWorkspace, i)
	}
	if c.Fullscreen {
		c.Fullscreen = false
		e.setFullscreenState(c.Window, false)
	}
	var plan layout.Plan
	plan.Hide(c.Window)
	e.apply(plan)
	e.unfocusBorders(c)

	src := e.world.Current()
	if err := e.world.MoveToWorkspace(c, i); err != nil {
		return err
	}
	if target.Focused == layout.None {
		target.Focused = c.Window
		target.SetFocusedColumn(c.Column)
	}
	if err := e.display.SetWindowDesktop(c.Window, i); err != nil {
		e.logger.Debugf("set desktop of 0x%x: %v", uint32(c.Window), err)
	}
	e.arrange()
	e.focusFirst(src)
	return nil
}

// focusMonitor makes the monitor delta steps away current and focuses its
// first visible client.
func (e *Engine) focusMonitor(delta int) {
	mon := e.world.Monitors.Step(delta)
	e.warpTo(mon.Rect)
	for _, c := range e.world.ClientsOn(e.world.Current(), mon.Index) {
		if !c.Hidden {
			e.focus(c)
			return
		}
	}
}

// sendToMonitor recentres the focused client on the monitor delta steps
// away from its own. The current monitor follows the client.
func (e *Engine) sendToMonitor(delta int) {
	c := e.focusedClient()
	mons := e.world.Monitors
	if c == nil || mons.Len() < 2 {
		return
	}
	src := mons.ForRect(c.Geometry).Index
	n := mons.Len()
	dst := ((src+delta)%n + n) % n
	mons.SetCurrent(dst)
	mon := mons.Current().Rect
	geom := c.Geometry.CenterIn(mon)
	if c.Floating {
		var plan layout.Plan
		plan.MoveResize(c.Window, geom)
		e.apply(plan)
	} else {
		c.Geometry = geom
	}
	e.arrange()
	e.warpTo(mon)
	e.focus(c)
}

func (e *Engine) warpTo(r layout.Rect) {
	if !e.settings.WarpPointer {
		return
	}
	x, y := r.Center()
	if err := e.display.WarpPointer(x, y); err != nil {
		e.logger.Debugf("warp pointer: %v", err)
	}
}
