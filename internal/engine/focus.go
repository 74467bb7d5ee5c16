package engine

import (
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

// focus records c as the focused client of its workspace. When the
// workspace is visible and c is mapped, borders, stacking, input focus and
// _NET_ACTIVE_WINDOW follow.
func (e *Engine) focus(c *state.Client) {
	ws := e.world.Workspace(c.Workspace)
	if ws == nil {
		return
	}
	prev := e.world.Focused(ws)
	ws.Focused = c.Window
	ws.SetFocusedColumn(c.Column)
	if ws.Index != e.world.CurrentIndex() || c.Hidden {
		return
	}
	if prev != nil && prev != c {
		if err := e.display.SetBorderColor(prev.Window, e.settings.BorderNormal); err != nil {
			e.logger.Debugf("unfocus 0x%x: %v", uint32(prev.Window), err)
		}
	}
	if err := e.display.SetBorderColor(c.Window, e.settings.BorderFocused); err != nil {
		e.logger.Debugf("focus border 0x%x: %v", uint32(c.Window), err)
	}
	if err := e.display.Raise(c.Window); err != nil {
		e.logger.Debugf("raise 0x%x: %v", uint32(c.Window), err)
	}
	if err := e.display.Focus(c.Window); err != nil {
		e.logger.Warnf("focus 0x%x: %v", uint32(c.Window), err)
	}
	if err := e.display.SetActiveWindow(c.Window); err != nil {
		e.logger.Debugf("set active window: %v", err)
	}
}

// unfocusBorders paints the normal border colour on clients.
func (e *Engine) unfocusBorders(clients ...*state.Client) {
	for _, c := range clients {
		if err := e.display.SetBorderColor(c.Window, e.settings.BorderNormal); err != nil {
			e.logger.Debugf("unfocus 0x%x: %v", uint32(c.Window), err)
		}
	}
}

// clearFocus drops the focus of ws and, for the visible workspace, hands
// input back to the root window.
func (e *Engine) clearFocus(ws *state.Workspace) {
	ws.Focused = layout.None
	if ws.Index != e.world.CurrentIndex() {
		return
	}
	if err := e.display.Focus(layout.None); err != nil {
		e.logger.Debugf("focus root: %v", err)
	}
	if err := e.display.SetActiveWindow(layout.None); err != nil {
		e.logger.Debugf("clear active window: %v", err)
	}
}

// focusFirst focuses the first visible client of ws or clears its focus.
// On a workspace that is not shown the first member is only remembered.
func (e *Engine) focusFirst(ws *state.Workspace) {
	if ws.Index != e.world.CurrentIndex() {
		ws.Focused = layout.None
		if c := ws.First(); c != nil {
			ws.Focused = c.Window
			ws.SetFocusedColumn(c.Column)
		}
		return
	}
	if c := firstVisible(ws); c != nil {
		e.focus(c)
		return
	}
	e.clearFocus(ws)
}

// publishClientList refreshes _NET_CLIENT_LIST from the registry.
func (e *Engine) publishClientList() {
	all := e.world.Registry.All()
	windows := make([]layout.Window, len(all))
	for i, c := range all {
		windows[i] = c.Window
	}
	if err := e.display.SetClientList(windows); err != nil {
		e.logger.Debugf("set client list: %v", err)
	}
}

func (e *Engine) focusedClient() *state.Client {
	return e.world.Focused(e.world.Current())
}
