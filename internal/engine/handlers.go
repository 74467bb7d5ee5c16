package engine

import (
	"fmt"

	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

func (e *Engine) handleMapRequest(ev events.MapRequest) error {
	return e.mapWindow(ev.Window, false)
}

// mapWindow handles a window asking to be shown. adopt is set for windows
// found already mapped at start-up.
func (e *Engine) mapWindow(w layout.Window, adopt bool) error {
	if c, ok := e.world.Registry.Find(w); ok {
		if c.Workspace == e.world.CurrentIndex() && !c.Hidden {
			return e.display.Show(w)
		}
		return nil
	}
	if e.world.Struts.Has(w) {
		return e.display.Show(w)
	}
	attrs, err := e.display.Attributes(w)
	if err != nil {
		return fmt.Errorf("attributes of 0x%x: %w", uint32(w), err)
	}
	if attrs.OverrideRedirect {
		return e.display.Show(w)
	}
	types, err := e.display.WindowTypes(w)
	if err != nil {
		e.logger.Debugf("window type of 0x%x: %v", uint32(w), err)
	}
	if hasType(types, TypeNotification, TypeSplash) {
		return e.display.Show(w)
	}
	strut, err := e.display.Strut(w)
	if err != nil {
		e.logger.Debugf("strut of 0x%x: %v", uint32(w), err)
	}
	if hasType(types, TypeDock) || !strut.IsZero() {
		e.world.Struts.Add(w, strut)
		if err := e.display.SelectStrutInput(w); err != nil {
			e.logger.Debugf("select strut input 0x%x: %v", uint32(w), err)
		}
		e.logger.Debugf("strut window 0x%x reserves %+v", uint32(w), strut)
		err := e.display.Show(w)
		e.arrange()
		return err
	}
	return e.manage(w, adopt)
}

func (e *Engine) manage(w layout.Window, adopt bool) error {
	class, instance, err := e.display.Class(w)
	if err != nil {
		e.logger.Debugf("class of 0x%x: %v", uint32(w), err)
	}
	transient, err := e.display.IsTransient(w)
	if err != nil {
		e.logger.Debugf("transient-for of 0x%x: %v", uint32(w), err)
	}
	mons := e.world.Monitors
	p := e.rules.Resolve(class, instance, transient, e.world.CurrentIndex(), mons.CurrentIndex(), mons.Len())
	monitor := mons.All()[p.Monitor].Rect

	geom, err := e.display.Geometry(w)
	if err != nil || geom.Empty() {
		geom = layout.Rect{Width: monitor.Width / 2, Height: monitor.Height / 2}
	}
	c := &state.Client{
		Window:   w,
		Geometry: geom.CenterIn(monitor),
		Floating: p.Floating,
		Class:    class,
		Instance: instance,
		Hidden:   !adopt,
	}
	ws := e.world.Workspace(p.Workspace)
	if err := e.world.Manage(c, p.Workspace, ws.FocusedColumn()); err != nil {
		return err
	}
	e.metrics.RecordManaged()
	e.logger.Debugf("manage 0x%x class=%q instance=%q workspace=%d floating=%t", uint32(w), class, instance, p.Workspace+1, p.Floating)

	if err := e.display.SetBorderColor(w, e.settings.BorderNormal); err != nil {
		e.logger.Debugf("border colour 0x%x: %v", uint32(w), err)
	}
	if err := e.display.SelectClientInput(w); err != nil {
		e.logger.Debugf("select input 0x%x: %v", uint32(w), err)
	}
	if err := e.display.SetWindowDesktop(w, p.Workspace); err != nil {
		e.logger.Debugf("set desktop of 0x%x: %v", uint32(w), err)
	}
	if !adopt {
		e.publishClientList()
	}

	if p.Workspace != e.world.CurrentIndex() {
		if adopt {
			var plan layout.Plan
			plan.Hide(w)
			e.apply(plan)
		}
		if ws.Focused == layout.None {
			ws.Focused = w
		}
		return nil
	}
	if c.Floating {
		var plan layout.Plan
		plan.Border(w, e.settings.Params.BorderWidth)
		plan.MoveResize(w, c.Geometry)
		e.apply(plan)
	}
	e.arrange()
	if !c.Hidden {
		e.focus(c)
	}
	return nil
}

// unmanage forgets a client that is gone. Focus passes to the first client
// of its workspace when it held it.
func (e *Engine) unmanage(w layout.Window) {
	c, ok := e.world.Registry.Find(w)
	if !ok {
		return
	}
	ws := e.world.Workspace(c.Workspace)
	wasFocused := ws.Focused == w
	e.world.Unmanage(w)
	e.metrics.RecordUnmanaged()
	e.logger.Debugf("unmanage 0x%x", uint32(w))
	e.publishClientList()
	if ws.Index == e.world.CurrentIndex() {
		e.arrange()
	}
	if wasFocused {
		e.focusFirst(ws)
	}
}

func (e *Engine) handleDestroyNotify(ev events.DestroyNotify) error {
	if e.world.Struts.Remove(ev.Window) {
		e.arrange()
		return nil
	}
	e.unmanage(ev.Window)
	return nil
}

func (e *Engine) handleUnmapNotify(ev events.UnmapNotify) error {
	if ev.Synthetic {
		return nil
	}
	if e.world.Struts.Remove(ev.Window) {
		e.arrange()
		return nil
	}
	c, ok := e.world.Registry.Find(ev.Window)
	if !ok {
		return nil
	}
	if c.PendingUnmaps > 0 {
		c.PendingUnmaps--
		return nil
	}
	if c.Workspace != e.world.CurrentIndex() {
		return nil
	}
	e.unmanage(ev.Window)
	return nil
}

func (e *Engine) handleConfigureRequest(ev events.ConfigureRequest) error {
	c, ok := e.world.Registry.Find(ev.Window)
	if !ok {
		return e.display.Configure(ev)
	}
	if c.Floating && !c.Fullscreen {
		bw := e.settings.Params.BorderWidth
		outer := c.Geometry
		if ev.Mask&events.ConfigureX != 0 {
			outer.X = ev.Rect.X
		}
		if ev.Mask&events.ConfigureY != 0 {
			outer.Y = ev.Rect.Y
		}
		if ev.Mask&events.ConfigureWidth != 0 {
			outer.Width = ev.Rect.Width + 2*bw
		}
		if ev.Mask&events.ConfigureHeight != 0 {
			outer.Height = ev.Rect.Height + 2*bw
		}
		c.Geometry = outer
		return e.display.Configure(ev)
	}
	bw := e.settings.Params.BorderWidth
	if c.Fullscreen {
		bw = 0
	}
	return e.display.SendConfigureNotify(c.Window, innerGeometry(c.Geometry, bw), bw)
}

func (e *Engine) handleKeyPress(ev events.KeyPress) error {
	b, ok := e.keys.Lookup(ev.Mods, ev.Key)
	if !ok {
		return nil
	}
	e.trace("key.matched", map[string]any{"binding": b.String()})
	return e.Exec(b.Action, b.Arg)
}

func (e *Engine) handleEnterNotify(ev events.EnterNotify) error {
	if !e.settings.FocusFollowsMouse {
		return nil
	}
	c, ok := e.world.Registry.Find(ev.Window)
	if !ok || c.Workspace != e.world.CurrentIndex() || c.Hidden {
		return nil
	}
	if e.focusedClient() == c {
		return nil
	}
	e.focus(c)
	return nil
}

// handleButtonPress focuses the clicked client. Clicks always focus,
// whatever the focus-follows-mouse setting.
func (e *Engine) handleButtonPress(ev events.ButtonPress) error {
	c, ok := e.world.Registry.Find(ev.Window)
	if !ok || c.Workspace != e.world.CurrentIndex() || c.Hidden {
		return nil
	}
	if e.focusedClient() != c {
		e.focus(c)
	}
	return nil
}

func (e *Engine) handlePropertyNotify(ev events.PropertyNotify) error {
	if ev.Property != events.PropertyStrut || !e.world.Struts.Has(ev.Window) {
		return nil
	}
	strut, err := e.display.Strut(ev.Window)
	if err != nil {
		return fmt.Errorf("strut of 0x%x: %w", uint32(ev.Window), err)
	}
	e.world.Struts.Update(ev.Window, strut)
	e.arrange()
	return nil
}

func (e *Engine) handleFullscreenRequest(ev events.FullscreenRequest) error {
	c, ok := e.world.Registry.Find(ev.Window)
	if !ok {
		return nil
	}
	on := c.Fullscreen
	switch ev.Action {
	case events.FullscreenAdd:
		on = true
	case events.FullscreenRemove:
		on = false
	case events.FullscreenToggle:
		on = !on
	}
	e.setFullscreen(c, on)
	return nil
}

func (e *Engine) handleScreenChange() error {
	e.refreshMonitors()
	e.arrange()
	return nil
}

// setFullscreen changes the fullscreen flag of c. Only one client per
// workspace is fullscreen at a time.
func (e *Engine) setFullscreen(c *state.Client, on bool) {
	if c.Fullscreen == on {
		return
	}
	ws := e.world.Workspace(c.Workspace)
	if on {
		for _, other := range ws.Clients() {
			if other != c && other.Fullscreen {
				other.Fullscreen = false
				e.setFullscreenState(other.Window, false)
			}
		}
	}
	c.Fullscreen = on
	e.setFullscreenState(c.Window, on)
	if ws.Index != e.world.CurrentIndex() {
		return
	}
	e.arrange()
	if on {
		e.focus(c)
	}
}

func (e *Engine) setFullscreenState(w layout.Window, on bool) {
	if err := e.display.SetFullscreenState(w, on); err != nil {
		e.logger.Debugf("fullscreen state 0x%x: %v", uint32(w), err)
	}
}
