package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/eowm/eowm/internal/engine"
	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/layout"
)

var _ engine.Display = (*Conn)(nil)

const clientEventMask = xproto.EventMaskEnterWindow |
	xproto.EventMaskFocusChange |
	xproto.EventMaskPropertyChange

func (c *Conn) MoveResize(w layout.Window, r layout.Rect) error {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	values := []uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(r.Width), uint32(r.Height)}
	return xproto.ConfigureWindowChecked(c.conn, xproto.Window(w), mask, values).Check()
}

func (c *Conn) SetBorderWidth(w layout.Window, width int) error {
	return xproto.ConfigureWindowChecked(c.conn, xproto.Window(w), xproto.ConfigWindowBorderWidth, []uint32{uint32(width)}).Check()
}

func (c *Conn) Show(w layout.Window) error {
	return xproto.MapWindowChecked(c.conn, xproto.Window(w)).Check()
}

func (c *Conn) Hide(w layout.Window) error {
	return xproto.UnmapWindowChecked(c.conn, xproto.Window(w)).Check()
}

func (c *Conn) Raise(w layout.Window) error {
	return xproto.ConfigureWindowChecked(c.conn, xproto.Window(w), xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
}

func (c *Conn) SetBorderColor(w layout.Window, color uint32) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, xproto.Window(w), xproto.CwBorderPixel, []uint32{color}).Check()
}

func (c *Conn) Focus(w layout.Window) error {
	target := xproto.Window(w)
	if w == layout.None {
		target = c.root
	}
	return xproto.SetInputFocusChecked(c.conn, xproto.InputFocusPointerRoot, target, xproto.TimeCurrentTime).Check()
}

// Close sends WM_DELETE_WINDOW when the client supports it and kills the
// client otherwise.
func (c *Conn) Close(w layout.Window) error {
	xwindow.New(c.xu, xproto.Window(w)).WMGracefulClose(func(win *xwindow.Window) {
		c.logger.Debugf("0x%x ignores WM_DELETE_WINDOW, killing", uint32(w))
		win.Kill()
	})
	return nil
}

// Configure grants a configure request as asked.
func (c *Conn) Configure(req events.ConfigureRequest) error {
	mask, values := configureValues(req)
	if mask == 0 {
		return nil
	}
	return xproto.ConfigureWindowChecked(c.conn, xproto.Window(req.Window), mask, values).Check()
}

// configureValues converts a request into the ConfigureWindow value mask
// and list, in the order X expects.
func configureValues(req events.ConfigureRequest) (uint16, []uint32) {
	var mask uint16
	var values []uint32
	if req.Mask&events.ConfigureX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(int32(req.Rect.X)))
	}
	if req.Mask&events.ConfigureY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(int32(req.Rect.Y)))
	}
	if req.Mask&events.ConfigureWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(req.Rect.Width))
	}
	if req.Mask&events.ConfigureHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(req.Rect.Height))
	}
	if req.Mask&events.ConfigureBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(req.BorderWidth))
	}
	if req.Mask&events.ConfigureSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(req.Sibling))
	}
	if req.Mask&events.ConfigureStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(req.StackMode))
	}
	return mask, values
}

// SendConfigureNotify tells a tiled client the geometry it actually has.
func (c *Conn) SendConfigureNotify(w layout.Window, r layout.Rect, border int) error {
	ev := xproto.ConfigureNotifyEvent{
		Event:            xproto.Window(w),
		Window:           xproto.Window(w),
		AboveSibling:     0,
		X:                int16(r.X),
		Y:                int16(r.Y),
		Width:            uint16(r.Width),
		Height:           uint16(r.Height),
		BorderWidth:      uint16(border),
		OverrideRedirect: false,
	}
	return xproto.SendEventChecked(c.conn, false, xproto.Window(w), xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
}

func (c *Conn) SelectClientInput(w layout.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, xproto.Window(w), xproto.CwEventMask, []uint32{clientEventMask}).Check()
}

func (c *Conn) SelectStrutInput(w layout.Window) error {
	return xproto.ChangeWindowAttributesChecked(c.conn, xproto.Window(w), xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check()
}

func (c *Conn) WarpPointer(x, y int) error {
	return xproto.WarpPointerChecked(c.conn, 0, c.root, 0, 0, 0, 0, int16(x), int16(y)).Check()
}

func (c *Conn) SetActiveWindow(w layout.Window) error {
	return ewmh.ActiveWindowSet(c.xu, xproto.Window(w))
}

func (c *Conn) SetClientList(windows []layout.Window) error {
	list := make([]xproto.Window, len(windows))
	for i, w := range windows {
		list[i] = xproto.Window(w)
	}
	return ewmh.ClientListSet(c.xu, list)
}

func (c *Conn) SetDesktops(names []string) error {
	if err := ewmh.NumberOfDesktopsSet(c.xu, uint(len(names))); err != nil {
		return err
	}
	return ewmh.DesktopNamesSet(c.xu, names)
}

func (c *Conn) SetCurrentDesktop(i int) error {
	return ewmh.CurrentDesktopSet(c.xu, uint(i))
}

func (c *Conn) SetWindowDesktop(w layout.Window, i int) error {
	return ewmh.WmDesktopSet(c.xu, xproto.Window(w), uint(i))
}

func (c *Conn) SetFullscreenState(w layout.Window, on bool) error {
	var states []string
	if on {
		states = []string{"_NET_WM_STATE_FULLSCREEN"}
	}
	return ewmh.WmStateSet(c.xu, xproto.Window(w), states)
}
