package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

func (c *Conn) Attributes(w layout.Window) (state.WindowAttributes, error) {
	reply, err := xproto.GetWindowAttributes(c.conn, xproto.Window(w)).Reply()
	if err != nil {
		return state.WindowAttributes{}, err
	}
	return state.WindowAttributes{
		OverrideRedirect: reply.OverrideRedirect,
		Viewable:         reply.MapState == xproto.MapStateViewable,
	}, nil
}

// WindowTypes returns _NET_WM_WINDOW_TYPE. A missing property is not an
// error.
func (c *Conn) WindowTypes(w layout.Window) ([]string, error) {
	types, err := ewmh.WmWindowTypeGet(c.xu, xproto.Window(w))
	if err != nil {
		return nil, nil
	}
	return types, nil
}

// Strut reads _NET_WM_STRUT_PARTIAL, falling back to _NET_WM_STRUT. Only
// the edge thicknesses are used.
func (c *Conn) Strut(w layout.Window) (layout.Insets, error) {
	if sp, err := ewmh.WmStrutPartialGet(c.xu, xproto.Window(w)); err == nil {
		return strutInsets(sp.Left, sp.Right, sp.Top, sp.Bottom), nil
	}
	if s, err := ewmh.WmStrutGet(c.xu, xproto.Window(w)); err == nil {
		return strutInsets(s.Left, s.Right, s.Top, s.Bottom), nil
	}
	return layout.Insets{}, nil
}

func strutInsets(left, right, top, bottom uint) layout.Insets {
	return layout.Insets{Left: int(left), Right: int(right), Top: int(top), Bottom: int(bottom)}
}

// Class returns the WM_CLASS pair. Windows without one match no rule.
func (c *Conn) Class(w layout.Window) (string, string, error) {
	cls, err := icccm.WmClassGet(c.xu, xproto.Window(w))
	if err != nil {
		return "", "", nil
	}
	return cls.Class, cls.Instance, nil
}

func (c *Conn) IsTransient(w layout.Window) (bool, error) {
	parent, err := icccm.WmTransientForGet(c.xu, xproto.Window(w))
	if err != nil {
		return false, nil
	}
	return parent != 0, nil
}

func (c *Conn) Geometry(w layout.Window) (layout.Rect, error) {
	reply, err := xproto.GetGeometry(c.conn, xproto.Drawable(w)).Reply()
	if err != nil {
		return layout.Rect{}, err
	}
	return layout.Rect{X: int(reply.X), Y: int(reply.Y), Width: int(reply.Width), Height: int(reply.Height)}, nil
}

func (c *Conn) Screen() layout.Rect {
	return layout.Rect{Width: int(c.screen.WidthInPixels), Height: int(c.screen.HeightInPixels)}
}

// TopLevel lists the children of the root window in stacking order.
func (c *Conn) TopLevel() ([]layout.Window, error) {
	tree, err := xproto.QueryTree(c.conn, c.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("query tree: %w", err)
	}
	out := make([]layout.Window, 0, len(tree.Children))
	for _, w := range tree.Children {
		if c.check != nil && w == c.check.Id {
			continue
		}
		out = append(out, layout.Window(w))
	}
	return out, nil
}
