package x11

import (
	"context"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
)

// Subscribe streams X events until ctx is cancelled or the connection is
// closed. Events the window manager does not react to are dropped here.
func (c *Conn) Subscribe(ctx context.Context) (<-chan events.Event, error) {
	out := make(chan events.Event)
	go func() {
		defer close(out)
		for {
			xev, xerr := c.conn.WaitForEvent()
			if xev == nil && xerr == nil {
				c.logger.Warnf("X connection closed")
				return
			}
			var ev events.Event
			if xerr != nil {
				ev = events.ProtocolError{Err: xerr}
			} else {
				ev = c.translate(xev)
			}
			if ev == nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *Conn) translate(xev xgb.Event) events.Event {
	switch e := xev.(type) {
	case xproto.MapRequestEvent:
		return events.MapRequest{Window: layout.Window(e.Window)}
	case xproto.UnmapNotifyEvent:
		return events.UnmapNotify{Window: layout.Window(e.Window), Synthetic: isSyntheticUnmap(e, c.root)}
	case xproto.DestroyNotifyEvent:
		return events.DestroyNotify{Window: layout.Window(e.Window)}
	case xproto.ConfigureRequestEvent:
		return configureRequest(e)
	case xproto.KeyPressEvent:
		return events.KeyPress{Mods: keys.Mods(e.State), Key: c.keyName(e.Detail)}
	case xproto.EnterNotifyEvent:
		if e.Mode != xproto.NotifyModeNormal || e.Detail == xproto.NotifyDetailInferior {
			return nil
		}
		return events.EnterNotify{Window: layout.Window(e.Event)}
	case xproto.ButtonPressEvent:
		// The root grab is synchronous; hand the click on to the client.
		xproto.AllowEvents(c.conn, xproto.AllowReplayPointer, e.Time)
		return buttonPress(e)
	case xproto.PropertyNotifyEvent:
		prop := events.PropertyOther
		if e.Atom == c.atoms.strut || e.Atom == c.atoms.strutPartial {
			prop = events.PropertyStrut
		}
		return events.PropertyNotify{Window: layout.Window(e.Window), Property: prop}
	case xproto.ClientMessageEvent:
		if e.Type != c.atoms.wmState || e.Format != 32 {
			return nil
		}
		action, ok := fullscreenAction(e.Data.Data32, c.atoms.fullscreen)
		if !ok {
			return nil
		}
		return events.FullscreenRequest{Window: layout.Window(e.Window), Action: action}
	case randr.ScreenChangeNotifyEvent:
		return events.ScreenChange{}
	case xproto.MappingNotifyEvent:
		keybind.Initialize(c.xu)
		return nil
	}
	return nil
}

// isSyntheticUnmap reports unmaps that were not delivered through the
// root's substructure selection. xgb folds the send-event bit into the
// event code, so the receiving window is the only tell. An ICCCM withdraw
// sent to the root therefore counts as real; the server's own unmap that
// follows it then finds no client and does nothing.
func isSyntheticUnmap(e xproto.UnmapNotifyEvent, root xproto.Window) bool {
	return e.Event != root
}

// buttonPress names the top-level window that was clicked. The grab is on
// the root, so that window arrives as the child.
func buttonPress(e xproto.ButtonPressEvent) events.ButtonPress {
	return events.ButtonPress{Window: layout.Window(e.Child)}
}

func configureRequest(e xproto.ConfigureRequestEvent) events.ConfigureRequest {
	return events.ConfigureRequest{
		Window:      layout.Window(e.Window),
		Mask:        configureMask(e.ValueMask),
		Rect:        layout.Rect{X: int(e.X), Y: int(e.Y), Width: int(e.Width), Height: int(e.Height)},
		BorderWidth: int(e.BorderWidth),
		Sibling:     layout.Window(e.Sibling),
		StackMode:   int(e.StackMode),
	}
}

func configureMask(xmask uint16) events.ConfigureMask {
	pairs := []struct {
		x uint16
		m events.ConfigureMask
	}{
		{xproto.ConfigWindowX, events.ConfigureX},
		{xproto.ConfigWindowY, events.ConfigureY},
		{xproto.ConfigWindowWidth, events.ConfigureWidth},
		{xproto.ConfigWindowHeight, events.ConfigureHeight},
		{xproto.ConfigWindowBorderWidth, events.ConfigureBorderWidth},
		{xproto.ConfigWindowSibling, events.ConfigureSibling},
		{xproto.ConfigWindowStackMode, events.ConfigureStackMode},
	}
	var mask events.ConfigureMask
	for _, p := range pairs {
		if xmask&p.x != 0 {
			mask |= p.m
		}
	}
	return mask
}

// fullscreenAction decodes a _NET_WM_STATE client message. It reports
// false unless one of the two named properties is the fullscreen state.
func fullscreenAction(data []uint32, fullscreen xproto.Atom) (events.FullscreenAction, bool) {
	if len(data) < 3 {
		return 0, false
	}
	if xproto.Atom(data[1]) != fullscreen && xproto.Atom(data[2]) != fullscreen {
		return 0, false
	}
	switch data[0] {
	case 0:
		return events.FullscreenRemove, true
	case 1:
		return events.FullscreenAdd, true
	case 2:
		return events.FullscreenToggle, true
	}
	return 0, false
}
