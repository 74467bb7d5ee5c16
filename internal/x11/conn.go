// Package x11 connects the window manager to an X server. Conn implements
// the engine's display, event source and monitor queries on top of xgb and
// xgbutil.
package x11

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/eowm/eowm/internal/util"
)

// ErrOtherWM is returned by Open when another client already holds
// substructure redirection on the root window.
var ErrOtherWM = errors.New("another window manager is already running")

// WMName is published on the EWMH supporting window.
const WMName = "eowm"

const rootEventMask = xproto.EventMaskSubstructureRedirect |
	xproto.EventMaskSubstructureNotify |
	xproto.EventMaskStructureNotify |
	xproto.EventMaskPropertyChange

// supported lists the EWMH hints the window manager maintains.
var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_WM_NAME",
	"_NET_ACTIVE_WINDOW",
	"_NET_CLIENT_LIST",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_CURRENT_DESKTOP",
	"_NET_WM_DESKTOP",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_WINDOW_TYPE_NOTIFICATION",
	"_NET_WM_WINDOW_TYPE_SPLASH",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
}

type atoms struct {
	wmState      xproto.Atom
	fullscreen   xproto.Atom
	strut        xproto.Atom
	strutPartial xproto.Atom
}

// Conn is an X connection that owns the root window.
type Conn struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	screen *xproto.ScreenInfo
	check  *xwindow.Window
	atoms  atoms
	logger *util.Logger

	randr    bool
	xinerama bool
}

// Open connects to the display named by $DISPLAY and becomes its window
// manager.
func Open(logger *util.Logger) (*Conn, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	c := &Conn{
		xu:     xu,
		conn:   xu.Conn(),
		root:   xu.RootWin(),
		screen: xu.Screen(),
		logger: logger,
	}
	if err := c.init(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	return c, nil
}

func (c *Conn) init() error {
	err := xproto.ChangeWindowAttributesChecked(c.conn, c.root, xproto.CwEventMask, []uint32{rootEventMask}).Check()
	if err != nil {
		var access xproto.AccessError
		if errors.As(err, &access) {
			return ErrOtherWM
		}
		return fmt.Errorf("select root events: %w", err)
	}
	if err := c.internAtoms(); err != nil {
		return err
	}
	keybind.Initialize(c.xu)
	if err := c.grabButtons(); err != nil {
		c.logger.Warnf("click to focus disabled: %v", err)
	}

	if err := randr.Init(c.conn); err != nil {
		c.logger.Debugf("randr unavailable: %v", err)
	} else if err := randr.SelectInputChecked(c.conn, c.root, randr.NotifyMaskScreenChange).Check(); err != nil {
		c.logger.Debugf("randr select input: %v", err)
	} else {
		c.randr = true
	}
	if err := xinerama.Init(c.conn); err != nil {
		c.logger.Debugf("xinerama unavailable: %v", err)
	} else {
		c.xinerama = true
	}
	return c.publishSupport()
}

// grabButtons takes every click on the root and its children in sync mode.
// The pointer stays frozen until the event is replayed to the client.
func (c *Conn) grabButtons() error {
	err := xproto.GrabButtonChecked(c.conn, false, c.root, uint16(xproto.EventMaskButtonPress),
		xproto.GrabModeSync, xproto.GrabModeAsync, xproto.WindowNone, xproto.CursorNone,
		xproto.ButtonIndexAny, xproto.ModMaskAny).Check()
	if err != nil {
		return fmt.Errorf("grab buttons: %w", err)
	}
	return nil
}

func (c *Conn) internAtoms() error {
	names := []struct {
		dst  *xproto.Atom
		name string
	}{
		{&c.atoms.wmState, "_NET_WM_STATE"},
		{&c.atoms.fullscreen, "_NET_WM_STATE_FULLSCREEN"},
		{&c.atoms.strut, "_NET_WM_STRUT"},
		{&c.atoms.strutPartial, "_NET_WM_STRUT_PARTIAL"},
	}
	for _, n := range names {
		atom, err := xprop.Atm(c.xu, n.name)
		if err != nil {
			return fmt.Errorf("intern %s: %w", n.name, err)
		}
		*n.dst = atom
	}
	return nil
}

// publishSupport creates the _NET_SUPPORTING_WM_CHECK window and
// advertises the supported hints.
func (c *Conn) publishSupport() error {
	check, err := xwindow.Generate(c.xu)
	if err != nil {
		return fmt.Errorf("generate check window: %w", err)
	}
	check.Create(c.root, -1, -1, 1, 1, 0)
	c.check = check
	if err := ewmh.SupportingWmCheckSet(c.xu, c.root, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.xu, check.Id, check.Id); err != nil {
		return fmt.Errorf("set supporting wm check: %w", err)
	}
	if err := ewmh.WmNameSet(c.xu, check.Id, WMName); err != nil {
		return fmt.Errorf("set wm name: %w", err)
	}
	if err := ewmh.SupportedSet(c.xu, supported); err != nil {
		return fmt.Errorf("set supported hints: %w", err)
	}
	return nil
}

// Close releases the connection. Managed windows stay mapped.
func (c *Conn) Close() error {
	if c.check != nil {
		c.check.Destroy()
	}
	if err := ewmh.ActiveWindowSet(c.xu, 0); err != nil {
		c.logger.Debugf("clear active window: %v", err)
	}
	xproto.SetInputFocus(c.conn, xproto.InputFocusPointerRoot, xproto.InputFocusPointerRoot, xproto.TimeCurrentTime)
	c.conn.Close()
	return nil
}
