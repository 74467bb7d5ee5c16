// Package events defines the display-server notifications the window
// manager reacts to. The set is closed: only types in this package satisfy
// Event.
package events

import (
	"fmt"

	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
)

// Kind names an event type for logging and metrics.
type Kind string

const (
	KindMapRequest       Kind = "map-request"
	KindUnmapNotify      Kind = "unmap-notify"
	KindDestroyNotify    Kind = "destroy-notify"
	KindConfigureRequest Kind = "configure-request"
	KindKeyPress         Kind = "key-press"
	KindEnterNotify      Kind = "enter-notify"
	KindButtonPress      Kind = "button-press"
	KindPropertyNotify   Kind = "property-notify"
	KindFullscreen       Kind = "fullscreen-request"
	KindScreenChange     Kind = "screen-change"
	KindProtocolError    Kind = "protocol-error"
)

// Event is one notification from the display server.
type Event interface {
	Kind() Kind
	sealed()
}

// MapRequest asks to make a window visible.
type MapRequest struct {
	Window layout.Window
}

// UnmapNotify reports that a window was unmapped. Synthetic events were
// sent by a client rather than generated by the server.
type UnmapNotify struct {
	Window    layout.Window
	Synthetic bool
}

// DestroyNotify reports that a window no longer exists.
type DestroyNotify struct {
	Window layout.Window
}

// ConfigureMask selects which fields of a ConfigureRequest are set.
type ConfigureMask uint16

const (
	ConfigureX ConfigureMask = 1 << iota
	ConfigureY
	ConfigureWidth
	ConfigureHeight
	ConfigureBorderWidth
	ConfigureSibling
	ConfigureStackMode
)

// ConfigureRequest asks for a new geometry.
type ConfigureRequest struct {
	Window      layout.Window
	Mask        ConfigureMask
	Rect        layout.Rect
	BorderWidth int
	Sibling     layout.Window
	StackMode   int
}

// KeyPress carries the modifier state and the key symbol name of a grabbed
// key.
type KeyPress struct {
	Mods keys.Mods
	Key  string
}

// EnterNotify reports the pointer entering a window. Only normal,
// non-inferior crossings are delivered.
type EnterNotify struct {
	Window layout.Window
}

// ButtonPress reports a pointer click. Window is the top-level window
// under the pointer, or layout.None over the bare root.
type ButtonPress struct {
	Window layout.Window
}

// Property identifies a watched property.
type Property int

const (
	PropertyOther Property = iota
	PropertyStrut
)

// PropertyNotify reports a change to a watched window property.
type PropertyNotify struct {
	Window   layout.Window
	Property Property
}

// FullscreenAction is the _NET_WM_STATE operation.
type FullscreenAction int

const (
	FullscreenRemove FullscreenAction = iota
	FullscreenAdd
	FullscreenToggle
)

// FullscreenRequest is a client asking to enter or leave fullscreen.
type FullscreenRequest struct {
	Window layout.Window
	Action FullscreenAction
}

// ScreenChange reports an output reconfiguration.
type ScreenChange struct{}

// ProtocolError is an asynchronous error reply.
type ProtocolError struct {
	Err error
}

func (MapRequest) Kind() Kind        { return KindMapRequest }
func (UnmapNotify) Kind() Kind       { return KindUnmapNotify }
func (DestroyNotify) Kind() Kind     { return KindDestroyNotify }
func (ConfigureRequest) Kind() Kind  { return KindConfigureRequest }
func (KeyPress) Kind() Kind          { return KindKeyPress }
func (EnterNotify) Kind() Kind       { return KindEnterNotify }
func (ButtonPress) Kind() Kind       { return KindButtonPress }
func (PropertyNotify) Kind() Kind    { return KindPropertyNotify }
func (FullscreenRequest) Kind() Kind { return KindFullscreen }
func (ScreenChange) Kind() Kind      { return KindScreenChange }
func (ProtocolError) Kind() Kind     { return KindProtocolError }

func (MapRequest) sealed()        {}
func (UnmapNotify) sealed()       {}
func (DestroyNotify) sealed()     {}
func (ConfigureRequest) sealed()  {}
func (KeyPress) sealed()          {}
func (EnterNotify) sealed()       {}
func (ButtonPress) sealed()       {}
func (PropertyNotify) sealed()    {}
func (FullscreenRequest) sealed() {}
func (ScreenChange) sealed()      {}
func (ProtocolError) sealed()     {}

// Describe renders an event for trace logging.
func Describe(ev Event) string {
	switch e := ev.(type) {
	case MapRequest:
		return fmt.Sprintf("%s 0x%x", e.Kind(), uint32(e.Window))
	case UnmapNotify:
		return fmt.Sprintf("%s 0x%x synthetic=%t", e.Kind(), uint32(e.Window), e.Synthetic)
	case DestroyNotify:
		return fmt.Sprintf("%s 0x%x", e.Kind(), uint32(e.Window))
	case ConfigureRequest:
		return fmt.Sprintf("%s 0x%x %+v", e.Kind(), uint32(e.Window), e.Rect)
	case KeyPress:
		return fmt.Sprintf("%s %v-%s", e.Kind(), e.Mods, e.Key)
	case EnterNotify:
		return fmt.Sprintf("%s 0x%x", e.Kind(), uint32(e.Window))
	case ButtonPress:
		return fmt.Sprintf("%s 0x%x", e.Kind(), uint32(e.Window))
	case PropertyNotify:
		return fmt.Sprintf("%s 0x%x", e.Kind(), uint32(e.Window))
	case FullscreenRequest:
		return fmt.Sprintf("%s 0x%x action=%d", e.Kind(), uint32(e.Window), e.Action)
	case ProtocolError:
		return fmt.Sprintf("%s %v", e.Kind(), e.Err)
	default:
		return string(ev.Kind())
	}
}
