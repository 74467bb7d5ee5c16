package state

import "github.com/eowm/eowm/internal/layout"

// Client is one managed top-level window.
type Client struct {
	Window    layout.Window
	Geometry  layout.Rect
	Workspace int
	Column    int

	Fullscreen bool
	Hidden     bool
	Floating   bool

	Class    string
	Instance string

	// PendingUnmaps counts unmaps issued by the window manager whose
	// notifications have not arrived yet.
	PendingUnmaps int
}

// Tile returns the layout view of c.
func (c *Client) Tile() layout.Tile {
	return layout.Tile{
		Window:     c.Window,
		Geometry:   c.Geometry,
		Floating:   c.Floating,
		Fullscreen: c.Fullscreen,
	}
}
