package state

import (
	"errors"
	"fmt"

	"github.com/eowm/eowm/internal/layout"
)

// NumWorkspaces is the fixed number of virtual desktops.
const NumWorkspaces = 9

// WindowAttributes is the subset of window attributes needed to decide
// whether a window should be managed.
type WindowAttributes struct {
	OverrideRedirect bool
	Viewable         bool
}

// DataSource abstracts the display-server queries the window manager makes.
type DataSource interface {
	Attributes(w layout.Window) (WindowAttributes, error)
	WindowTypes(w layout.Window) ([]string, error)
	Strut(w layout.Window) (layout.Insets, error)
	Class(w layout.Window) (class, instance string, err error)
	IsTransient(w layout.Window) (bool, error)
	Geometry(w layout.Window) (layout.Rect, error)
	Outputs() ([]Output, error)
	Screen() layout.Rect
	TopLevel() ([]layout.Window, error)
}

// ErrNoWorkspace is returned for workspace indices outside 0..NumWorkspaces-1.
var ErrNoWorkspace = errors.New("workspace out of range")

// World is the window manager model: the registry, the workspaces that own
// the clients, the monitors and the strut reservations.
type World struct {
	Registry *Registry
	Monitors *Monitors
	Struts   *Struts

	workspaces [NumWorkspaces]*Workspace
	current    int
}

// NewWorld builds an empty model. names labels the workspaces; missing
// entries default to the 1-based index.
func NewWorld(names []string, screen layout.Rect) *World {
	w := &World{
		Registry: NewRegistry(),
		Monitors: NewMonitors(screen),
		Struts:   NewStruts(),
	}
	for i := range w.workspaces {
		name := fmt.Sprintf("%d", i+1)
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		w.workspaces[i] = NewWorkspace(i, name)
	}
	return w
}

// Rename relabels the workspaces.
func (w *World) Rename(names []string) {
	for i, ws := range w.workspaces {
		if i < len(names) && names[i] != "" {
			ws.Name = names[i]
		} else {
			ws.Name = fmt.Sprintf("%d", i+1)
		}
	}
}

// Names returns the workspace labels in order.
func (w *World) Names() []string {
	out := make([]string, NumWorkspaces)
	for i, ws := range w.workspaces {
		out[i] = ws.Name
	}
	return out
}

// Workspace returns workspace i, or nil when out of range.
func (w *World) Workspace(i int) *Workspace {
	if i < 0 || i >= NumWorkspaces {
		return nil
	}
	return w.workspaces[i]
}

// Current returns the visible workspace.
func (w *World) Current() *Workspace {
	return w.workspaces[w.current]
}

// CurrentIndex returns the index of the visible workspace.
func (w *World) CurrentIndex() int {
	return w.current
}

// SetCurrent changes the visible workspace index without touching clients.
func (w *World) SetCurrent(i int) error {
	if i < 0 || i >= NumWorkspaces {
		return fmt.Errorf("%w: %d", ErrNoWorkspace, i)
	}
	w.current = i
	return nil
}

// Manage inserts c into the registry and then into column of workspace ws.
func (w *World) Manage(c *Client, ws, column int) error {
	target := w.Workspace(ws)
	if target == nil {
		return fmt.Errorf("%w: %d", ErrNoWorkspace, ws)
	}
	if !w.Registry.Insert(c) {
		return fmt.Errorf("window 0x%x already managed", uint32(c.Window))
	}
	target.AddToColumn(column, c)
	return nil
}

// Unmanage removes the client for id from its workspace and the registry.
func (w *World) Unmanage(id layout.Window) (*Client, bool) {
	c, ok := w.Registry.Find(id)
	if !ok {
		return nil, false
	}
	if ws := w.Workspace(c.Workspace); ws != nil {
		ws.Remove(c)
	}
	w.Registry.Remove(id)
	return c, true
}

// MoveToWorkspace transfers c to the focused column of workspace ws.
func (w *World) MoveToWorkspace(c *Client, ws int) error {
	target := w.Workspace(ws)
	if target == nil {
		return fmt.Errorf("%w: %d", ErrNoWorkspace, ws)
	}
	if c.Workspace == ws {
		return nil
	}
	if src := w.Workspace(c.Workspace); src != nil {
		src.Remove(c)
	}
	target.AddToColumn(target.FocusedColumn(), c)
	return nil
}

// Focused resolves the focused client of ws. A window that is no longer
// managed, left the workspace or is hidden does not count.
func (w *World) Focused(ws *Workspace) *Client {
	if ws == nil || ws.Focused == layout.None {
		return nil
	}
	c, ok := w.Registry.Find(ws.Focused)
	if !ok || c.Workspace != ws.Index || c.Hidden {
		return nil
	}
	return c
}

// Input builds the layout input for ws with the given parameters.
func (w *World) Input(ws *Workspace, params layout.Params) layout.Input {
	return layout.Input{
		Columns:        ws.Tiles(),
		Monitors:       w.Monitors.Rects(),
		CurrentMonitor: w.Monitors.CurrentIndex(),
		Struts:         w.Struts.Totals(),
		Params:         params,
	}
}

// ClientsOn returns the clients of ws whose centre lies on monitor m.
func (w *World) ClientsOn(ws *Workspace, m int) []*Client {
	var out []*Client
	for _, c := range ws.Clients() {
		if w.Monitors.ForRect(c.Geometry).Index == m {
			out = append(out, c)
		}
	}
	return out
}

// Check verifies the ownership invariants: every registered client sits in
// exactly one column of its own workspace with a matching column index,
// every column member is registered, no column is empty unless it is the
// only one, and a workspace focus names a member.
func (w *World) Check() error {
	seen := make(map[layout.Window]int)
	for _, ws := range w.workspaces {
		if ws.NumColumns() == 0 {
			return fmt.Errorf("workspace %d has no columns", ws.Index)
		}
		for ci := 0; ci < ws.NumColumns(); ci++ {
			col := ws.Column(ci)
			if len(col) == 0 && ws.NumColumns() > 1 {
				return fmt.Errorf("workspace %d column %d is empty", ws.Index, ci)
			}
			for _, c := range col {
				seen[c.Window]++
				if c.Workspace != ws.Index || c.Column != ci {
					return fmt.Errorf("window 0x%x at %d/%d records %d/%d", uint32(c.Window), ws.Index, ci, c.Workspace, c.Column)
				}
				if r, ok := w.Registry.Find(c.Window); !ok || r != c {
					return fmt.Errorf("window 0x%x not in registry", uint32(c.Window))
				}
			}
		}
		if fc := ws.FocusedColumn(); fc < 0 || fc >= ws.NumColumns() {
			return fmt.Errorf("workspace %d focused column %d out of range", ws.Index, fc)
		}
		if ws.Focused != layout.None && !ws.Contains(ws.Focused) {
			return fmt.Errorf("workspace %d focuses foreign window 0x%x", ws.Index, uint32(ws.Focused))
		}
	}
	for _, c := range w.Registry.All() {
		if n := seen[c.Window]; n != 1 {
			return fmt.Errorf("window 0x%x owned %d times", uint32(c.Window), n)
		}
	}
	if len(seen) != w.Registry.Len() {
		return fmt.Errorf("columns hold %d clients, registry %d", len(seen), w.Registry.Len())
	}
	return nil
}
