package state

import "github.com/eowm/eowm/internal/layout"

// ClientSnapshot is a serialisable copy of a client.
type ClientSnapshot struct {
	Window     uint32      `json:"window"`
	Class      string      `json:"class,omitempty"`
	Instance   string      `json:"instance,omitempty"`
	Column     int         `json:"column"`
	Geometry   layout.Rect `json:"geometry"`
	Floating   bool        `json:"floating,omitempty"`
	Fullscreen bool        `json:"fullscreen,omitempty"`
	Hidden     bool        `json:"hidden,omitempty"`
	Focused    bool        `json:"focused,omitempty"`
}

// WorkspaceSnapshot is a serialisable copy of a workspace.
type WorkspaceSnapshot struct {
	Index         int              `json:"index"`
	Name          string           `json:"name"`
	Columns       int              `json:"columns"`
	FocusedColumn int              `json:"focusedColumn"`
	Clients       []ClientSnapshot `json:"clients,omitempty"`
}

// Snapshot is a point-in-time copy of the whole model.
type Snapshot struct {
	CurrentWorkspace int                 `json:"currentWorkspace"`
	CurrentMonitor   int                 `json:"currentMonitor"`
	Monitors         []Monitor           `json:"monitors"`
	Struts           layout.Insets       `json:"struts"`
	StrutWindows     []StrutWindow       `json:"strutWindows,omitempty"`
	Workspaces       []WorkspaceSnapshot `json:"workspaces"`
}

// Snapshot copies the model. The result shares nothing with w.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		CurrentWorkspace: w.current,
		CurrentMonitor:   w.Monitors.CurrentIndex(),
		Monitors:         w.Monitors.All(),
		Struts:           w.Struts.Totals(),
		StrutWindows:     w.Struts.Windows(),
		Workspaces:       make([]WorkspaceSnapshot, 0, NumWorkspaces),
	}
	for _, ws := range w.workspaces {
		focused := w.Focused(ws)
		wsSnap := WorkspaceSnapshot{
			Index:         ws.Index,
			Name:          ws.Name,
			Columns:       ws.NumColumns(),
			FocusedColumn: ws.FocusedColumn(),
		}
		for _, c := range ws.Clients() {
			wsSnap.Clients = append(wsSnap.Clients, ClientSnapshot{
				Window:     uint32(c.Window),
				Class:      c.Class,
				Instance:   c.Instance,
				Column:     c.Column,
				Geometry:   c.Geometry,
				Floating:   c.Floating,
				Fullscreen: c.Fullscreen,
				Hidden:     c.Hidden,
				Focused:    c == focused,
			})
		}
		snap.Workspaces = append(snap.Workspaces, wsSnap)
	}
	return snap
}

// Clients returns the number of clients in the snapshot.
func (s Snapshot) Clients() int {
	n := 0
	for _, ws := range s.Workspaces {
		n += len(ws.Clients)
	}
	return n
}
