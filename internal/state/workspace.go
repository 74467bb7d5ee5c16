package state

import "github.com/eowm/eowm/internal/layout"

// Workspace is one virtual desktop: an ordered sequence of columns, each an
// ordered sequence of clients. It always holds at least one column.
type Workspace struct {
	Index int
	Name  string

	// Focused is the window that has focus on this workspace, or
	// layout.None. It is resolved through the registry before use.
	Focused layout.Window

	columns       [][]*Client
	focusedColumn int
}

// NewWorkspace returns a workspace with a single empty column.
func NewWorkspace(index int, name string) *Workspace {
	return &Workspace{Index: index, Name: name, columns: [][]*Client{nil}}
}

// NumColumns returns the number of columns.
func (w *Workspace) NumColumns() int {
	return len(w.columns)
}

// Column returns the members of column i, or nil when out of range.
func (w *Workspace) Column(i int) []*Client {
	if i < 0 || i >= len(w.columns) {
		return nil
	}
	return w.columns[i]
}

// FocusedColumn returns the index of the focused column.
func (w *Workspace) FocusedColumn() int {
	return w.focusedColumn
}

// SetFocusedColumn selects column i, clamped into range.
func (w *Workspace) SetFocusedColumn(i int) {
	w.focusedColumn = clamp(i, 0, len(w.columns)-1)
}

// AddToColumn appends c to column i, clamped into range.
func (w *Workspace) AddToColumn(i int, c *Client) {
	i = clamp(i, 0, len(w.columns)-1)
	w.columns[i] = append(w.columns[i], c)
	c.Column = i
	c.Workspace = w.Index
}

// Remove deletes c from its column, keeping the order of the other members,
// and compacts. It reports whether c was found.
func (w *Workspace) Remove(c *Client) bool {
	if !w.detach(c) {
		return false
	}
	if w.Focused == c.Window {
		w.Focused = layout.None
	}
	w.Compact()
	return true
}

// detach removes c without compacting.
func (w *Workspace) detach(c *Client) bool {
	for ci, col := range w.columns {
		for ri, member := range col {
			if member != c {
				continue
			}
			w.columns[ci] = append(col[:ri:ri], col[ri+1:]...)
			return true
		}
	}
	return false
}

// Compact drops empty columns, renumbers the survivors and clamps the
// focused column. One column always remains. Calling it twice is the same
// as calling it once.
func (w *Workspace) Compact() {
	kept := w.columns[:0]
	for _, col := range w.columns {
		if len(col) > 0 {
			kept = append(kept, col)
		}
	}
	for i := len(kept); i < len(w.columns); i++ {
		w.columns[i] = nil
	}
	if len(kept) == 0 {
		kept = append(kept, nil)
	}
	w.columns = kept
	for ci, col := range w.columns {
		for _, c := range col {
			c.Column = ci
		}
	}
	w.focusedColumn = clamp(w.focusedColumn, 0, len(w.columns)-1)
}

// MoveColumn shifts c one column in the direction of delta. Moving past
// either edge opens a new column while fewer than maxColumns exist and
// clamps otherwise. The focused column follows c.
func (w *Workspace) MoveColumn(c *Client, delta, maxColumns int) bool {
	if delta == 0 || !w.detach(c) {
		return false
	}
	target := c.Column + sign(delta)
	switch {
	case target < 0:
		if len(w.columns) < maxColumns {
			w.columns = append([][]*Client{nil}, w.columns...)
		}
		target = 0
	case target >= len(w.columns):
		if len(w.columns) < maxColumns {
			w.columns = append(w.columns, nil)
		}
		target = len(w.columns) - 1
	}
	w.AddToColumn(target, c)
	w.Compact()
	w.focusedColumn = c.Column
	return true
}

// MoveInColumn swaps c with the member one row away in the direction of
// delta. It reports false when c is already at that end of its column.
func (w *Workspace) MoveInColumn(c *Client, delta int) bool {
	row := w.Row(c)
	if delta == 0 || row < 0 {
		return false
	}
	col := w.columns[c.Column]
	target := row + sign(delta)
	if target < 0 || target >= len(col) {
		return false
	}
	col[row], col[target] = col[target], col[row]
	return true
}

// Clients returns every member in column-major order.
func (w *Workspace) Clients() []*Client {
	var out []*Client
	for _, col := range w.columns {
		out = append(out, col...)
	}
	return out
}

// Len returns the number of clients on the workspace.
func (w *Workspace) Len() int {
	n := 0
	for _, col := range w.columns {
		n += len(col)
	}
	return n
}

// First returns the first member of the first column, or nil.
func (w *Workspace) First() *Client {
	for _, col := range w.columns {
		if len(col) > 0 {
			return col[0]
		}
	}
	return nil
}

// Contains reports whether id is a member of the workspace.
func (w *Workspace) Contains(id layout.Window) bool {
	return w.indexOf(id) >= 0
}

// Row returns the position of c inside its column, or -1.
func (w *Workspace) Row(c *Client) int {
	for i, member := range w.Column(c.Column) {
		if member == c {
			return i
		}
	}
	return -1
}

// Next returns the client after id in column-major order, wrapping.
func (w *Workspace) Next(id layout.Window) *Client {
	return w.cycle(id, 1)
}

// Prev returns the client before id in column-major order, wrapping.
func (w *Workspace) Prev(id layout.Window) *Client {
	return w.cycle(id, -1)
}

func (w *Workspace) cycle(id layout.Window, step int) *Client {
	all := w.Clients()
	if len(all) == 0 {
		return nil
	}
	i := w.indexOf(id)
	if i < 0 {
		return all[0]
	}
	n := len(all)
	return all[((i+step)%n+n)%n]
}

func (w *Workspace) indexOf(id layout.Window) int {
	i := 0
	for _, col := range w.columns {
		for _, c := range col {
			if c.Window == id {
				return i
			}
			i++
		}
	}
	return -1
}

// Tiles returns the layout view of the columns.
func (w *Workspace) Tiles() [][]layout.Tile {
	out := make([][]layout.Tile, len(w.columns))
	for i, col := range w.columns {
		tiles := make([]layout.Tile, len(col))
		for j, c := range col {
			tiles[j] = c.Tile()
		}
		out[i] = tiles
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}
