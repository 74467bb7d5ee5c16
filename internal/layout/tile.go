package layout

// Tile is the layout's view of one managed window.
type Tile struct {
	Window     Window
	Geometry   Rect
	Floating   bool
	Fullscreen bool
}

// Params holds the scalar layout settings.
type Params struct {
	Padding       int
	BorderWidth   int
	MinWindowSize int
}

// Input is everything Arrange needs to lay out one workspace.
type Input struct {
	Columns        [][]Tile
	Monitors       []Rect
	CurrentMonitor int
	Struts         Insets
	Params         Params
}

// Arrange computes the commands that tile a workspace. It is a pure function
// of its input, so arranging an unchanged workspace twice yields the same plan.
//
// A fullscreen client takes its whole monitor and hides every other client of
// the workspace. Otherwise each monitor is tiled independently: columns that
// hold at least one tiled client on the monitor share its usable width evenly
// and their clients share the column height, the bottom one absorbing the
// rounding remainder. Floating clients keep their geometry and are raised last.
func Arrange(in Input) Plan {
	var p Plan
	if len(in.Monitors) == 0 {
		return p
	}
	var all []Tile
	for _, col := range in.Columns {
		all = append(all, col...)
	}
	if len(all) == 0 {
		return p
	}

	for _, t := range all {
		if !t.Fullscreen {
			continue
		}
		mon := in.Monitors[MonitorFor(in.Monitors, t.Geometry)]
		p.Border(t.Window, 0)
		p.MoveResize(t.Window, mon)
		p.Show(t.Window)
		p.Raise(t.Window)
		for _, other := range all {
			if other.Window != t.Window {
				p.Hide(other.Window)
			}
		}
		return p
	}

	for _, t := range all {
		p.Show(t.Window)
		p.Border(t.Window, in.Params.BorderWidth)
	}

	for _, m := range monitorOrder(len(in.Monitors), in.CurrentMonitor) {
		p.Merge(arrangeMonitor(in, m))
	}

	for _, t := range all {
		if t.Floating {
			p.Raise(t.Window)
		}
	}
	return p
}

func arrangeMonitor(in Input, monitor int) Plan {
	var p Plan
	columns := make([][]Tile, 0, len(in.Columns))
	for _, col := range in.Columns {
		var eligible []Tile
		for _, t := range col {
			if t.Floating {
				continue
			}
			if MonitorFor(in.Monitors, t.Geometry) != monitor {
				continue
			}
			eligible = append(eligible, t)
		}
		if len(eligible) > 0 {
			columns = append(columns, eligible)
		}
	}
	if len(columns) == 0 {
		return p
	}

	pad := in.Params.Padding
	floor := in.Params.MinWindowSize
	usable := in.Struts.ShrinkRect(in.Monitors[monitor]).Inset(pad)
	xs := splitColumns(usable.X, usable.Width, len(columns), pad, floor)
	for i, col := range columns {
		ys := splitRows(usable.Y, usable.Height, len(col), pad, floor)
		for j, t := range col {
			p.MoveResize(t.Window, Rect{X: xs[i].start, Y: ys[j].start, Width: xs[i].size, Height: ys[j].size})
		}
	}
	return p
}

// monitorOrder lists monitor indices starting with the current one.
func monitorOrder(count, current int) []int {
	if current < 0 || current >= count {
		current = 0
	}
	order := make([]int, 0, count)
	order = append(order, current)
	for i := 0; i < count; i++ {
		if i != current {
			order = append(order, i)
		}
	}
	return order
}
