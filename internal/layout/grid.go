package layout

// span is a contiguous run along one axis.
type span struct {
	start int
	size  int
}

// splitColumns divides length into count equal slices separated by gap.
// Every slice gets the same width; the remainder of the integer division is
// left unused at the far edge.
func splitColumns(start, length, count, gap, floor int) []span {
	if count <= 0 {
		return nil
	}
	width := (length - (count-1)*gap) / count
	if width < floor {
		width = floor
	}
	spans := make([]span, count)
	pos := start
	for i := range spans {
		spans[i] = span{start: pos, size: width}
		pos += width + gap
	}
	return spans
}

// splitRows divides length into count slices separated by gap. The last
// slice extends to the far edge so integer round-off never leaves a strip
// uncovered. Slices smaller than floor are clamped up to it.
func splitRows(start, length, count, gap, floor int) []span {
	if count <= 0 {
		return nil
	}
	height := (length - (count-1)*gap) / count
	end := start + length
	spans := make([]span, count)
	pos := start
	for i := range spans {
		h := height
		if i == count-1 {
			h = end - pos
		}
		if h < floor {
			h = floor
		}
		spans[i] = span{start: pos, size: h}
		pos += h + gap
	}
	return spans
}

// MonitorAt returns the index of the monitor containing the point, or 0 when
// the point lies outside every monitor. It returns -1 only when monitors is
// empty.
func MonitorAt(monitors []Rect, x, y int) int {
	if len(monitors) == 0 {
		return -1
	}
	for i, m := range monitors {
		if m.Contains(x, y) {
			return i
		}
	}
	return 0
}

// MonitorFor resolves the monitor of r by its centre point.
func MonitorFor(monitors []Rect, r Rect) int {
	x, y := r.Center()
	return MonitorAt(monitors, x, y)
}
