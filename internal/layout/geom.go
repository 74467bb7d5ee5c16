package layout

// Window is the display server's opaque identifier for a top-level window.
type Window uint32

// None is the zero window, used where no window is selected.
const None Window = 0

// Rect represents a window or monitor region in pixels.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Insets describes space reserved along each screen edge.
type Insets struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// IsZero reports whether no edge reserves any space.
func (i Insets) IsZero() bool {
	return i.Left == 0 && i.Right == 0 && i.Top == 0 && i.Bottom == 0
}

// Max returns the per-edge maximum of both insets.
func (i Insets) Max(other Insets) Insets {
	return Insets{
		Left:   max(i.Left, other.Left),
		Right:  max(i.Right, other.Right),
		Top:    max(i.Top, other.Top),
		Bottom: max(i.Bottom, other.Bottom),
	}
}

// ShrinkRect removes the reserved edges from r. Dimensions never go negative.
func (i Insets) ShrinkRect(r Rect) Rect {
	r.X += i.Left
	r.Y += i.Top
	r.Width -= i.Left + i.Right
	r.Height -= i.Top + i.Bottom
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// Inset shrinks r by n pixels on every side.
func (r Rect) Inset(n int) Rect {
	return Insets{Left: n, Right: n, Top: n, Bottom: n}.ShrinkRect(r)
}

// Center returns the midpoint of r.
func (r Rect) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

// Contains reports whether the point lies inside r. The right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CenterIn returns r moved so that its centre matches the centre of outer,
// shrunk to fit when it is larger than outer.
func (r Rect) CenterIn(outer Rect) Rect {
	if r.Width > outer.Width {
		r.Width = outer.Width
	}
	if r.Height > outer.Height {
		r.Height = outer.Height
	}
	r.X = outer.X + (outer.Width-r.Width)/2
	r.Y = outer.Y + (outer.Height-r.Height)/2
	return r
}

// Overlaps reports whether a and b share any area.
func Overlaps(a, b Rect) bool {
	if a.Empty() || b.Empty() {
		return false
	}
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}
