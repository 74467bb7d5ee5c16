package state

import (
	"sort"

	"github.com/eowm/eowm/internal/layout"
)

// StrutWindow is a panel or dock reserving space along the screen edges.
type StrutWindow struct {
	Window   layout.Window `json:"window"`
	Reserved layout.Insets `json:"reserved"`
}

// Struts tracks every live strut window. Totals are derived on demand so a
// removal can never leave a stale reservation behind.
type Struts struct {
	windows map[layout.Window]layout.Insets
}

// NewStruts returns an empty strut set.
func NewStruts() *Struts {
	return &Struts{windows: make(map[layout.Window]layout.Insets)}
}

// Add registers a strut window, replacing any previous reservation.
func (s *Struts) Add(id layout.Window, reserved layout.Insets) {
	s.windows[id] = reserved
}

// Update changes the reservation of a registered window. It reports false
// when id is not a known strut window.
func (s *Struts) Update(id layout.Window, reserved layout.Insets) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	s.windows[id] = reserved
	return true
}

// Remove forgets id and reports whether it was registered.
func (s *Struts) Remove(id layout.Window) bool {
	if _, ok := s.windows[id]; !ok {
		return false
	}
	delete(s.windows, id)
	return true
}

// Has reports whether id is a registered strut window.
func (s *Struts) Has(id layout.Window) bool {
	_, ok := s.windows[id]
	return ok
}

// Len returns the number of strut windows.
func (s *Struts) Len() int {
	return len(s.windows)
}

// Totals returns the per-edge maximum over all strut windows.
func (s *Struts) Totals() layout.Insets {
	var total layout.Insets
	for _, r := range s.windows {
		total = total.Max(r)
	}
	return total
}

// Windows lists the strut windows ordered by id.
func (s *Struts) Windows() []StrutWindow {
	out := make([]StrutWindow, 0, len(s.windows))
	for id, r := range s.windows {
		out = append(out, StrutWindow{Window: id, Reserved: r})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Window < out[j].Window })
	return out
}
