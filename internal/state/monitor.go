package state

import "github.com/eowm/eowm/internal/layout"

// Output is one display output as reported by the display server.
type Output struct {
	Name   string
	Rect   layout.Rect
	Active bool
}

// Monitor is a physical display region.
type Monitor struct {
	Index int         `json:"index"`
	Name  string      `json:"name"`
	Rect  layout.Rect `json:"rect"`
}

// Monitors holds the monitor set and the current-monitor pointer.
type Monitors struct {
	list    []Monitor
	current int
}

// NewMonitors returns a manager with a single monitor covering screen.
func NewMonitors(screen layout.Rect) *Monitors {
	m := &Monitors{}
	m.Rebuild(nil, screen)
	return m
}

// Rebuild replaces the monitor set. Inactive outputs, outputs without area
// and mirrors of an already listed region are skipped. When nothing remains
// a single monitor spanning screen is used.
func (m *Monitors) Rebuild(outputs []Output, screen layout.Rect) {
	list := make([]Monitor, 0, len(outputs))
	for _, out := range outputs {
		if !out.Active || out.Rect.Empty() {
			continue
		}
		if containsRect(list, out.Rect) {
			continue
		}
		list = append(list, Monitor{Index: len(list), Name: out.Name, Rect: out.Rect})
	}
	if len(list) == 0 {
		list = append(list, Monitor{Index: 0, Name: "screen", Rect: screen})
	}
	m.list = list
	if m.current >= len(list) {
		m.current = 0
	}
}

func containsRect(list []Monitor, r layout.Rect) bool {
	for _, mon := range list {
		if mon.Rect == r {
			return true
		}
	}
	return false
}

// Len returns the number of monitors.
func (m *Monitors) Len() int {
	return len(m.list)
}

// All returns a copy of the monitor list.
func (m *Monitors) All() []Monitor {
	return append([]Monitor(nil), m.list...)
}

// Rects returns the monitor regions in ordinal order.
func (m *Monitors) Rects() []layout.Rect {
	out := make([]layout.Rect, len(m.list))
	for i, mon := range m.list {
		out[i] = mon.Rect
	}
	return out
}

// At returns the monitor containing the point, or monitor 0 when the point
// is outside every region.
func (m *Monitors) At(x, y int) Monitor {
	return m.list[layout.MonitorAt(m.Rects(), x, y)]
}

// ForRect resolves the monitor of r by its centre.
func (m *Monitors) ForRect(r layout.Rect) Monitor {
	x, y := r.Center()
	return m.At(x, y)
}

// Current returns the monitor new clients are placed on.
func (m *Monitors) Current() Monitor {
	return m.list[m.current]
}

// CurrentIndex returns the ordinal of the current monitor.
func (m *Monitors) CurrentIndex() int {
	return m.current
}

// SetCurrent moves the current-monitor pointer, ignoring out of range values.
func (m *Monitors) SetCurrent(i int) {
	if i >= 0 && i < len(m.list) {
		m.current = i
	}
}

// Step moves the current-monitor pointer by delta, wrapping around.
func (m *Monitors) Step(delta int) Monitor {
	n := len(m.list)
	m.current = ((m.current+delta)%n + n) % n
	return m.list[m.current]
}
