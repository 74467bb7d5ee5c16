package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector aggregates counters for the event loop. The control server reads
// snapshots from another goroutine, so every access takes the lock.
type Collector struct {
	mu      sync.RWMutex
	enabled bool
	started time.Time

	events         map[string]*EventMetrics
	actions        map[string]uint64
	layoutPasses   uint64
	commands       uint64
	commandErrors  uint64
	protocolErrors uint64
	managed        uint64
	unmanaged      uint64
}

// EventMetrics captures per-kind counters.
type EventMetrics struct {
	Kind     string    `json:"kind"`
	Handled  uint64    `json:"handled"`
	Errors   uint64    `json:"errors"`
	LastSeen time.Time `json:"lastSeen,omitempty"`
}

// ActionMetrics counts executions of one key-bound operation.
type ActionMetrics struct {
	Action string `json:"action"`
	Runs   uint64 `json:"runs"`
}

// Totals aggregates counters across the collector.
type Totals struct {
	Events         uint64 `json:"events"`
	EventErrors    uint64 `json:"eventErrors"`
	LayoutPasses   uint64 `json:"layoutPasses"`
	Commands       uint64 `json:"commands"`
	CommandErrors  uint64 `json:"commandErrors"`
	ProtocolErrors uint64 `json:"protocolErrors"`
	Managed        uint64 `json:"managed"`
	Unmanaged      uint64 `json:"unmanaged"`
}

// Snapshot is the serializable view of the current metrics state.
type Snapshot struct {
	Enabled bool            `json:"enabled"`
	Started time.Time       `json:"started,omitempty"`
	Totals  Totals          `json:"totals"`
	Events  []EventMetrics  `json:"events,omitempty"`
	Actions []ActionMetrics `json:"actions,omitempty"`
}

// NewCollector returns a collector with the provided state.
func NewCollector(enabled bool) *Collector {
	c := &Collector{}
	c.SetEnabled(enabled)
	return c
}

// Enabled reports whether collection is currently active.
func (c *Collector) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetEnabled toggles collection, resetting counters when enabling.
func (c *Collector) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	c.reset()
	if enabled {
		c.started = time.Now()
	}
}

func (c *Collector) reset() {
	c.started = time.Time{}
	c.events = make(map[string]*EventMetrics)
	c.actions = make(map[string]uint64)
	c.layoutPasses = 0
	c.commands = 0
	c.commandErrors = 0
	c.protocolErrors = 0
	c.managed = 0
	c.unmanaged = 0
}

func (c *Collector) update(mutate func(now time.Time)) {
	if c == nil {
		return
	}
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	mutate(now)
}

// RecordEvent counts one handled event of kind; failed marks a handler error.
func (c *Collector) RecordEvent(kind string, failed bool) {
	c.update(func(now time.Time) {
		m, ok := c.events[kind]
		if !ok {
			m = &EventMetrics{Kind: kind}
			c.events[kind] = m
		}
		m.Handled++
		if failed {
			m.Errors++
		}
		m.LastSeen = now
	})
}

// RecordAction counts one run of a key-bound operation.
func (c *Collector) RecordAction(action string) {
	c.update(func(time.Time) { c.actions[action]++ })
}

// RecordLayout counts one layout pass that issued commands, of which failed
// returned an error.
func (c *Collector) RecordLayout(commands, failed int) {
	c.update(func(time.Time) {
		c.layoutPasses++
		c.commands += uint64(commands)
		c.commandErrors += uint64(failed)
	})
}

// RecordProtocolError counts an asynchronous display-server error.
func (c *Collector) RecordProtocolError() {
	c.update(func(time.Time) { c.protocolErrors++ })
}

// RecordManaged counts a client entering management.
func (c *Collector) RecordManaged() {
	c.update(func(time.Time) { c.managed++ })
}

// RecordUnmanaged counts a client leaving management.
func (c *Collector) RecordUnmanaged() {
	c.update(func(time.Time) { c.unmanaged++ })
}

// Snapshot returns the current counters for serialization or display.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Enabled: c.enabled}
	if !c.enabled {
		return snap
	}
	snap.Started = c.started
	snap.Totals = Totals{
		LayoutPasses:   c.layoutPasses,
		Commands:       c.commands,
		CommandErrors:  c.commandErrors,
		ProtocolErrors: c.protocolErrors,
		Managed:        c.managed,
		Unmanaged:      c.unmanaged,
	}
	for _, m := range c.events {
		snap.Events = append(snap.Events, *m)
		snap.Totals.Events += m.Handled
		snap.Totals.EventErrors += m.Errors
	}
	sort.Slice(snap.Events, func(i, j int) bool { return snap.Events[i].Kind < snap.Events[j].Kind })
	for name, runs := range c.actions {
		snap.Actions = append(snap.Actions, ActionMetrics{Action: name, Runs: runs})
	}
	sort.Slice(snap.Actions, func(i, j int) bool { return snap.Actions[i].Action < snap.Actions[j].Action })
	return snap
}
