package rules

import (
	"fmt"

	"github.com/eowm/eowm/internal/config"
)

// Current marks a rule target that follows the current workspace or monitor.
const Current = -1

// Rule is a compiled placement rule. An empty Class or Instance matches any
// value. Workspace and Monitor are zero-based or Current.
type Rule struct {
	Class     string
	Instance  string
	Floating  bool
	Workspace int
	Monitor   int
}

// Matches reports whether the rule applies to a window with the given
// WM_CLASS strings. Comparison is exact.
func (r Rule) Matches(class, instance string) bool {
	if r.Class != "" && r.Class != class {
		return false
	}
	if r.Instance != "" && r.Instance != instance {
		return false
	}
	return true
}

func (r Rule) String() string {
	return fmt.Sprintf("class=%q instance=%q floating=%t workspace=%d monitor=%d", r.Class, r.Instance, r.Floating, r.Workspace, r.Monitor)
}

// Matcher holds the ordered rule table.
type Matcher struct {
	rules []Rule
}

// Build compiles configuration into a matcher.
func Build(cfgs []config.RuleConfig) (*Matcher, error) {
	m := &Matcher{rules: make([]Rule, 0, len(cfgs))}
	for i, rc := range cfgs {
		if rc.Class == "" && rc.Instance == "" {
			return nil, fmt.Errorf("rule %d matches every window", i+1)
		}
		m.rules = append(m.rules, Rule{
			Class:     rc.Class,
			Instance:  rc.Instance,
			Floating:  rc.Floating,
			Workspace: target(rc.Workspace),
			Monitor:   target(rc.Monitor),
		})
	}
	return m, nil
}

// NewMatcher wraps an already compiled rule table.
func NewMatcher(rules ...Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

func target(oneBased int) int {
	if oneBased <= 0 {
		return Current
	}
	return oneBased - 1
}

// Match returns the first rule matching the window.
func (m *Matcher) Match(class, instance string) (Rule, bool) {
	if m == nil {
		return Rule{}, false
	}
	for _, r := range m.rules {
		if r.Matches(class, instance) {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns a copy of the table.
func (m *Matcher) Rules() []Rule {
	if m == nil {
		return nil
	}
	return append([]Rule(nil), m.rules...)
}

// Placement is the resolved policy for a new client.
type Placement struct {
	Workspace int
	Monitor   int
	Floating  bool
	Matched   bool
}

// Resolve decides where a new window goes. Without a matching rule it lands
// on the current workspace and monitor, floating only when it is transient
// for another window. currentMonitor is returned unchanged when a rule names
// a monitor outside 0..monitors-1.
func (m *Matcher) Resolve(class, instance string, transient bool, currentWorkspace, currentMonitor, monitors int) Placement {
	p := Placement{Workspace: currentWorkspace, Monitor: currentMonitor, Floating: transient}
	r, ok := m.Match(class, instance)
	if !ok {
		return p
	}
	p.Matched = true
	p.Floating = r.Floating || transient
	if r.Workspace != Current {
		p.Workspace = r.Workspace
	}
	if r.Monitor != Current && r.Monitor < monitors {
		p.Monitor = r.Monitor
	}
	return p
}
