package keys

import (
	"fmt"
	"strings"
)

// Mods is an X11 modifier mask.
type Mods uint16

const (
	ModShift   Mods = 1 << 0
	ModLock    Mods = 1 << 1
	ModControl Mods = 1 << 2
	Mod1       Mods = 1 << 3
	Mod2       Mods = 1 << 4
	Mod3       Mods = 1 << 5
	Mod4       Mods = 1 << 6
	Mod5       Mods = 1 << 7
)

// IgnoredMods are the lock modifiers (Caps Lock and Num Lock) stripped from
// key events before lookup.
const IgnoredMods = ModLock | Mod2

// Clean removes the lock modifiers and any bits above Mod5.
func (m Mods) Clean() Mods {
	return m &^ IgnoredMods & 0xff
}

var modNames = []struct {
	name string
	mod  Mods
}{
	{"Shift", ModShift},
	{"Lock", ModLock},
	{"Control", ModControl},
	{"Mod1", Mod1},
	{"Mod2", Mod2},
	{"Mod3", Mod3},
	{"Mod4", Mod4},
	{"Mod5", Mod5},
}

var modAliases = map[string]Mods{
	"ctrl":  ModControl,
	"alt":   Mod1,
	"super": Mod4,
}

func (m Mods) String() string {
	var parts []string
	for _, n := range modNames {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "-")
}

func parseMod(s string) (Mods, bool) {
	for _, n := range modNames {
		if strings.EqualFold(n.name, s) {
			return n.mod, true
		}
	}
	m, ok := modAliases[strings.ToLower(s)]
	return m, ok
}

// ParseCombo splits a binding string such as "Mod1-Shift-l" into its
// modifier mask and key symbol name. The key is the last dash separated
// field and keeps its case.
func ParseCombo(s string) (Mods, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, "", fmt.Errorf("empty key binding")
	}
	fields := strings.Split(s, "-")
	key := fields[len(fields)-1]
	if key == "" {
		return 0, "", fmt.Errorf("key binding %q has no key", s)
	}
	var mods Mods
	for _, f := range fields[:len(fields)-1] {
		m, ok := parseMod(f)
		if !ok {
			return 0, "", fmt.Errorf("key binding %q: unknown modifier %q", s, f)
		}
		mods |= m
	}
	if mods&IgnoredMods != 0 {
		return 0, "", fmt.Errorf("key binding %q: Lock and Mod2 are ignored and cannot be bound", s)
	}
	return mods, key, nil
}

// Binding ties a key combination to an action.
type Binding struct {
	Mods   Mods
	Key    string
	Action Action
	Arg    Arg
}

// NewBinding parses combo and validates the action argument.
func NewBinding(combo string, action Action, arg Arg) (Binding, error) {
	mods, key, err := ParseCombo(combo)
	if err != nil {
		return Binding{}, err
	}
	if err := Validate(action, arg); err != nil {
		return Binding{}, fmt.Errorf("key binding %q: %w", combo, err)
	}
	return Binding{Mods: mods, Key: key, Action: action, Arg: arg}, nil
}

// Combo renders the canonical binding string.
func (b Binding) Combo() string {
	if b.Mods == 0 {
		return b.Key
	}
	return b.Mods.String() + "-" + b.Key
}

func (b Binding) String() string {
	if s := b.Arg.String(); s != "" {
		return fmt.Sprintf("%s %s %s", b.Combo(), b.Action, s)
	}
	return fmt.Sprintf("%s %s", b.Combo(), b.Action)
}

// Table is the ordered key binding table.
type Table struct {
	bindings []Binding
}

// NewTable builds a table, rejecting two bindings for the same combination.
func NewTable(bindings []Binding) (*Table, error) {
	seen := make(map[string]struct{}, len(bindings))
	for _, b := range bindings {
		combo := b.Combo()
		if _, dup := seen[combo]; dup {
			return nil, fmt.Errorf("key %s bound twice", combo)
		}
		seen[combo] = struct{}{}
	}
	return &Table{bindings: append([]Binding(nil), bindings...)}, nil
}

// Lookup finds the first binding for the event state and key symbol. Lock
// modifiers in state are ignored.
func (t *Table) Lookup(state Mods, key string) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	state = state.Clean()
	for _, b := range t.bindings {
		if b.Mods == state && b.Key == key {
			return b, true
		}
	}
	return Binding{}, false
}

// All returns a copy of the bindings in table order.
func (t *Table) All() []Binding {
	if t == nil {
		return nil
	}
	return append([]Binding(nil), t.bindings...)
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}
