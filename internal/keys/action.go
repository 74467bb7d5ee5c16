package keys

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Action names a key-bound operation.
type Action string

const (
	FocusNext        Action = "focus.next"
	FocusPrev        Action = "focus.prev"
	ColumnFocus      Action = "column.focus"
	ColumnMove       Action = "column.move"
	WindowMove       Action = "window.move"
	WindowFullscreen Action = "window.fullscreen"
	WindowFloat      Action = "window.float"
	WindowClose      Action = "window.close"
	WorkspaceSwitch  Action = "workspace.switch"
	WorkspaceSend    Action = "workspace.send"
	MonitorFocus     Action = "monitor.focus"
	MonitorSend      Action = "monitor.send"
	Spawn            Action = "spawn"
	Quit             Action = "quit"
)

// ArgKind tags the payload of an Arg.
type ArgKind int

const (
	ArgNone ArgKind = iota
	ArgDelta
	ArgWorkspace
	ArgCommand
)

func (k ArgKind) String() string {
	switch k {
	case ArgNone:
		return "none"
	case ArgDelta:
		return "delta"
	case ArgWorkspace:
		return "workspace"
	case ArgCommand:
		return "command"
	default:
		return fmt.Sprintf("arg(%d)", int(k))
	}
}

var actionArgs = map[Action]ArgKind{
	FocusNext:        ArgNone,
	FocusPrev:        ArgNone,
	ColumnFocus:      ArgDelta,
	ColumnMove:       ArgDelta,
	WindowMove:       ArgDelta,
	WindowFullscreen: ArgNone,
	WindowFloat:      ArgNone,
	WindowClose:      ArgNone,
	WorkspaceSwitch:  ArgWorkspace,
	WorkspaceSend:    ArgWorkspace,
	MonitorFocus:     ArgDelta,
	MonitorSend:      ArgDelta,
	Spawn:            ArgCommand,
	Quit:             ArgNone,
}

// ArgKind returns the argument kind the action expects.
func (a Action) ArgKind() (ArgKind, bool) {
	k, ok := actionArgs[a]
	return k, ok
}

// Actions lists every known action name in sorted order.
func Actions() []Action {
	out := make([]Action, 0, len(actionArgs))
	for a := range actionArgs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Arg is the argument passed to an action. Only the field selected by Kind
// is meaningful. Workspace is zero-based.
type Arg struct {
	Kind      ArgKind
	Delta     int
	Workspace int
	Command   string
}

// NoArg is the empty argument.
func NoArg() Arg { return Arg{Kind: ArgNone} }

// DeltaArg is a signed step.
func DeltaArg(n int) Arg { return Arg{Kind: ArgDelta, Delta: n} }

// WorkspaceArg selects a workspace by zero-based index.
func WorkspaceArg(i int) Arg { return Arg{Kind: ArgWorkspace, Workspace: i} }

// CommandArg carries a shell command.
func CommandArg(cmd string) Arg { return Arg{Kind: ArgCommand, Command: cmd} }

func (a Arg) String() string {
	switch a.Kind {
	case ArgDelta:
		return strconv.Itoa(a.Delta)
	case ArgWorkspace:
		return strconv.Itoa(a.Workspace + 1)
	case ArgCommand:
		return a.Command
	default:
		return ""
	}
}

// Validate checks that arg suits the action.
func Validate(action Action, arg Arg) error {
	want, ok := action.ArgKind()
	if !ok {
		return fmt.Errorf("unknown action %q", action)
	}
	if arg.Kind != want {
		return fmt.Errorf("action %s takes a %s argument, got %s", action, want, arg.Kind)
	}
	switch arg.Kind {
	case ArgDelta:
		if arg.Delta == 0 {
			return fmt.Errorf("action %s needs a non-zero delta", action)
		}
	case ArgWorkspace:
		if arg.Workspace < 0 || arg.Workspace >= Workspaces {
			return fmt.Errorf("action %s: workspace %d out of range 1-%d", action, arg.Workspace+1, Workspaces)
		}
	case ArgCommand:
		if strings.TrimSpace(arg.Command) == "" {
			return fmt.Errorf("action %s needs a command", action)
		}
	}
	return nil
}

// Workspaces is the number of workspaces an ArgWorkspace may address.
const Workspaces = 9

// ParseArg builds the argument for action from its textual form, as typed on
// the command line. Workspaces are 1-based in text.
func ParseArg(action Action, raw string) (Arg, error) {
	kind, ok := action.ArgKind()
	if !ok {
		return Arg{}, fmt.Errorf("unknown action %q", action)
	}
	var arg Arg
	switch kind {
	case ArgNone:
		if raw != "" {
			return Arg{}, fmt.Errorf("action %s takes no argument", action)
		}
		arg = NoArg()
	case ArgDelta:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Arg{}, fmt.Errorf("action %s: parse delta %q: %w", action, raw, err)
		}
		arg = DeltaArg(n)
	case ArgWorkspace:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Arg{}, fmt.Errorf("action %s: parse workspace %q: %w", action, raw, err)
		}
		arg = WorkspaceArg(n - 1)
	case ArgCommand:
		arg = CommandArg(raw)
	}
	if err := Validate(action, arg); err != nil {
		return Arg{}, err
	}
	return arg, nil
}
