package layout

import (
	"errors"
	"fmt"
)

// Op identifies a display command kind.
type Op int

const (
	OpMoveResize Op = iota
	OpBorder
	OpShow
	OpHide
	OpRaise
)

func (o Op) String() string {
	switch o {
	case OpMoveResize:
		return "moveresize"
	case OpBorder:
		return "border"
	case OpShow:
		return "show"
	case OpHide:
		return "hide"
	case OpRaise:
		return "raise"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Command is a single geometry or visibility instruction for one window.
type Command struct {
	Op     Op
	Window Window
	Rect   Rect
	Border int
}

func (c Command) String() string {
	switch c.Op {
	case OpMoveResize:
		return fmt.Sprintf("%s 0x%x %d,%d %dx%d", c.Op, uint32(c.Window), c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)
	case OpBorder:
		return fmt.Sprintf("%s 0x%x %d", c.Op, uint32(c.Window), c.Border)
	default:
		return fmt.Sprintf("%s 0x%x", c.Op, uint32(c.Window))
	}
}

// Dispatcher applies layout commands.
type Dispatcher interface {
	MoveResize(w Window, r Rect) error
	SetBorderWidth(w Window, width int) error
	Show(w Window) error
	Hide(w Window) error
	Raise(w Window) error
}

// Plan is a collection of sequential layout commands.
type Plan struct {
	Commands []Command
}

// Add appends a command.
func (p *Plan) Add(c Command) {
	p.Commands = append(p.Commands, c)
}

// Merge merges other plan into this one.
func (p *Plan) Merge(other Plan) {
	p.Commands = append(p.Commands, other.Commands...)
}

// MoveResize places w at r.
func (p *Plan) MoveResize(w Window, r Rect) {
	p.Add(Command{Op: OpMoveResize, Window: w, Rect: r})
}

// Border sets the border width of w.
func (p *Plan) Border(w Window, width int) {
	p.Add(Command{Op: OpBorder, Window: w, Border: width})
}

// Show maps w and clears its hidden state.
func (p *Plan) Show(w Window) {
	p.Add(Command{Op: OpShow, Window: w})
}

// Hide unmaps w and marks it hidden.
func (p *Plan) Hide(w Window) {
	p.Add(Command{Op: OpHide, Window: w})
}

// Raise stacks w above its siblings.
func (p *Plan) Raise(w Window) {
	p.Add(Command{Op: OpRaise, Window: w})
}

// Execute applies the plan sequentially using dispatcher. A failing command
// does not stop the remaining ones; all failures are returned joined.
func (p Plan) Execute(d Dispatcher) error {
	var errs []error
	for _, cmd := range p.Commands {
		var err error
		switch cmd.Op {
		case OpMoveResize:
			err = d.MoveResize(cmd.Window, cmd.Rect)
		case OpBorder:
			err = d.SetBorderWidth(cmd.Window, cmd.Border)
		case OpShow:
			err = d.Show(cmd.Window)
		case OpHide:
			err = d.Hide(cmd.Window)
		case OpRaise:
			err = d.Raise(cmd.Window)
		default:
			err = fmt.Errorf("unknown op %d", int(cmd.Op))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", cmd, err))
		}
	}
	return errors.Join(errs...)
}
