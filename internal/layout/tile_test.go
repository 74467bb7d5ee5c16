package layout

import (
	"fmt"
	"reflect"
	"testing"
)

var testParams = Params{Padding: 10, BorderWidth: 2, MinWindowSize: 50}

func screen() Rect { return Rect{Width: 1920, Height: 1080} }

func tile(w Window) Tile {
	return Tile{Window: w, Geometry: Rect{X: 100, Y: 100, Width: 400, Height: 300}}
}

func moves(p Plan) map[Window]Rect {
	out := make(map[Window]Rect)
	for _, c := range p.Commands {
		if c.Op == OpMoveResize {
			out[c.Window] = c.Rect
		}
	}
	return out
}

func ops(p Plan, w Window) []Op {
	var out []Op
	for _, c := range p.Commands {
		if c.Window == w {
			out = append(out, c.Op)
		}
	}
	return out
}

func TestArrangeThreeColumns(t *testing.T) {
	in := Input{
		Columns:  [][]Tile{{tile(1)}, {tile(2)}, {tile(3)}},
		Monitors: []Rect{screen()},
		Params:   testParams,
	}
	got := moves(Arrange(in))
	want := map[Window]Rect{
		1: {X: 10, Y: 10, Width: 626, Height: 1060},
		2: {X: 646, Y: 10, Width: 626, Height: 1060},
		3: {X: 1282, Y: 10, Width: 626, Height: 1060},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected geometry:\n got %+v\nwant %+v", got, want)
	}
}

func TestArrangeStackedColumnCoversHeight(t *testing.T) {
	in := Input{
		Columns:  [][]Tile{{tile(1), tile(2)}},
		Monitors: []Rect{screen()},
		Params:   testParams,
	}
	got := moves(Arrange(in))
	top, bottom := got[1], got[2]
	if top.Y != 10 || top.Height != 525 {
		t.Fatalf("top row = %+v", top)
	}
	if bottom.Y != top.Y+top.Height+testParams.Padding {
		t.Fatalf("gap between rows: top %+v bottom %+v", top, bottom)
	}
	if bottom.Y+bottom.Height != 1070 {
		t.Fatalf("bottom row does not reach usable edge: %+v", bottom)
	}
	if top.Width != 1900 || bottom.Width != 1900 {
		t.Fatalf("single column should span usable width: %+v %+v", top, bottom)
	}
}

func TestArrangeOddHeightRemainderGoesToLastRow(t *testing.T) {
	in := Input{
		Columns:  [][]Tile{{tile(1), tile(2), tile(3)}},
		Monitors: []Rect{{Width: 800, Height: 621}},
		Params:   Params{MinWindowSize: 1},
	}
	got := moves(Arrange(in))
	if got[1].Height != 207 || got[2].Height != 207 || got[3].Height != 207 {
		t.Fatalf("unexpected heights: %+v", got)
	}
	in.Monitors[0].Height = 622
	got = moves(Arrange(in))
	if got[3].Height != 208 || got[3].Y+got[3].Height != 622 {
		t.Fatalf("last row should absorb remainder: %+v", got[3])
	}
}

func TestArrangeRespectsStruts(t *testing.T) {
	in := Input{
		Columns:  [][]Tile{{tile(1)}},
		Monitors: []Rect{screen()},
		Struts:   Insets{Top: 30},
		Params:   testParams,
	}
	got := moves(Arrange(in))[1]
	want := Rect{X: 10, Y: 40, Width: 1900, Height: 1030}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestArrangeTilesWithoutOverlap(t *testing.T) {
	single := []Rect{screen()}
	dual := []Rect{{Width: 960, Height: 1080}, {X: 960, Width: 960, Height: 1080}}
	setups := []struct {
		name     string
		monitors []Rect
		struts   Insets
	}{
		{"single", single, Insets{}},
		{"struts", single, Insets{Top: 30, Bottom: 24, Left: 40}},
		{"dual", dual, Insets{}},
	}
	for _, setup := range setups {
		for cols := 1; cols <= 6; cols++ {
			for rows := 1; rows <= 8; rows++ {
				name := fmt.Sprintf("%s/%dx%d", setup.name, cols, rows)
				t.Run(name, func(t *testing.T) {
					checkTiling(t, setup.monitors, setup.struts, cols, rows)
				})
			}
		}
	}
}

// checkTiling lays out cols columns, column i holding between 1 and rows
// clients, with columns alternating between the monitors.
func checkTiling(t *testing.T, monitors []Rect, struts Insets, cols, rows int) {
	t.Helper()
	columns := make([][]Tile, cols)
	for i := range columns {
		mon := monitors[i%len(monitors)]
		for j := 0; j < 1+(rows+i-1)%rows; j++ {
			columns[i] = append(columns[i], Tile{
				Window:   Window(i*10 + j + 1),
				Geometry: Rect{X: mon.X + 100, Y: 100, Width: 400, Height: 300},
			})
		}
	}
	got := moves(Arrange(Input{Columns: columns, Monitors: monitors, Struts: struts, Params: testParams}))
	pad := testParams.Padding

	var all []Rect
	for m, mon := range monitors {
		usable := struts.ShrinkRect(mon).Inset(pad)
		var prev *Rect
		for i := m; i < cols; i += len(monitors) {
			col := columns[i]
			first, last := got[col[0].Window], got[col[len(col)-1].Window]
			if prev == nil && first.X != usable.X {
				t.Fatalf("first column starts at x=%d, usable area %+v", first.X, usable)
			}
			if prev != nil && first.X != prev.X+prev.Width+pad {
				t.Fatalf("column %d at x=%d after %+v, want a gap of %d", i, first.X, *prev, pad)
			}
			if first.Y != usable.Y || last.Y+last.Height != usable.Y+usable.Height {
				t.Fatalf("column %d spans y=%d..%d, usable area %+v", i, first.Y, last.Y+last.Height, usable)
			}
			for j := 1; j < len(col); j++ {
				above, r := got[col[j-1].Window], got[col[j].Window]
				if r.Y != above.Y+above.Height+pad {
					t.Fatalf("column %d row %d at y=%d after %+v, want a gap of %d", i, j, r.Y, above, pad)
				}
			}
			for _, tl := range col {
				r := got[tl.Window]
				if r.X < usable.X || r.Y < usable.Y || r.X+r.Width > usable.X+usable.Width || r.Y+r.Height > usable.Y+usable.Height {
					t.Fatalf("window %d %+v leaves usable area %+v", tl.Window, r, usable)
				}
				all = append(all, r)
			}
			prev = &first
		}
		if prev != nil {
			// Equal column widths leave the division remainder at the right.
			if slack := usable.X + usable.Width - (prev.X + prev.Width); slack < 0 || slack >= cols {
				t.Fatalf("last column ends %d px short of the usable edge", slack)
			}
		}
	}
	for i := range all {
		for j := i + 1; j < len(all); j++ {
			if Overlaps(all[i], all[j]) {
				t.Fatalf("tiles overlap: %+v and %+v", all[i], all[j])
			}
		}
	}
}

func TestArrangeIsIdempotent(t *testing.T) {
	in := Input{
		Columns:  [][]Tile{{tile(1), tile(2)}, {tile(3)}},
		Monitors: []Rect{screen()},
		Params:   testParams,
	}
	first := Arrange(in)
	second := Arrange(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("plans differ:\n%v\n%v", first, second)
	}
}

func TestArrangeFullscreenHidesOthers(t *testing.T) {
	fs := tile(2)
	fs.Fullscreen = true
	in := Input{
		Columns:  [][]Tile{{tile(1)}, {fs}, {tile(3)}},
		Monitors: []Rect{screen()},
		Params:   testParams,
	}
	p := Arrange(in)
	if got := moves(p)[2]; got != screen() {
		t.Fatalf("fullscreen geometry = %+v", got)
	}
	if got := ops(p, 2); !reflect.DeepEqual(got, []Op{OpBorder, OpMoveResize, OpShow, OpRaise}) {
		t.Fatalf("fullscreen ops = %v", got)
	}
	for _, w := range []Window{1, 3} {
		if got := ops(p, w); !reflect.DeepEqual(got, []Op{OpHide}) {
			t.Fatalf("window %d ops = %v, want hide only", w, got)
		}
	}
	for _, c := range p.Commands {
		if c.Op == OpBorder && c.Border != 0 {
			t.Fatalf("fullscreen border = %d", c.Border)
		}
	}
}

func TestArrangeFloatingKeepsGeometry(t *testing.T) {
	fl := tile(2)
	fl.Floating = true
	in := Input{
		Columns:  [][]Tile{{tile(1)}, {fl}},
		Monitors: []Rect{screen()},
		Params:   testParams,
	}
	p := Arrange(in)
	got := moves(p)
	if _, ok := got[2]; ok {
		t.Fatalf("floating client was moved: %+v", got[2])
	}
	if got[1].Width != 1900 {
		t.Fatalf("floating-only column should not take width: %+v", got[1])
	}
	last := p.Commands[len(p.Commands)-1]
	if last.Op != OpRaise || last.Window != 2 {
		t.Fatalf("floating client not raised last: %v", last)
	}
}

func TestArrangeMultiMonitor(t *testing.T) {
	left := Rect{Width: 1000, Height: 800}
	right := Rect{X: 1000, Width: 1000, Height: 800}
	onRight := Tile{Window: 2, Geometry: Rect{X: 1200, Y: 100, Width: 200, Height: 200}}
	in := Input{
		Columns:        [][]Tile{{tile(1)}, {onRight}},
		Monitors:       []Rect{left, right},
		CurrentMonitor: 1,
		Params:         Params{MinWindowSize: 1},
	}
	p := Arrange(in)
	got := moves(p)
	if got[1] != left || got[2] != right {
		t.Fatalf("each monitor should be tiled alone: %+v", got)
	}
	var order []Window
	for _, c := range p.Commands {
		if c.Op == OpMoveResize {
			order = append(order, c.Window)
		}
	}
	if !reflect.DeepEqual(order, []Window{2, 1}) {
		t.Fatalf("current monitor should be arranged first, got %v", order)
	}
}

func TestArrangeClampsToMinimum(t *testing.T) {
	var col []Tile
	for w := Window(1); w <= 5; w++ {
		col = append(col, tile(w))
	}
	in := Input{
		Columns:  [][]Tile{col},
		Monitors: []Rect{{Width: 400, Height: 100}},
		Params:   Params{MinWindowSize: 50},
	}
	for w, r := range moves(Arrange(in)) {
		if r.Height < 50 {
			t.Fatalf("window %d height %d below minimum", w, r.Height)
		}
	}
}

func TestArrangeEmpty(t *testing.T) {
	if p := Arrange(Input{Monitors: []Rect{screen()}}); len(p.Commands) != 0 {
		t.Fatalf("expected empty plan, got %v", p.Commands)
	}
	if p := Arrange(Input{Columns: [][]Tile{{tile(1)}}}); len(p.Commands) != 0 {
		t.Fatalf("expected empty plan without monitors, got %v", p.Commands)
	}
}
