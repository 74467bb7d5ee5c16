// Package tui renders a live text dashboard of a running eowm instance
// polled over the control socket.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/eowm/eowm/internal/control/client"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/state"
)

const (
	defaultRefresh = 500 * time.Millisecond
	classWidth     = 24
	recentEvents   = 8

	clearScreen = "\033[H\033[2J"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// Source is the part of the control client the dashboard polls.
type Source interface {
	State(ctx context.Context) (client.State, error)
	RecentEvents(ctx context.Context) ([]client.EventRecord, error)
}

var _ Source = (*client.Client)(nil)

// Renderer redraws the dashboard every Refresh until stopped.
type Renderer struct {
	Client  Source
	Writer  io.Writer
	Refresh time.Duration
}

// New returns a renderer polling cli and drawing to w.
func New(cli Source, w io.Writer) *Renderer {
	return &Renderer{Client: cli, Writer: w, Refresh: defaultRefresh}
}

// Run draws frames until ctx is done and returns its error.
func (r *Renderer) Run(ctx context.Context) error {
	if r.Client == nil {
		return errors.New("tui renderer requires a control client")
	}
	if r.Writer == nil {
		r.Writer = os.Stdout
	}
	interval := r.Refresh
	if interval <= 0 {
		interval = defaultRefresh
	}

	io.WriteString(r.Writer, hideCursor)
	defer io.WriteString(r.Writer, showCursor)

	for {
		r.render(ctx)
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// render polls once and writes a whole frame in a single write so the
// terminal never shows a half-drawn screen.
func (r *Renderer) render(ctx context.Context) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "eowm dashboard, Ctrl+C to exit\n%s\n\n", time.Now().Format(time.RFC1123))

	snap, err := r.Client.State(ctx)
	if err != nil {
		fmt.Fprintf(&b, "error: %v\n", err)
	} else {
		// The event tail is optional; a failure only blanks that section.
		events, _ := r.Client.RecentEvents(ctx)
		b.WriteString(Render(snap, events))
	}
	io.WriteString(r.Writer, b.String())
}

// Render formats one dashboard frame.
func Render(snap state.Snapshot, events []client.EventRecord) string {
	var b strings.Builder
	writeMonitors(&b, snap)
	writeWorkspaces(&b, snap)
	writeClients(&b, snap)
	b.WriteString(renderEvents(events))
	return b.String()
}

// table writes a titled, column-aligned block. rows are tab-separated and
// an empty rows slice prints a placeholder instead of the header.
func table(b *strings.Builder, title, header string, rows []string) {
	b.WriteString(title + ":\n")
	if len(rows) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	tw := tabwriter.NewWriter(b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, row)
	}
	tw.Flush()
}

func writeMonitors(b *strings.Builder, snap state.Snapshot) {
	rows := make([]string, 0, len(snap.Monitors))
	for _, mon := range snap.Monitors {
		rows = append(rows, strings.Join([]string{
			marked(strconv.Itoa(mon.Index), mon.Index == snap.CurrentMonitor),
			mon.Name,
			formatRect(mon.Rect),
		}, "\t"))
	}
	table(b, "Monitors", "Index\tName\tGeometry", rows)
	if s := snap.Struts; !s.IsZero() {
		fmt.Fprintf(b, "Reserved: left %d, right %d, top %d, bottom %d\n", s.Left, s.Right, s.Top, s.Bottom)
	}
	b.WriteByte('\n')
}

func writeWorkspaces(b *strings.Builder, snap state.Snapshot) {
	rows := make([]string, 0, len(snap.Workspaces))
	for _, ws := range snap.Workspaces {
		rows = append(rows, fmt.Sprintf("%s\t%s\t%d\t%d",
			marked(strconv.Itoa(ws.Index+1), ws.Index == snap.CurrentWorkspace),
			ws.Name, ws.Columns, len(ws.Clients)))
	}
	table(b, "Workspaces", "#\tName\tColumns\tWindows", rows)
	b.WriteByte('\n')
}

func writeClients(b *strings.Builder, snap state.Snapshot) {
	var rows []string
	for _, ws := range snap.Workspaces {
		for _, cl := range ws.Clients {
			window := fmt.Sprintf("0x%x", cl.Window)
			if cl.Focused && ws.Index == snap.CurrentWorkspace {
				window = "*" + window
			}
			class := cl.Class
			if class == "" {
				class = "(unknown)"
			}
			rows = append(rows, fmt.Sprintf("%s\t%s\t%d\t%d\t%s\t%s",
				window, truncate(class, classWidth), ws.Index+1, cl.Column, formatRect(cl.Geometry), clientState(cl)))
		}
	}
	table(b, "Clients", "Window\tClass\tWorkspace\tColumn\tGeometry\tState", rows)
	b.WriteByte('\n')
}

// renderEvents lists the newest recentEvents records, oldest first.
func renderEvents(events []client.EventRecord) string {
	var b strings.Builder
	b.WriteString("Recent events:\n")
	if len(events) == 0 {
		b.WriteString("  (none)\n")
		return b.String()
	}
	if n := len(events); n > recentEvents {
		events = events[n-recentEvents:]
	}
	for _, ev := range events {
		fmt.Fprintf(&b, "  %s %s", ev.Timestamp.Format("15:04:05.000"), ev.Detail)
		if ev.Error != "" {
			fmt.Fprintf(&b, " (error: %s)", ev.Error)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func marked(s string, current bool) string {
	if current {
		return s + "*"
	}
	return s
}

func formatRect(rect layout.Rect) string {
	return fmt.Sprintf("%dx%d @ %d,%d", rect.Width, rect.Height, rect.X, rect.Y)
}

// truncate shortens s to n runes, ending with an ellipsis when cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	switch {
	case n <= 0:
		return ""
	case len(runes) <= n:
		return s
	case n == 1:
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}

func clientState(cl state.ClientSnapshot) string {
	flags := []struct {
		on   bool
		name string
	}{
		{cl.Focused, "focused"},
		{cl.Floating, "floating"},
		{cl.Fullscreen, "fullscreen"},
		{cl.Hidden, "hidden"},
	}
	var parts []string
	for _, f := range flags {
		if f.on {
			parts = append(parts, f.name)
		}
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
