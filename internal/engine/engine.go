package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eowm/eowm/internal/config"
	"github.com/eowm/eowm/internal/events"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/layout"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/rules"
	"github.com/eowm/eowm/internal/state"
	"github.com/eowm/eowm/internal/util"
)

// ErrNotRunning is returned by Do when the event loop has stopped.
var ErrNotRunning = errors.New("engine not running")

// Settings are the scalar options the engine reads on every event.
type Settings struct {
	Params            layout.Params
	MaxColumns        int
	BorderFocused     uint32
	BorderNormal      uint32
	FocusFollowsMouse bool
	WarpPointer       bool
	Workspaces        []string
}

// SettingsFromConfig extracts the engine settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Params: layout.Params{
			Padding:       cfg.Appearance.Padding,
			BorderWidth:   cfg.Appearance.BorderWidth,
			MinWindowSize: cfg.Appearance.MinWindowSize,
		},
		MaxColumns:        cfg.Layout.MaxColumns,
		BorderFocused:     uint32(cfg.Appearance.BorderFocused),
		BorderNormal:      uint32(cfg.Appearance.BorderNormal),
		FocusFollowsMouse: cfg.FocusFollowsMouse,
		WarpPointer:       cfg.WarpPointer,
		Workspaces:        append([]string(nil), cfg.Workspaces...),
	}
}

type request struct {
	fn   func()
	done chan struct{}
}

// Engine is the event reactor. All model state is owned by the goroutine
// running Run; other goroutines reach it through Do.
type Engine struct {
	display  Display
	source   EventSource
	launcher Launcher
	logger   *util.Logger
	metrics  *metrics.Collector

	settings Settings
	rules    *rules.Matcher
	keys     *keys.Table
	world    *state.World
	history  *eventLog

	requests chan request
	stopped  chan struct{}
	quit     bool
}

// New builds an engine from configuration. Nothing is sent to the display
// until Start or Run is called.
func New(display Display, source EventSource, launcher Launcher, logger *util.Logger, collector *metrics.Collector, cfg *config.Config) (*Engine, error) {
	matcher, err := rules.Build(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("build rules: %w", err)
	}
	table, err := cfg.KeyTable()
	if err != nil {
		return nil, fmt.Errorf("build key table: %w", err)
	}
	settings := SettingsFromConfig(cfg)
	return &Engine{
		display:  display,
		source:   source,
		launcher: launcher,
		logger:   logger,
		metrics:  collector,
		settings: settings,
		rules:    matcher,
		keys:     table,
		world:    state.NewWorld(settings.Workspaces, display.Screen()),
		history:  newEventLog(0),
		requests: make(chan request),
		stopped:  make(chan struct{}),
	}, nil
}

// World exposes the model. Only the loop goroutine and tests may use it.
func (e *Engine) World() *state.World {
	return e.world
}

// Start publishes the desktop layout, grabs keys, reads the monitors and
// adopts every viewable top-level window that already exists.
func (e *Engine) Start() error {
	if err := e.display.GrabKeys(e.keys.All()); err != nil {
		return fmt.Errorf("grab keys: %w", err)
	}
	e.refreshMonitors()
	if err := e.display.SetDesktops(e.world.Names()); err != nil {
		e.logger.Warnf("set desktop names: %v", err)
	}
	if err := e.display.SetCurrentDesktop(e.world.CurrentIndex()); err != nil {
		e.logger.Warnf("set current desktop: %v", err)
	}
	windows, err := e.display.TopLevel()
	if err != nil {
		return fmt.Errorf("query top-level windows: %w", err)
	}
	adopted := 0
	for _, w := range windows {
		attrs, err := e.display.Attributes(w)
		if err != nil {
			e.logger.Debugf("skip 0x%x: %v", uint32(w), err)
			continue
		}
		if attrs.OverrideRedirect || !attrs.Viewable {
			continue
		}
		if err := e.mapWindow(w, true); err != nil {
			e.logger.Warnf("adopt 0x%x: %v", uint32(w), err)
			continue
		}
		adopted++
	}
	e.publishClientList()
	e.logger.Infof("started with %d monitors, adopted %d windows", e.world.Monitors.Len(), adopted)
	return nil
}

// Run starts the engine and processes events until ctx is cancelled, the
// event stream ends or a quit operation runs. A quit returns nil.
func (e *Engine) Run(ctx context.Context) error {
	defer close(e.stopped)
	if err := e.Start(); err != nil {
		return err
	}
	stream, err := e.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-e.requests:
			req.fn()
			close(req.done)
		case ev, ok := <-stream:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("event stream closed")
			}
			if err := e.Handle(ev); err != nil {
				e.logger.Errorf("handle %s: %v", ev.Kind(), err)
			}
		}
		if e.quit {
			e.logger.Infof("quit requested")
			return nil
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (e *Engine) Do(ctx context.Context, fn func()) error {
	req := request{fn: fn, done: make(chan struct{})}
	select {
	case e.requests <- req:
	case <-e.stopped:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot copies the model. Call it from the loop goroutine.
func (e *Engine) Snapshot() state.Snapshot {
	return e.world.Snapshot()
}

// RecentEvents returns the most recently handled events, oldest first.
func (e *Engine) RecentEvents() []EventRecord {
	return e.history.snapshot()
}

// Reload swaps in a new configuration: rules, key bindings, appearance and
// layout settings. Keys are grabbed again and the current workspace is
// re-arranged. The previous configuration stays in force on error.
func (e *Engine) Reload(cfg *config.Config) error {
	matcher, err := rules.Build(cfg.Rules)
	if err != nil {
		return fmt.Errorf("build rules: %w", err)
	}
	table, err := cfg.KeyTable()
	if err != nil {
		return fmt.Errorf("build key table: %w", err)
	}
	if err := e.display.GrabKeys(table.All()); err != nil {
		return fmt.Errorf("grab keys: %w", err)
	}
	e.rules = matcher
	e.keys = table
	e.settings = SettingsFromConfig(cfg)
	e.logger.SetLevel(util.ParseLogLevel(cfg.LogLevel))
	e.world.Rename(e.settings.Workspaces)
	if err := e.display.SetDesktops(e.world.Names()); err != nil {
		e.logger.Warnf("set desktop names: %v", err)
	}
	e.repaintBorders()
	e.arrange()
	e.logger.Infof("reloaded configuration: %d rules, %d key bindings", len(matcher.Rules()), table.Len())
	return nil
}

// Handle dispatches one event. Failures are contained: the model is left
// consistent and the error is only reported.
func (e *Engine) Handle(ev events.Event) error {
	e.trace("event.received", map[string]any{"event": events.Describe(ev)})
	err := e.dispatch(ev)
	e.metrics.RecordEvent(string(ev.Kind()), err != nil)
	e.history.record(EventRecord{
		Timestamp: time.Now(),
		Kind:      string(ev.Kind()),
		Detail:    events.Describe(ev),
		Error:     errString(err),
	})
	return err
}

func (e *Engine) dispatch(ev events.Event) error {
	switch ev := ev.(type) {
	case events.MapRequest:
		return e.handleMapRequest(ev)
	case events.UnmapNotify:
		return e.handleUnmapNotify(ev)
	case events.DestroyNotify:
		return e.handleDestroyNotify(ev)
	case events.ConfigureRequest:
		return e.handleConfigureRequest(ev)
	case events.KeyPress:
		return e.handleKeyPress(ev)
	case events.EnterNotify:
		return e.handleEnterNotify(ev)
	case events.ButtonPress:
		return e.handleButtonPress(ev)
	case events.PropertyNotify:
		return e.handlePropertyNotify(ev)
	case events.FullscreenRequest:
		return e.handleFullscreenRequest(ev)
	case events.ScreenChange:
		return e.handleScreenChange()
	case events.ProtocolError:
		e.metrics.RecordProtocolError()
		e.logger.Warnf("protocol error: %v", ev.Err)
		return nil
	default:
		return fmt.Errorf("unhandled event %T", ev)
	}
}

func (e *Engine) trace(event string, fields map[string]any) {
	if e.logger == nil || !e.logger.Enabled(util.LevelTrace) {
		return
	}
	e.logger.Tracef("%s %s", event, formatTraceFields(fields))
}

func formatTraceFields(fields map[string]any) string {
	if len(fields) == 0 {
		return "{}"
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		val, err := json.Marshal(fields[k])
		if err != nil {
			b.WriteString(strconv.Quote(fmt.Sprintf("<marshal error: %v>", err)))
			continue
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.String()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
