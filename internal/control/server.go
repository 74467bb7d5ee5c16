package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/eowm/eowm/internal/engine"
	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/state"
	"github.com/eowm/eowm/internal/util"
)

// Engine is the part of the window manager the control server drives.
// Everything except Do and RecentEvents must run inside Do.
type Engine interface {
	Do(ctx context.Context, fn func()) error
	Snapshot() state.Snapshot
	SwitchWorkspace(i int) error
	Exec(action keys.Action, arg keys.Arg) error
	RecentEvents() []engine.EventRecord
}

var _ Engine = (*engine.Engine)(nil)

// requestTimeout bounds how long one connection may take to send its
// request and read the answer.
const requestTimeout = 5 * time.Second

// Server hosts the eowm control socket and serves requests.
type Server struct {
	engine     Engine
	metrics    *metrics.Collector
	logger     *util.Logger
	reload     func(reason string) error
	socketPath string

	inflight sync.WaitGroup
}

// NewServer creates a control server listening on path, or on the default
// socket path when path is empty.
func NewServer(eng Engine, collector *metrics.Collector, logger *util.Logger, reload func(reason string) error, path string) (*Server, error) {
	if path == "" {
		var err error
		if path, err = DefaultSocketPath(); err != nil {
			return nil, err
		}
	}
	return &Server{engine: eng, metrics: collector, logger: logger, reload: reload, socketPath: path}, nil
}

// SocketPath reports where the server listens.
func (s *Server) SocketPath() string {
	return s.socketPath
}

// Serve accepts connections until ctx is cancelled, then waits for
// in-flight requests and removes the socket file.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := s.listen(ctx)
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer func() {
		stop()
		ln.Close()
		s.inflight.Wait()
		if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warnf("remove control socket: %v", err)
		}
	}()
	s.logger.Infof("control server listening on %s", s.socketPath)

	for {
		conn, err := ln.Accept()
		switch {
		case err == nil:
		case ctx.Err() != nil || errors.Is(err, net.ErrClosed):
			return nil
		default:
			s.logger.Errorf("control accept: %v", err)
			continue
		}
		s.inflight.Add(1)
		go func() {
			defer s.inflight.Done()
			s.handle(ctx, conn)
		}()
	}
}

// listen binds the socket, replacing a stale file left by an earlier run,
// and restricts it to the owner.
func (s *Server) listen(ctx context.Context) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o700); err != nil {
		return nil, fmt.Errorf("create control dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", s.socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod control socket: %w", err)
	}
	return ln, nil
}

// handle serves the single request carried by conn.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(requestTimeout)); err != nil {
		s.logger.Debugf("control deadline: %v", err)
	}
	var req Request
	var data any
	err := json.NewDecoder(conn).Decode(&req)
	if err != nil {
		err = fmt.Errorf("decode request: %w", err)
	} else {
		s.logger.Debugf("control request %s", req.Action)
		data, err = s.dispatch(ctx, req)
	}

	resp := Response{Status: StatusOK, Data: data}
	if err != nil {
		s.logger.Debugf("control request %s failed: %v", req.Action, err)
		resp = Response{Status: StatusError, Error: err.Error()}
	}
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.logger.Debugf("control response: %v", err)
	}
}

func (s *Server) dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Action {
	case ActionStateGet:
		var snap state.Snapshot
		err := s.engine.Do(ctx, func() { snap = s.engine.Snapshot() })
		return snap, err
	case ActionWorkspaceSet:
		return nil, s.setWorkspace(ctx, req.Params)
	case ActionExec:
		return nil, s.exec(ctx, req.Params)
	case ActionReload:
		if s.reload == nil {
			return nil, errors.New("reload not supported")
		}
		return nil, s.reload("control request")
	case ActionMetricsGet:
		return s.metrics.Snapshot(), nil
	case ActionEventsRecent:
		return s.engine.RecentEvents(), nil
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
}

// inLoop runs op on the engine goroutine and returns the first failure.
func (s *Server) inLoop(ctx context.Context, op func() error) error {
	var opErr error
	if err := s.engine.Do(ctx, func() { opErr = op() }); err != nil {
		return err
	}
	return opErr
}

// setWorkspace switches to the 1-based workspace in params["index"].
func (s *Server) setWorkspace(ctx context.Context, params map[string]any) error {
	index, ok := intParam(params, "index")
	if !ok {
		return errors.New("missing workspace index")
	}
	if index < 1 || index > state.NumWorkspaces {
		return fmt.Errorf("workspace %d out of range 1-%d", index, state.NumWorkspaces)
	}
	return s.inLoop(ctx, func() error { return s.engine.SwitchWorkspace(index - 1) })
}

func (s *Server) exec(ctx context.Context, params map[string]any) error {
	op, _ := params["op"].(string)
	if op == "" {
		return errors.New("missing operation")
	}
	raw, _ := params["arg"].(string)
	action := keys.Action(op)
	arg, err := keys.ParseArg(action, raw)
	if err != nil {
		return err
	}
	return s.inLoop(ctx, func() error { return s.engine.Exec(action, arg) })
}

// intParam reads an integer parameter. JSON numbers arrive as float64.
func intParam(params map[string]any, name string) (int, bool) {
	switch v := params[name].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
