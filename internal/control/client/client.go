package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/eowm/eowm/internal/control"
)

const (
	// defaultTimeout is used when the caller does not provide a context deadline.
	defaultTimeout = 3 * time.Second
)

// Client talks to the running eowm window manager over its control socket.
type Client struct {
	socketPath string
}

type (
	// State is the world snapshot returned by the window manager.
	State = control.State
	// Metrics mirrors the counter snapshot returned by the window manager.
	Metrics = control.Metrics
	// EventRecord mirrors one entry of the recent event log.
	EventRecord = control.EventRecord
)

// New creates a client that connects to the provided socket path. When path is
// empty, the default runtime path is used.
func New(path string) (*Client, error) {
	if path == "" {
		var err error
		path, err = control.DefaultSocketPath()
		if err != nil {
			return nil, err
		}
	}
	return &Client{socketPath: path}, nil
}

// State retrieves the current world snapshot.
func (c *Client) State(ctx context.Context) (State, error) {
	var snap State
	if err := c.do(ctx, control.Request{Action: control.ActionStateGet}, &snap); err != nil {
		return State{}, err
	}
	return snap, nil
}

// SetWorkspace switches to the 1-based workspace index.
func (c *Client) SetWorkspace(ctx context.Context, index int) error {
	if index < 1 {
		return errors.New("workspace index must be positive")
	}
	payload := control.Request{Action: control.ActionWorkspaceSet, Params: map[string]any{"index": index}}
	return c.do(ctx, payload, nil)
}

// Exec runs a binding operation with its textual argument.
func (c *Client) Exec(ctx context.Context, op, arg string) error {
	if op == "" {
		return errors.New("operation cannot be empty")
	}
	params := map[string]any{"op": op}
	if arg != "" {
		params["arg"] = arg
	}
	return c.do(ctx, control.Request{Action: control.ActionExec, Params: params}, nil)
}

// Reload asks the window manager to reload its configuration.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionReload}, nil)
}

// Metrics retrieves the window manager's counters.
func (c *Client) Metrics(ctx context.Context) (Metrics, error) {
	var snap Metrics
	if err := c.do(ctx, control.Request{Action: control.ActionMetricsGet}, &snap); err != nil {
		return Metrics{}, err
	}
	return snap, nil
}

// RecentEvents retrieves the most recently handled events, oldest first.
func (c *Client) RecentEvents(ctx context.Context) ([]EventRecord, error) {
	var records []EventRecord
	if err := c.do(ctx, control.Request{Action: control.ActionEventsRecent}, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// reply is a Response whose payload is decoded lazily into the caller's
// type.
type reply struct {
	Status string          `json:"status"`
	Error  string          `json:"error"`
	Data   json.RawMessage `json:"data"`
}

// do sends one request on a fresh connection and decodes the payload into
// out. Without a caller deadline the exchange is bounded by defaultTimeout.
func (c *Client) do(ctx context.Context, req control.Request, out any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial control socket: %w", err)
	}
	defer conn.Close()
	deadline, _ := ctx.Deadline()
	if err := conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("send %s: %w", req.Action, err)
	}
	var rep reply
	if err := json.NewDecoder(conn).Decode(&rep); err != nil {
		return fmt.Errorf("read %s reply: %w", req.Action, err)
	}
	switch {
	case rep.Status != control.StatusOK && rep.Error != "":
		return errors.New(rep.Error)
	case rep.Status != control.StatusOK:
		return errors.New("unknown control error")
	case out == nil || len(rep.Data) == 0:
		return nil
	}
	if err := json.Unmarshal(rep.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", req.Action, err)
	}
	return nil
}
