package control

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/eowm/eowm/internal/engine"
	"github.com/eowm/eowm/internal/metrics"
	"github.com/eowm/eowm/internal/state"
)

const (
	// SocketFileName is the filename of the control socket within the runtime dir.
	SocketFileName = "control.sock"

	// SocketEnv overrides the socket location.
	SocketEnv = "EOWM_CONTROL_SOCKET"

	// Action names supported by the control protocol.
	ActionStateGet     = "state.get"
	ActionWorkspaceSet = "workspace.set"
	ActionExec         = "exec"
	ActionReload       = "reload"
	ActionMetricsGet   = "metrics.get"
	ActionEventsRecent = "events.recent"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// State is the world snapshot returned by state.get.
type State = state.Snapshot

// Metrics is the counter snapshot returned by metrics.get.
type Metrics = metrics.Snapshot

// EventRecord is one entry of the events.recent log.
type EventRecord = engine.EventRecord

// DefaultSocketPath returns the expected location of the eowm control socket.
func DefaultSocketPath() (string, error) {
	if env := os.Getenv(SocketEnv); env != "" {
		return env, nil
	}
	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	base := runtimeDir
	if base == "" {
		base = os.TempDir()
		if base == "" {
			return "", errors.New("no runtime directory available")
		}
	}
	return filepath.Join(base, "eowm", SocketFileName), nil
}
