package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eowm/eowm/internal/keys"
	"github.com/eowm/eowm/internal/util"
)

// Config is the top-level configuration document.
type Config struct {
	LogLevel          string        `yaml:"logLevel"`
	FocusFollowsMouse bool          `yaml:"focusFollowsMouse"`
	WarpPointer       bool          `yaml:"warpPointer"`
	Appearance        Appearance    `yaml:"appearance"`
	Layout            LayoutConfig  `yaml:"layout"`
	Workspaces        []string      `yaml:"workspaces"`
	Rules             []RuleConfig  `yaml:"rules"`
	Keys              []KeyConfig   `yaml:"keys"`
	Control           ControlConfig `yaml:"control"`
}

// Appearance holds border and spacing settings.
type Appearance struct {
	BorderWidth   int   `yaml:"borderWidth"`
	Padding       int   `yaml:"padding"`
	MinWindowSize int   `yaml:"minWindowSize"`
	BorderFocused Color `yaml:"borderFocused"`
	BorderNormal  Color `yaml:"borderNormal"`
}

// LayoutConfig bounds the column model.
type LayoutConfig struct {
	MaxColumns int `yaml:"maxColumns"`
}

// RuleConfig places windows by class and instance. Workspace and Monitor are
// 1-based; zero means the current one.
type RuleConfig struct {
	Class     string `yaml:"class"`
	Instance  string `yaml:"instance"`
	Floating  bool   `yaml:"floating"`
	Workspace int    `yaml:"workspace"`
	Monitor   int    `yaml:"monitor"`
}

// KeyConfig binds a key combination to an action. Exactly the argument the
// action expects must be set; Workspace is 1-based.
type KeyConfig struct {
	Bind      string `yaml:"bind"`
	Action    string `yaml:"action"`
	Delta     int    `yaml:"delta,omitempty"`
	Workspace int    `yaml:"workspace,omitempty"`
	Command   string `yaml:"command,omitempty"`
}

// ControlConfig configures the control socket.
type ControlConfig struct {
	Enabled bool   `yaml:"enabled"`
	Socket  string `yaml:"socket"`
}

// Color is a 24-bit RGB value written as "#rrggbb".
type Color uint32

// ParseColor parses "#rrggbb".
func ParseColor(s string) (Color, error) {
	var c Color
	if len(s) != 7 || s[0] != '#' {
		return 0, fmt.Errorf("color %q must look like #rrggbb", s)
	}
	for _, r := range strings.ToLower(s[1:]) {
		var v uint32
		switch {
		case r >= '0' && r <= '9':
			v = uint32(r - '0')
		case r >= 'a' && r <= 'f':
			v = uint32(r-'a') + 10
		default:
			return 0, fmt.Errorf("color %q must look like #rrggbb", s)
		}
		c = c<<4 | Color(v)
	}
	return c, nil
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c))
}

// UnmarshalYAML decodes a "#rrggbb" scalar.
func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: color must be a string", value.Line)
	}
	parsed, err := ParseColor(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the colour in its textual form.
func (c Color) MarshalYAML() (interface{}, error) {
	return c.String(), nil
}

// Load reads, decodes and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. found reports whether the file was read.
func LoadOrDefault(path string) (cfg *Config, found bool, err error) {
	cfg, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

// Parse decodes a YAML document over the defaults and validates the result.
// Lists given in the document replace the default lists entirely.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal encodes the configuration back to YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate performs sanity checks on every section.
func (c *Config) Validate() error {
	if !util.ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("unknown logLevel %q", c.LogLevel)
	}
	a := c.Appearance
	if a.BorderWidth < 0 {
		return fmt.Errorf("appearance.borderWidth cannot be negative")
	}
	if a.Padding < 0 {
		return fmt.Errorf("appearance.padding cannot be negative")
	}
	if a.MinWindowSize < 1 {
		return fmt.Errorf("appearance.minWindowSize must be at least 1")
	}
	if c.Layout.MaxColumns < 1 {
		return fmt.Errorf("layout.maxColumns must be at least 1")
	}
	if len(c.Workspaces) > keys.Workspaces {
		return fmt.Errorf("at most %d workspace names allowed, got %d", keys.Workspaces, len(c.Workspaces))
	}
	for i, r := range c.Rules {
		if r.Class == "" && r.Instance == "" {
			return fmt.Errorf("rule %d must set class or instance", i+1)
		}
		if r.Workspace < 0 || r.Workspace > keys.Workspaces {
			return fmt.Errorf("rule %d: workspace %d out of range 1-%d", i+1, r.Workspace, keys.Workspaces)
		}
		if r.Monitor < 0 {
			return fmt.Errorf("rule %d: monitor cannot be negative", i+1)
		}
	}
	if _, err := c.KeyTable(); err != nil {
		return err
	}
	return nil
}

// Binding converts the entry into a validated key binding.
func (k KeyConfig) Binding() (keys.Binding, error) {
	action := keys.Action(k.Action)
	kind, ok := action.ArgKind()
	if !ok {
		return keys.Binding{}, fmt.Errorf("key %q: unknown action %q", k.Bind, k.Action)
	}
	set := 0
	if k.Delta != 0 {
		set++
	}
	if k.Workspace != 0 {
		set++
	}
	if k.Command != "" {
		set++
	}
	if set > 1 {
		return keys.Binding{}, fmt.Errorf("key %q: set only one of delta, workspace or command", k.Bind)
	}
	var arg keys.Arg
	switch kind {
	case keys.ArgDelta:
		arg = keys.DeltaArg(k.Delta)
	case keys.ArgWorkspace:
		arg = keys.WorkspaceArg(k.Workspace - 1)
	case keys.ArgCommand:
		arg = keys.CommandArg(k.Command)
	default:
		if set > 0 {
			return keys.Binding{}, fmt.Errorf("key %q: action %s takes no argument", k.Bind, action)
		}
		arg = keys.NoArg()
	}
	return keys.NewBinding(k.Bind, action, arg)
}

// KeyTable builds the key binding table.
func (c *Config) KeyTable() (*keys.Table, error) {
	bindings := make([]keys.Binding, 0, len(c.Keys))
	for _, k := range c.Keys {
		b, err := k.Binding()
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, b)
	}
	return keys.NewTable(bindings)
}
