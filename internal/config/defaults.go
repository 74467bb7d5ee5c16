package config

// DefaultPath is used when no --config flag is given, relative to the user
// configuration directory.
const DefaultPath = "eowm/config.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:          "info",
		FocusFollowsMouse: true,
		WarpPointer:       true,
		Appearance: Appearance{
			BorderWidth:   2,
			Padding:       10,
			MinWindowSize: 50,
			BorderFocused: 0xececec,
			BorderNormal:  0x999999,
		},
		Layout:     LayoutConfig{MaxColumns: 6},
		Workspaces: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Rules: []RuleConfig{
			{Class: "Gimp", Floating: true},
			{Class: "Toolbox", Floating: true},
			{Instance: "spterm", Floating: true},
		},
		Keys:    defaultKeys(),
		Control: ControlConfig{Enabled: true},
	}
}

func defaultKeys() []KeyConfig {
	ks := []KeyConfig{
		{Bind: "Mod1-j", Action: "focus.next"},
		{Bind: "Mod1-k", Action: "focus.prev"},
		{Bind: "Mod1-h", Action: "column.focus", Delta: -1},
		{Bind: "Mod1-l", Action: "column.focus", Delta: 1},
		{Bind: "Mod1-Shift-h", Action: "column.move", Delta: -1},
		{Bind: "Mod1-Shift-l", Action: "column.move", Delta: 1},
		{Bind: "Mod1-Shift-k", Action: "window.move", Delta: -1},
		{Bind: "Mod1-Shift-j", Action: "window.move", Delta: 1},
		{Bind: "Mod1-f", Action: "window.fullscreen"},
		{Bind: "Mod1-Shift-f", Action: "window.float"},
		{Bind: "Mod1-q", Action: "window.close"},
		{Bind: "Mod1-Shift-c", Action: "quit"},
		{Bind: "Mod1-Control-h", Action: "monitor.focus", Delta: -1},
		{Bind: "Mod1-Control-l", Action: "monitor.focus", Delta: 1},
		{Bind: "Mod1-Control-Shift-h", Action: "monitor.send", Delta: -1},
		{Bind: "Mod1-Control-Shift-l", Action: "monitor.send", Delta: 1},
		{Bind: "Mod1-Return", Action: "spawn", Command: "alacritty"},
		{Bind: "Mod1-p", Action: "spawn", Command: "dmenu_run"},
		{Bind: "Print", Action: "spawn", Command: "scrot ~/Pictures/Screenshots/$(date +%Y.%m.%d_%H.%M).png"},
		{Bind: "Shift-Print", Action: "spawn", Command: "scrot -s ~/Pictures/Screenshots/$(date +%Y.%m.%d_%H.%M).png"},
	}
	for i := 1; i <= 9; i++ {
		n := string(rune('0' + i))
		ks = append(ks,
			KeyConfig{Bind: "Mod1-" + n, Action: "workspace.switch", Workspace: i},
			KeyConfig{Bind: "Mod1-Shift-" + n, Action: "workspace.send", Workspace: i},
		)
	}
	return ks
}
