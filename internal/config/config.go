package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/1broseidon/tallwm/internal/layout"
	"github.com/1broseidon/tallwm/internal/wm"
	"github.com/1broseidon/tallwm/internal/workspace"
	"gopkg.in/yaml.v3"
)

// LayoutConfig holds the tunables every workspace's layout starts from.
type LayoutConfig struct {
	Masters        int     `yaml:"masters"`
	Ratio          float64 `yaml:"ratio"`
	RatioIncrement float64 `yaml:"ratio_increment"`
	BarTop         int     `yaml:"bar_top"`
	BarBottom      int     `yaml:"bar_bottom"`
}

// ManageHookConfig admits windows of Class with Action ("move N", "float",
// "fullscreen" or "ignore").
type ManageHookConfig struct {
	Class  string `yaml:"class"`
	Action string `yaml:"action"`
}

// LogHookConfig controls the status line written to stdout.
type LogHookConfig struct {
	Enabled bool     `yaml:"enabled"`
	Logs    []string `yaml:"logs"`
	// Format is "plain" or "xmobar".
	Format string `yaml:"format"`
}

// Config is the tallwm configuration file.
type Config struct {
	LogLevel         string             `yaml:"log_level"`
	BorderWidth      int                `yaml:"border_width"`
	BorderColor      string             `yaml:"border_color"`
	FocusBorderColor string             `yaml:"focus_border_color"`
	Workspaces       []string           `yaml:"workspaces"`
	Layout           LayoutConfig       `yaml:"layout"`
	Keys             map[string]string  `yaml:"keys"`
	ManageHooks      []ManageHookConfig `yaml:"manage_hooks"`
	LogHook          LogHookConfig      `yaml:"log_hook"`
}

// DefaultKeys returns the built-in key bindings.
func DefaultKeys() map[string]string {
	keys := map[string]string{
		"Mod4-w":            "switch-screen 1",
		"Mod4-e":            "switch-screen 2",
		"Mod4-Shift-w":      "move-to-screen 1",
		"Mod4-Shift-e":      "move-to-screen 2",
		"Mod4-j":            "focus-down",
		"Mod4-k":            "focus-up",
		"Mod4-m":            "focus-master",
		"Mod4-Shift-j":      "swap-down",
		"Mod4-Shift-k":      "swap-up",
		"Mod4-Return":       "swap-master",
		"Mod4-Shift-Return": "exec xterm",
		"Mod4-p":            "exec dmenu_run",
		"Mod4-h":            "send-layout-msg decrease",
		"Mod4-l":            "send-layout-msg increase",
		"Mod4-comma":        "send-layout-msg increase-master",
		"Mod4-period":       "send-layout-msg decrease-master",
		"Mod4-Shift-c":      "kill-client",
	}
	for i := 1; i <= 9; i++ {
		n := strconv.Itoa(i)
		keys["Mod4-"+n] = "switch-workspace " + n
		keys["Mod4-Shift-"+n] = "move-to-workspace " + n
	}
	return keys
}

// DefaultConfig returns a complete, valid configuration.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		BorderWidth:      2,
		BorderColor:      "#444444",
		FocusBorderColor: "#3b7dd8",
		Workspaces:       []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Layout: LayoutConfig{
			Masters:        1,
			Ratio:          0.5,
			RatioIncrement: 0.05,
		},
		Keys:        DefaultKeys(),
		ManageHooks: []ManageHookConfig{},
		LogHook: LogHookConfig{
			Enabled: true,
			Logs:    []string{"workspaces", "layout", "title"},
			Format:  "plain",
		},
	}
}

// ValidationError points at the offending configuration path and, when the
// value came from a file, its location.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks every field. Key bindings, manage actions and log
// selectors are validated by parsing them.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.BorderWidth < 0 {
		return &ValidationError{Path: "border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(c.BorderColor); err != nil {
		return &ValidationError{Path: "border_color", Err: err}
	}
	if _, err := ParseColor(c.FocusBorderColor); err != nil {
		return &ValidationError{Path: "focus_border_color", Err: err}
	}

	if len(c.Workspaces) == 0 {
		return &ValidationError{Path: "workspaces", Err: fmt.Errorf("workspaces must not be empty")}
	}
	seen := make(map[string]bool)
	for i, tag := range c.Workspaces {
		if strings.TrimSpace(tag) == "" {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d", i), Err: fmt.Errorf("workspace tag must not be empty")}
		}
		if seen[tag] {
			return &ValidationError{Path: fmt.Sprintf("workspaces.%d", i), Err: fmt.Errorf("duplicate workspace tag %q", tag)}
		}
		seen[tag] = true
	}

	if err := c.Layout.validate(); err != nil {
		return err
	}

	for _, spec := range sortedKeys(c.Keys) {
		if _, err := wm.ParseKeystroke(spec); err != nil {
			return &ValidationError{Path: "keys." + spec, Err: err}
		}
		if _, err := wm.ParseCmd(c.Keys[spec]); err != nil {
			return &ValidationError{Path: "keys." + spec, Err: err}
		}
	}

	for i, hook := range c.ManageHooks {
		if strings.TrimSpace(hook.Class) == "" {
			return &ValidationError{Path: fmt.Sprintf("manage_hooks.%d.class", i), Err: fmt.Errorf("class is required")}
		}
		if _, err := wm.ParseManage(hook.Action); err != nil {
			return &ValidationError{Path: fmt.Sprintf("manage_hooks.%d.action", i), Err: err}
		}
	}

	for i, name := range c.LogHook.Logs {
		if _, err := wm.ParseLogSelector(name); err != nil {
			return &ValidationError{Path: fmt.Sprintf("log_hook.logs.%d", i), Err: err}
		}
	}
	switch c.LogHook.Format {
	case "plain", "xmobar":
	default:
		return &ValidationError{Path: "log_hook.format", Err: fmt.Errorf("format must be one of: plain, xmobar")}
	}
	return nil
}

func (l LayoutConfig) validate() error {
	if l.Masters < 0 {
		return &ValidationError{Path: "layout.masters", Err: fmt.Errorf("masters must be >= 0")}
	}
	if l.Ratio <= 0 || l.Ratio >= 1 {
		return &ValidationError{Path: "layout.ratio", Err: fmt.Errorf("ratio must be between 0 and 1 (exclusive)")}
	}
	if l.RatioIncrement <= 0 || l.RatioIncrement >= 0.5 {
		return &ValidationError{Path: "layout.ratio_increment", Err: fmt.Errorf("ratio_increment must be between 0 and 0.5 (exclusive)")}
	}
	if l.BarTop < 0 {
		return &ValidationError{Path: "layout.bar_top", Err: fmt.Errorf("bar_top must be >= 0")}
	}
	if l.BarBottom < 0 {
		return &ValidationError{Path: "layout.bar_bottom", Err: fmt.Errorf("bar_bottom must be >= 0")}
	}
	return nil
}

// Factory returns a layout constructor for these tunables. Bar margins wrap
// the tall layout only when non-zero.
func (l LayoutConfig) Factory() layout.Factory {
	return func() layout.Layout {
		tall := layout.NewTall(l.Masters, l.Ratio, l.RatioIncrement)
		if l.BarTop == 0 && l.BarBottom == 0 {
			return tall
		}
		return layout.NewBar(l.BarTop, l.BarBottom, tall)
	}
}

// ParseColor parses "#rrggbb" into a pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || hex == s {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be in #rrggbb form", s)
	}
	return uint32(v), nil
}

// Style returns the border style. The config must be valid.
func (c *Config) Style() workspace.Style {
	normal, _ := ParseColor(c.BorderColor)
	focus, _ := ParseColor(c.FocusBorderColor)
	return workspace.Style{
		BorderWidth:      c.BorderWidth,
		BorderColor:      normal,
		FocusBorderColor: focus,
	}
}

// Settings converts the configuration into window manager settings. Status
// lines go to out when the log hook is enabled.
func (c *Config) Settings(out io.Writer) (wm.Settings, error) {
	if err := c.Validate(); err != nil {
		return wm.Settings{}, err
	}

	bindings, err := wm.NewBindings(c.Keys)
	if err != nil {
		return wm.Settings{}, err
	}

	hooks := make(wm.ManageHooks, 0, len(c.ManageHooks))
	for _, h := range c.ManageHooks {
		action, err := wm.ParseManage(h.Action)
		if err != nil {
			return wm.Settings{}, err
		}
		hooks = append(hooks, wm.ManageHook{ClassName: h.Class, Cmd: action})
	}

	settings := wm.Settings{
		Tags:     append([]string(nil), c.Workspaces...),
		Layout:   c.Layout.Factory(),
		Style:    c.Style(),
		Bindings: bindings,
		Hooks:    hooks,
		Spawner:  wm.ExecSpawner{},
	}

	if c.LogHook.Enabled {
		hook := &wm.LogHook{Writer: out}
		for _, name := range c.LogHook.Logs {
			sel, err := wm.ParseLogSelector(name)
			if err != nil {
				return wm.Settings{}, err
			}
			hook.Logs = append(hook.Logs, sel)
		}
		hook.Output = wm.RenderPlain
		if c.LogHook.Format == "xmobar" {
			hook.Output = wm.RenderXmobar(c.FocusBorderColor)
		}
		settings.LogHook = hook
	}
	return settings, nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Save validates and writes the configuration to path.
//
// Note: this marshals the effective config and will not preserve comments
// from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
