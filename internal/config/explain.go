package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Explain returns the effective value at a dotted YAML path and where it
// came from. A zero Source means the built-in default.
//
// Example paths:
//
//	log_level
//	layout.ratio
//	workspaces.2
//	keys.Mod4-Return
//	manage_hooks.0.action
//	log_hook.format
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	return value, res.Sources[path], nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	node := tree
	for _, part := range strings.Split(path, ".") {
		switch v := node.(type) {
		case map[string]any:
			next, ok := v[part]
			if !ok {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = next
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(v) {
				return nil, fmt.Errorf("unknown path: %s", path)
			}
			node = v[i]
		default:
			return nil, fmt.Errorf("unknown path: %s", path)
		}
	}
	return node, nil
}

// Describe formats a source for display.
func (s Source) Describe() string {
	if s.File == "" {
		return "default"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}
