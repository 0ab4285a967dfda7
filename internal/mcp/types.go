package mcp

// StatusInput is the input for the wm_status tool.
type StatusInput struct{}

// StatusOutput is the output for the wm_status tool.
type StatusOutput struct {
	Workspaces    []string `json:"workspaces"`
	Current       string   `json:"current"`
	CurrentIndex  int      `json:"current_index"`
	Layout        string   `json:"layout"`
	Title         string   `json:"title"`
	Windows       int      `json:"windows"`
	StatusLine    string   `json:"status_line"`
	UptimeSeconds int64    `json:"uptime_seconds"`
}

// CommandInput is the input for the wm_command tool.
type CommandInput struct {
	Command string `json:"command" jsonschema:"required,Command in the key binding grammar, e.g. switch-workspace 2, move-to-workspace 3, focus-down, swap-master, send-layout-msg increase, kill-client, exec xterm"`
}

// CommandOutput is the output for the wm_command tool.
type CommandOutput struct {
	Command string `json:"command"`
	Status  string `json:"status"`
}

// ReloadInput is the input for the wm_reload tool.
type ReloadInput struct{}

// ReloadOutput is the output for the wm_reload tool.
type ReloadOutput struct {
	Reloaded bool `json:"reloaded"`
}
