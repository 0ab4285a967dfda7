package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tallwm/internal/ipc"
	"github.com/1broseidon/tallwm/internal/wm"
)

const (
	ServerName    = "tallwm"
	ServerVersion = "0.1.0"
)

// WMClient is the control socket client the tools forward to.
type WMClient interface {
	GetStatus() (*ipc.StatusData, error)
	RunCommand(command string) error
	Reload() error
}

var _ WMClient = (*ipc.Client)(nil)

// Server exposes a running tallwm to MCP clients.
type Server struct {
	mcpServer *mcpsdk.Server
	client    WMClient
}

// NewServer creates an MCP server forwarding to client.
func NewServer(client WMClient) *Server {
	s := &Server{client: client}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_status",
		Description: "Report the window manager state: workspace tags, the current workspace, its layout, the focused window title, the number of managed windows and the rendered status line.",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_command",
		Description: "Run a window manager command. Indices are 1-based. Commands: exec <cmdline>, switch-workspace N, switch-screen N, move-to-workspace N, move-to-screen N, send-layout-msg increase|decrease|increase-master|decrease-master, kill-client, focus-up, focus-down, focus-master, swap-up, swap-down, swap-master.",
	}, s.handleCommand)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "wm_reload",
		Description: "Re-read the configuration file and apply key bindings, manage hooks, border style and the status line settings.",
	}, s.handleReload)
}

func (s *Server) handleStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ StatusInput) (*mcpsdk.CallToolResult, StatusOutput, error) {
	st, err := s.client.GetStatus()
	if err != nil {
		return nil, StatusOutput{}, err
	}

	out := StatusOutput{
		Workspaces:    st.Tags,
		CurrentIndex:  st.Current + 1,
		Layout:        st.Layout,
		Title:         st.Title,
		Windows:       st.Windows,
		StatusLine:    st.Rendered,
		UptimeSeconds: st.UptimeSeconds,
	}
	if st.Current >= 0 && st.Current < len(st.Tags) {
		out.Current = st.Tags[st.Current]
	}
	return nil, out, nil
}

func (s *Server) handleCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args CommandInput) (*mcpsdk.CallToolResult, CommandOutput, error) {
	command := strings.TrimSpace(args.Command)
	if command == "" {
		return nil, CommandOutput{}, fmt.Errorf("command is required")
	}
	// Reject malformed commands before they reach the window manager.
	parsed, err := wm.ParseCmd(command)
	if err != nil {
		return nil, CommandOutput{}, err
	}

	if err := s.client.RunCommand(parsed.String()); err != nil {
		return nil, CommandOutput{}, err
	}
	return nil, CommandOutput{Command: parsed.String(), Status: "ok"}, nil
}

func (s *Server) handleReload(_ context.Context, _ *mcpsdk.CallToolRequest, _ ReloadInput) (*mcpsdk.CallToolResult, ReloadOutput, error) {
	if err := s.client.Reload(); err != nil {
		return nil, ReloadOutput{}, err
	}
	return nil, ReloadOutput{Reloaded: true}, nil
}
