package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/tallwm/internal/ipc"
)

var (
	currentTagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62")).Padding(0, 1)
	tagStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1)
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(9)
	valueStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Print status as JSON")
	watch := fs.Bool("watch", false, "Keep polling and redraw the status until q is pressed")
	interval := fs.Duration("interval", time.Second, "Poll interval for --watch")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tallwm status [--json | --watch [--interval 1s]]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show window manager status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	if *watch {
		if *jsonOut {
			fmt.Fprintln(os.Stderr, "--watch and --json cannot be combined")
			return 2
		}
		if *interval <= 0 {
			fmt.Fprintln(os.Stderr, "--interval must be positive")
			return 2
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "status --watch requires an interactive terminal (stdin/stdout must be TTYs)")
			return 1
		}
		p := tea.NewProgram(newWatchModel(client.GetStatus, *interval), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stdout, renderStyledStatus(status))
		return 0
	}
	writePlainStatus(os.Stdout, status)
	return 0
}

func writePlainStatus(w io.Writer, st *ipc.StatusData) {
	current := ""
	if st.Current >= 0 && st.Current < len(st.Tags) {
		current = st.Tags[st.Current]
	}
	fmt.Fprintf(w, "workspace:      %s\n", current)
	fmt.Fprintf(w, "workspaces:     %s\n", strings.Join(st.Tags, " "))
	fmt.Fprintf(w, "layout:         %s\n", st.Layout)
	fmt.Fprintf(w, "title:          %s\n", st.Title)
	fmt.Fprintf(w, "windows:        %d\n", st.Windows)
	fmt.Fprintf(w, "uptime_seconds: %d\n", st.UptimeSeconds)
}

func renderStyledStatus(st *ipc.StatusData) string {
	tags := make([]string, len(st.Tags))
	for i, tag := range st.Tags {
		if i == st.Current {
			tags[i] = currentTagStyle.Render(tag)
		} else {
			tags[i] = tagStyle.Render(tag)
		}
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), valueStyle.Render(value))
	}
	uptime := (time.Duration(st.UptimeSeconds) * time.Second).String()

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, tags...),
		"",
		row("layout", st.Layout),
		row("title", st.Title),
		row("windows", fmt.Sprintf("%d", st.Windows)),
		row("uptime", uptime),
	)
}

// statusFetcher performs one GET_STATUS round trip.
type statusFetcher func() (*ipc.StatusData, error)

type statusMsg struct {
	status *ipc.StatusData
	err    error
	at     time.Time
}

type pollMsg struct{}

// watchModel is the bubbletea model behind status --watch. A failed poll
// keeps the last good status on screen and retries on the next tick.
type watchModel struct {
	fetch    statusFetcher
	interval time.Duration
	spinner  spinner.Model

	status  *ipc.StatusData
	err     error
	updated time.Time
}

func newWatchModel(fetch statusFetcher, interval time.Duration) watchModel {
	return watchModel{
		fetch:    fetch,
		interval: interval,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(valueStyle)),
	}
}

func (m watchModel) poll() tea.Cmd {
	fetch := m.fetch
	return func() tea.Msg {
		st, err := fetch()
		return statusMsg{status: st, err: err, at: time.Now()}
	}
}

// Init implements tea.Model.
func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// Update implements tea.Model.
func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}
		return m, nil

	case statusMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = msg.status
			m.err = nil
			m.updated = msg.at
		}
		return m, tea.Tick(m.interval, func(time.Time) tea.Msg {
			return pollMsg{}
		})

	case pollMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m watchModel) View() string {
	header := m.spinner.View() + " tallwm"
	if !m.updated.IsZero() {
		header += helpStyle.Render("  updated " + m.updated.Format("15:04:05"))
	}

	var body string
	if m.status != nil {
		body = renderStyledStatus(m.status)
	} else if m.err == nil {
		body = helpStyle.Render("waiting for the window manager...")
	}
	if m.err != nil {
		body = lipgloss.JoinVertical(lipgloss.Left, body, errorStyle.Render(m.err.Error()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		body,
		"",
		helpStyle.Render("r refresh  q quit"),
	)
}
