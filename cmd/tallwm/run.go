package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/tallwm/internal/config"
	"github.com/1broseidon/tallwm/internal/ipc"
	"github.com/1broseidon/tallwm/internal/platform"
	"github.com/1broseidon/tallwm/internal/runtimepath"
	"github.com/1broseidon/tallwm/internal/wm"
)

// windowManager is the part of *wm.Manager the control socket drives.
type windowManager interface {
	Status(ctx context.Context) (wm.Status, error)
	RunCommand(ctx context.Context, cmd wm.Cmd) error
	UpdateSettings(ctx context.Context, settings wm.Settings) error
}

// controller serves control socket requests against a running manager.
type controller struct {
	manager    windowManager
	configPath string
	statusOut  io.Writer
	level      *slog.LevelVar
}

var _ ipc.Controller = (*controller)(nil)

func (c *controller) Status(ctx context.Context) (ipc.StatusData, error) {
	st, err := c.manager.Status(ctx)
	if err != nil {
		return ipc.StatusData{}, err
	}
	return ipc.StatusData{
		Tags:          st.Tags,
		Current:       st.Current,
		Urgent:        st.Urgent,
		Layout:        st.Layout,
		Title:         st.Title,
		Rendered:      st.Rendered,
		Windows:       st.Windows,
		UptimeSeconds: int64(st.Uptime.Seconds()),
	}, nil
}

func (c *controller) RunCommand(ctx context.Context, command string) error {
	cmd, err := wm.ParseCmd(command)
	if err != nil {
		return err
	}
	return c.manager.RunCommand(ctx, cmd)
}

// Reload re-reads the configuration file. An invalid file leaves the
// running settings untouched.
func (c *controller) Reload(ctx context.Context) error {
	res, err := config.LoadFromPath(c.configPath)
	if err != nil {
		return err
	}
	settings, err := res.Config.Settings(c.statusOut)
	if err != nil {
		return err
	}
	if err := c.manager.UpdateSettings(ctx, settings); err != nil {
		return err
	}
	if c.level != nil {
		c.level.Set(parseLogLevel(res.Config.LogLevel))
	}
	return nil
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func runWM(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/tallwm/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tallwm run [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over window management on $DISPLAY. The status line is written")
		fmt.Fprintln(os.Stderr, "to stdout for piping into a status bar; logs go to stderr.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "run takes no arguments")
		fs.Usage()
		return 2
	}

	configPath := *path
	if configPath == "" {
		var err error
		configPath, err = config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
	}

	res, err := config.LoadFromPath(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	if res.File != "" {
		log.Printf("Configuration loaded from %s", res.File)
	} else {
		log.Printf("No configuration file at %s, using defaults", configPath)
	}

	level := new(slog.LevelVar)
	level.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	settings, err := cfg.Settings(os.Stdout)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	backend, err := platform.NewLinuxBackendFromDisplay(logger)
	if err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}
	defer backend.Disconnect()

	manager, err := wm.NewManager(backend, settings, logger)
	if err != nil {
		log.Fatalf("Failed to create window manager: %v", err)
	}

	ctrl := &controller{
		manager:    manager,
		configPath: configPath,
		statusOut:  os.Stdout,
		level:      level,
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, ctrl)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-hup:
				log.Println("Received SIGHUP, reloading config...")
				if err := ctrl.Reload(ctx); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Println("tallwm started, entering event loop")
	if err := manager.Run(ctx); err != nil {
		log.Printf("Event loop stopped: %v", err)
		return 1
	}
	log.Println("Shutting down tallwm...")
	return 0
}
