// panelshell is a terminal shell with a resizable sidebar of stacked panels.
// Panels can be dragged, minimized, enlarged into the main area and closed;
// the layout is saved to ~/.panelshell/layouts and restored on start.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"panelshell/internal/bus"
	"panelshell/internal/config"
	"panelshell/internal/logging"
	"panelshell/internal/pty"
	"panelshell/internal/store"
	"panelshell/internal/trace"
	"panelshell/internal/ui"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		configPath  string
		layoutName  string
		logLevel    string
		resetLayout bool
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("panelshell", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "", "config file (default: $PANELSHELL_CONFIG or ~/.panelshell/config.yaml)")
	flagSet.StringVarP(&layoutName, "layout", "l", "", "named layout to restore and autosave")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&resetLayout, "reset-layout", false, "delete the saved layout and start from the configured panels")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	if showVersion {
		fmt.Println(version)
		return nil
	}

	st, err := store.NewStore()
	if err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	if configPath == "" {
		configPath = config.DefaultPath(st.BaseDir())
	}
	cfg, err := config.Load(configPath, st.BaseDir())
	if err != nil {
		return err
	}
	if layoutName != "" {
		cfg.Layout = layoutName
	}
	if resetLayout {
		if err := st.Delete(cfg.Layout); err != nil {
			return fmt.Errorf("reset layout: %w", err)
		}
	}
	logCfg := cfg.Logging.WithEnv()
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	if logCfg.File == "" {
		logCfg.File = filepath.Join(st.BaseDir(), "panelshell.log")
	}
	logger, closeLog, err := logging.New(logCfg, "panelshell", version)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := trace.NewProvider(ctx)
	if err != nil {
		// A nil provider hands out a no-op tracer.
		logger.Warn("tracing disabled", slog.Any("error", err))
		tp = nil
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	b := bus.New(logger.With(slog.String("component", "bus")))
	stopAutosave := st.Autosave(ctx, b, cfg.Layout, logger)
	defer stopAutosave()

	app, err := ui.NewAppModel(ui.AppDeps{
		Ctx:         ctx,
		Config:      cfg,
		Bus:         b,
		Store:       st,
		Runner:      &pty.CreackPTY{},
		Log:         logger,
		Tracer:      tp.Tracer(),
		SkipRestore: resetLayout,
	})
	if err != nil {
		return err
	}
	logger.Info("starting",
		slog.String("config", configPath),
		slog.String("layout", cfg.Layout),
		slog.Bool("tracing", tp.Enabled()),
	)
	logger.Debug("bus commands", slog.Any("commands", b.Commands()))

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return err
	}
	// Stop autosave first so closing panels does not overwrite the saved layout.
	stopAutosave()
	// Panels own pty sessions; close them before the process exits.
	for _, pn := range app.Container.Panels() {
		_ = pn.Close()
	}
	return nil
}
