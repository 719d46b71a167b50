package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soocke/slice-bot-go/app"
	"github.com/soocke/slice-bot-go/config"
	"github.com/soocke/slice-bot-go/debug"
	"github.com/soocke/slice-bot-go/domain/input"
	"github.com/soocke/slice-bot-go/ui"
)

func main() {
	cfgPath := flag.String("config", "config.json", "path to the JSON config file")
	dryRun := flag.Bool("dry-run", false, "log pointer actions instead of performing them")
	debugOn := flag.Bool("debug", false, "enable debug logging and runtime diagnostics")
	inputName := flag.String("input", "", "quit key source: global (system-wide, default), terminal or window")
	saveCfg := flag.Bool("save-config", false, "write the effective config to -config and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config %s: %v (using defaults)\n", *cfgPath, err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dry-run":
			cfg.DryRun = *dryRun
		case "debug":
			cfg.Debug = *debugOn
		case "input":
			cfg.Input = *inputName
		}
	})
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	_ = cfg.Validate()

	if *saveCfg {
		if err := cfg.Save(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	out, closeLog, err := logOutput(app.LogPath(cfg))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := NewLogger(out, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var win *ui.StatusWindow
	var keys input.Source
	if app.ResolveInput(cfg) == config.InputWindow {
		win = ui.NewWindow("slice-bot", fmt.Sprintf("%s  quit\n%s  stop loop", cfg.QuitKey, cfg.StopKey), logger)
		keys = win
	}

	c, err := app.BuildContainer(cfg, logger, keys)
	if err != nil {
		if win != nil {
			_ = win.Close()
		}
		return err
	}
	defer c.Close()

	logger.Info("starting",
		"region", fmt.Sprintf("%d,%d %dx%d", cfg.RegionX, cfg.RegionY, cfg.RegionW, cfg.RegionH),
		"dry_run", cfg.DryRun,
		"input", app.ResolveInput(cfg),
	)
	if cfg.Debug {
		dctx, cancel := context.WithCancel(ctx)
		defer cancel()
		debug.StartRuntimeLogger(dctx, 5*time.Second, logger)
	}
	if win == nil {
		return c.App.Run(ctx)
	}

	// Tk keeps the main goroutine; the app runs beside it and closes the window.
	win.SetStatus(c.Status)
	res := make(chan error, 1)
	go func() {
		res <- c.App.Run(ctx)
		_ = win.Close()
	}()
	win.Run()
	return <-res
}

func logOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}
