package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"

	"labwatch/pkg/api"
	"labwatch/pkg/config"
	"labwatch/pkg/dashboard"
	"labwatch/pkg/monitor"
	"labwatch/pkg/probe"
	"labwatch/pkg/telemetry"
	"labwatch/pkg/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		info := version.Info()
		fmt.Printf("labwatch version %s, commit %s, built %s\n", info.Version, info.Commit, info.Built)
		return
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "labwatch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := afero.NewOsFs()

	cfg, err := config.Load(args, fs)
	if err != nil {
		return err
	}
	if cfg == nil {
		// Help was requested and printed.
		return nil
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	var mirror *log.Logger
	if cfg.Serving.DebugMode {
		mirror = logger
	}
	var store telemetry.SnapshotStore
	if cfg.Telemetry.SnapshotPath != "" {
		store = telemetry.NewFileStore(fs, cfg.Telemetry.SnapshotPath)
	}
	logs := telemetry.NewBuffer(nil, telemetry.Config{
		MaxLogs:      cfg.Telemetry.MaxLogs,
		SnapshotSize: cfg.Telemetry.SnapshotSize,
	}, store, mirror)

	logs.Info("main", "starting", map[string]interface{}{
		"version":    version.Info().Version,
		"session_id": logs.SessionID(),
		"endpoints":  len(cfg.Endpoints),
	})

	mon, err := monitor.New(monitor.Config{
		CheckInterval: cfg.Monitor.CheckInterval,
		ProbeTimeout:  cfg.Monitor.ProbeTimeout,
		RetryAttempts: cfg.Monitor.RetryAttempts,
		RetryPause:    cfg.Monitor.RetryPause,
	}, probe.NewDispatcher(), logs, nil)
	if err != nil {
		return err
	}

	for _, url := range cfg.Endpoints {
		if err := mon.AddURL(url, false); err != nil {
			return fmt.Errorf("endpoint %q: %w", url, err)
		}
	}

	if cfg.Monitor.Enabled || cfg.Serving.DebugMode {
		mon.Start()
		defer mon.Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var server *http.Server
	if cfg.Serving.HTTPListenAddr != "" {
		server = &http.Server{
			Addr:    cfg.Serving.HTTPListenAddr,
			Handler: api.NewRouter(api.NewHandler(mon, logs)),
		}
		go func() {
			logs.Info("main", "http api listening", map[string]interface{}{"addr": server.Addr})
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logs.Error("main", "http server failed", nil, err)
				cancel()
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Serving.TUIMode {
		return dashboard.New(mon, logs).Run(ctx)
	}

	cli := NewCLI(mon, logs, cfg, logger)
	return cli.Run(ctx)
}
