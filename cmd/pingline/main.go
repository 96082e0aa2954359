package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pingline/pingline/internal/config"
	"github.com/pingline/pingline/internal/monitor"
	"github.com/pingline/pingline/internal/server"
	"github.com/pingline/pingline/internal/tui"
	"github.com/pingline/pingline/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file (empty = built-in defaults)")
	withTUI := flag.Bool("tui", false, "show the live terminal sparkline view")
	verbose := flag.Bool("v", false, "log every probe at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logOut := io.Writer(os.Stderr)
	if *withTUI {
		// termui owns the terminal; logs would tear the screen.
		logOut = io.Discard
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("pingline starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	slog.Info("config loaded",
		"target", cfg.Probe.Target,
		"method", cfg.Probe.Method,
		"interval", cfg.Probe.Interval,
		"history", cfg.History.Size,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mon, err := monitor.New(cfg)
	if err != nil {
		slog.Error("failed to build monitor", "err", err)
		os.Exit(1)
	}
	go mon.Run(ctx)

	// Watch config file for hot-reload; changes apply between ticks.
	if *configPath != "" {
		go func() {
			if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
				mon.Apply(updated)
			}); err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// Local HTTP endpoint: JSON API, PNG histogram, /metrics, WebSocket stream.
	hub := ws.New(mon)
	var httpSrv *http.Server
	if cfg.Server.Enabled {
		go hub.Run(ctx)

		mux := http.NewServeMux()
		mux.Handle("/", server.New(mon))
		mux.Handle("/ws/stream", hub)

		httpSrv = &http.Server{Addr: cfg.Server.Addr, Handler: mux}
		go func() {
			slog.Info("http server listening", "addr", cfg.Server.Addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server stopped", "err", err)
			}
		}()
	}

	if *withTUI {
		if err := tui.Run(ctx, mon, func(monitor.Update) { hub.Broadcast() }); err != nil {
			slog.Error("tui failed", "err", err)
		}
		cancel()
	} else {
		// Headless display loop: the single consumer of the update channel.
		for {
			select {
			case <-ctx.Done():
			case u := <-mon.Updates():
				hub.Broadcast()
				slog.Debug("tick",
					"ok", u.Sample.OK,
					"rtt", u.Sample.RTT,
					"loss_pct", u.Stats.LossPct,
				)
				continue
			}
			break
		}
	}

	slog.Info("pingline shutting down")
	if httpSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer shutdownCancel()
		httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
	}
}
