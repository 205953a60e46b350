// Command ethaudio is the EthAudio multi-zone amplifier control daemon.
// Run with --mock to use the simulated control bus (no I2C device required).
package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/micro-nova/ethaudio-go/internal/api"
	"github.com/micro-nova/ethaudio-go/internal/config"
	"github.com/micro-nova/ethaudio-go/internal/controller"
	"github.com/micro-nova/ethaudio-go/internal/dispatch"
	"github.com/micro-nova/ethaudio-go/internal/events"
	"github.com/micro-nova/ethaudio-go/internal/hardware"
	"github.com/micro-nova/ethaudio-go/internal/runtime"
	"github.com/micro-nova/ethaudio-go/internal/zeroconf"
)

func main() {
	var (
		cfgPath = flag.String("config", "", "YAML configuration file")
		mock    = flag.Bool("mock", false, "use simulated control bus (no I2C device required)")
		addr    = flag.String("addr", "", "HTTP listen address (overrides config)")
		boards  = flag.Int("boards", 0, "number of preamp boards (overrides config)")
		logFile = flag.String("log-file", "", "log file with rotation (default: stderr)")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.LoadDaemon(*cfgPath)
	if err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	// Flags override file values.
	if *mock {
		cfg.Mock = true
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *boards > 0 {
		cfg.Boards = *boards
	}
	if *logFile != "" {
		cfg.Log.File = *logFile
	}
	if *debug {
		cfg.Log.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("configuration error", "err", err)
		os.Exit(1)
	}

	// Configure logging
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		logOut = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		}
	}
	logLevel := slog.LevelInfo
	if cfg.Log.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: logLevel})))

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Control bus
	var hwBus hardware.Bus
	if cfg.Mock {
		slog.Info("using simulated control bus")
		hwBus = hardware.NewMockBus()
	} else {
		slog.Info("using I2C control bus")
		i2c := hardware.NewI2CBus()
		if err := i2c.Init(ctx); err != nil {
			slog.Error("control bus initialization failed", "err", err)
			os.Exit(1)
		}
		defer i2c.Close()
		hwBus = i2c
	}

	rt := runtime.New(hwBus)
	store := config.NewMemStore(cfg.Boards)
	bus := events.NewBus()

	ctrl, err := controller.New(rt, store, bus)
	if err != nil {
		slog.Error("controller initialization failed", "err", err)
		os.Exit(1)
	}

	// Zeroconf mDNS registration
	port := 80
	if parts := strings.SplitN(cfg.Listen, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(cfg.Hostname, port)
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// HTTP server
	router := api.NewRouter(ctrl, dispatch.New(ctrl), bus)
	srv := &http.Server{
		Addr:         cfg.Listen,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("EthAudio listening", "addr", cfg.Listen, "mock", cfg.Mock, "boards", cfg.Boards)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}
