package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"semrush-explorer/internal/config"
	"semrush-explorer/internal/handler"
	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/logger"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	app := &Application{}

	flag.StringVar(&app.configPath, "config", "", "Configuration file path (empty: defaults and SEMRUSH_* environment)")
	flag.BoolVar(&app.debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if err := app.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func (app *Application) Run() error {
	manager := config.NewManager()
	cfg, err := manager.Load(app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logConfig := cfg.Logger
	if app.debug {
		logConfig.Level = "debug"
	}
	logger.SetLogger(logger.New(logConfig))
	serverLog := logger.GetLogger().Component("server")

	if cfg.API.Key == "" {
		serverLog.Warn("No API key configured; set SEMRUSH_API_KEY or save it on the settings endpoint")
	}

	explorer := api.NewExplorer(cfg.APISettings())
	server := handler.NewApp(handler.NewController(explorer, manager))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errChan := make(chan error, 1)
	go func() {
		serverLog.WithFields(map[string]interface{}{
			"addr":     addr,
			"database": cfg.API.Database,
			"config":   app.configPath,
		}).Info("Starting semrush-explorer server")
		errChan <- server.Listen(addr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errChan:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	serverLog.Info("Shutdown signal received, shutting down gracefully")
	if err := server.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	serverLog.Info("Server stopped")
	return nil
}
