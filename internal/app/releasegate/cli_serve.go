package releasegate

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

const shutdownTimeout = 10 * time.Second

func ServeCmd(args []string) error {
	// Flags and help for the command
	var flags commonFlags
	var listenOverride string
	flagSet := flag.NewFlagSet("serve", flag.ExitOnError)
	flags.register(flagSet)
	flagSet.StringVar(&listenOverride, "listen", "", "Overrides the address to listen on, eg. ':8000'")
	flagSet.Usage = func() { printCmdUsage(flagSet, "serve", "") }
	flagSet.Parse(args)

	logger := flags.createLogger(os.Stdout)
	logger.Info(fmt.Sprintf("Starting releasegate v%s", Version))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx, flags.configFile, os.LookupEnv)
	if err != nil {
		return err
	}
	if listenOverride != "" {
		cfg.Listen = listenOverride
	}
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info(fmt.Sprintf("Tracking %s with a ttl of %s, comparing versions %s",
		strings.Join(engine.registry.ProjectIds(), ", "), engine.cache.TTL(), engine.comparator.Mode()))

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewServer(logger, engine.gate, engine.registry.HasProject, cfg.RoutePrefix).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Listening on '%s' at '%s/{project}/{platform}/{version}'", cfg.Listen, cfg.RoutePrefix))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed shutting down: %w", err)
	}
	return nil
}
