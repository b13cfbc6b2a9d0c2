/*
main.go - Application entry point

STARTUP SEQUENCE:
  1. Parse flags, load YAML config with env overrides
  2. Initialize logging
  3. Open the run cache (unless disabled)
  4. Wire runner, handler, router
  5. Serve with graceful shutdown on SIGINT/SIGTERM

FLAGS:
  -port    HTTP server port (overrides config)
  -config  YAML config file path
  -cache   run cache database path (overrides config)
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/benefit-engine/api"
	"github.com/warp/benefit-engine/benefit"
	"github.com/warp/benefit-engine/config"
	"github.com/warp/benefit-engine/logging"
	"github.com/warp/benefit-engine/pipeline"
	"github.com/warp/benefit-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	configPath := flag.String("config", "", "YAML config file path")
	cachePath := flag.String("cache", "", "run cache database path (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *cachePath != "" {
		cfg.Cache.Path = *cachePath
	}

	log := logging.New(cfg.Log)

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid benefit configuration")
	}

	var opts []pipeline.Option
	var cache pipeline.Cache
	if cfg.Cache.Path != "" {
		store, err := sqlite.New(cfg.Cache.Path, cfg.CacheTTL())
		if err != nil {
			log.Fatal().Err(err).Msg("open run cache")
		}
		defer store.Close()
		cache = store
		opts = append(opts, pipeline.WithCache(store))
	}

	runner := pipeline.NewRunner(log, opts...)
	defaultRef := benefit.Reference{
		Month: time.Month(cfg.Reference.Month),
		Year:  cfg.Reference.Year,
	}
	handler := api.NewHandler(runner, cache, engineCfg, defaultRef, log)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
