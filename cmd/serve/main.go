// Command serve exposes a resilient chat gateway over HTTP.
//
// It fronts a single configured provider with the conduit client, so every
// request gets retry, circuit breaking, and metrics without the caller
// knowing which vendor is behind it.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/conduitllm/conduit"
	"github.com/conduitllm/conduit/client"
	"github.com/conduitllm/conduit/retry"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogLevel)

	provider, err := conduit.ParseProvider(cfg.Provider)
	if err != nil {
		slog.Error("invalid provider", "error", err)
		os.Exit(1)
	}

	c, err := client.New(client.Config{
		Provider:        provider,
		Model:           cfg.Model,
		APIKey:          cfg.APIKey(provider),
		AzureEndpoint:   cfg.AzureEndpoint,
		AzureAPIVersion: cfg.AzureAPIVersion,
		Retry: &retry.Config{
			MaxRetries:   cfg.MaxRetries,
			BaseDelay:    retry.DefaultConfig().BaseDelay,
			MaxDelay:     retry.DefaultConfig().MaxDelay,
			JitterFactor: retry.DefaultConfig().JitterFactor,
		},
		Breaker: &retry.BreakerConfig{
			Threshold: cfg.BreakerThreshold,
			Cooldown:  cfg.BreakerCooldown,
		},
	})
	if err != nil {
		slog.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	handler := NewGatewayHandler(c, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat", handler.Chat)
	mux.HandleFunc("/v1/embeddings", handler.Embeddings)
	mux.HandleFunc("/v1/metrics", handler.Metrics)
	mux.HandleFunc("/healthz", handler.Health)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Timeout,
	}

	go func() {
		slog.Info("gateway listening",
			"port", cfg.Port,
			"provider", c.Provider(),
			"model", c.Model(),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})))
}
