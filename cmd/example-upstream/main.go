package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
)

// Exemplo: destino HTTP instável para exercitar o dispatcher (TRANSPORT=http).
// Cada POST espera LATENCY e, a cada FAIL_EVERY chamadas, responde 503.
func main() {
	zl, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = zl.Sync() }()
	logger := zapr.NewLogger(zl)

	addr := ":8081"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}
	latency := 50 * time.Millisecond
	if v, err := time.ParseDuration(os.Getenv("LATENCY")); err == nil {
		latency = v
	}
	failEvery := 0
	if v, err := strconv.Atoi(os.Getenv("FAIL_EVERY")); err == nil {
		failEvery = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/ingest", ingestHandler(logger, latency, failEvery))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("example upstream listening", "addr", addr, "latency", latency.String(), "failEvery", failEvery)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(err, "server error")
		os.Exit(1)
	}
}

func ingestHandler(logger logr.Logger, latency time.Duration, failEvery int) http.Handler {
	var calls atomic.Int64
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		n, _ := io.Copy(io.Discard, r.Body)
		call := calls.Add(1)

		if latency > 0 {
			time.Sleep(latency)
		}
		if failEvery > 0 && call%int64(failEvery) == 0 {
			logger.V(1).Info("failing request on purpose", "call", call)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		logger.V(1).Info("request accepted", "call", call, "bytes", n)
		w.WriteHeader(http.StatusNoContent)
	})
}
