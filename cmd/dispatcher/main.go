package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"outbound-dispatcher/outbound/dispatch"
	"outbound-dispatcher/outbound/dispatch/domain"
	"outbound-dispatcher/outbound/dispatch/infra"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// job é a requisição enviada pelo gerador de carga.
type job struct {
	Seq  int       `json:"seq"`
	Sent time.Time `json:"sent"`
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg, err := readConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	zl, err := newZapLogger(cfg.logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()
	logger := zapr.NewLogger(zl)

	if err := run(cfg, logger); err != nil {
		logger.Error(err, "dispatcher failed")
		os.Exit(1)
	}
}

func run(cfg config, logger logr.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rdb *redis.Client
	if cfg.transport == "redis" || cfg.mirrorEnabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
		_, err := rdb.Ping(pingCtx).Result()
		pingCancel()
		if err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
	}

	var transport domain.Transport
	switch cfg.transport {
	case "http":
		transport = infra.NewHTTPTransport(cfg.upstreamURL, infra.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	case "redis":
		transport = infra.NewRedisListTransport(rdb, cfg.redisListKey)
	}
	if cfg.transportRPS > 0 {
		transport = infra.NewPacedTransport(transport, cfg.transportRPS, cfg.transportBurst)
	}

	enc, err := infra.NewEncoder(cfg.encoder)
	if err != nil {
		return err
	}

	opts := []dispatch.Option{
		dispatch.WithEncoder(enc),
		dispatch.WithLogger(logger),
	}
	if cfg.mirrorEnabled {
		opts = append(opts, dispatch.WithOutcomeSink(infra.NewRedisOutcomeMirror(
			rdb,
			infra.WithMirrorPrefix(cfg.mirrorPrefix),
			infra.WithMirrorTTL(cfg.mirrorTTL),
			infra.WithMirrorBucket(cfg.mirrorBucket),
		)))
	}

	d, err := dispatch.New(transport, cfg.capacity, opts...)
	if err != nil {
		return err
	}

	if cfg.listenAddr != "" {
		srv := newObservabilityServer(cfg.listenAddr, d)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error(err, "observability server error")
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("dispatcher starting",
		"transport", cfg.transport, "capacity", cfg.capacity, "requests", cfg.requests,
		"submitRPS", cfg.submitRPS, "transportRPS", cfg.transportRPS, "encoder", cfg.encoder,
		"mirror", cfg.mirrorEnabled, "listenAddr", cfg.listenAddr)

	start := time.Now()
	if err := submit(ctx, d, cfg); err != nil {
		return err
	}

	snap := d.TraceSnapshot()
	for _, r := range snap {
		logger.Info("lane trace", "lane", r.LaneID, "requests", r.RequestsCount,
			"succeeded", r.SucceededRequestsCount, "failed", r.FailedRequestsCount())
	}
	totals := dispatch.Sum(snap)
	logger.Info("dispatch finished", "elapsed", time.Since(start).String(),
		"requests", totals.Requests, "succeeded", totals.Succeeded, "failed", totals.Failed)

	if cfg.holdAfter > 0 && cfg.listenAddr != "" {
		select {
		case <-ctx.Done():
		case <-time.After(cfg.holdAfter):
		}
	}
	return nil
}

// submit dispara cfg.requests envios concorrentes, espaçados por um token bucket.
// O Dispatcher limita quantos ficam em andamento ao mesmo tempo.
func submit(ctx context.Context, d *dispatch.Dispatcher, cfg config) error {
	var lim *rate.Limiter
	if cfg.submitRPS > 0 {
		lim = rate.NewLimiter(rate.Limit(cfg.submitRPS), 1)
	}

	// gctx só interrompe a submissão; os envios já disparados recebem ctx,
	// senão um erro de encoding cancelaria o transporte dos demais.
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < cfg.requests; i++ {
		if lim != nil {
			if err := lim.Wait(gctx); err != nil {
				break
			}
		}
		seq := i
		g.Go(func() error {
			return d.Send(ctx, job{Seq: seq, Sent: time.Now()})
		})
	}
	return g.Wait()
}

func newObservabilityServer(addr string, d *dispatch.Dispatcher) *http.Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(d.Collector())

	mux := http.NewServeMux()
	mux.Handle("/trace", dispatch.TraceHandler(d))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}
}

func newZapLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
