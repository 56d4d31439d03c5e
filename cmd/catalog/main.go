package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ProductStore/internal/catalog"
	"ProductStore/internal/config"
	"ProductStore/pkg/kit"
)

func main() {
	service := "catalog"

	cfg, err := config.Load(service, getenv("CATALOG_CONFIG_FILE", "config.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Debug("configuration loaded", zap.Stringer("config", &cfg))

	ctx := context.Background()

	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err))
	}
	defer closeStore()

	if cfg.Catalog.Seed {
		n, err := catalog.Seed(ctx, store)
		if err != nil {
			log.Fatal("seed store failed", zap.Error(err))
		}
		log.Info("store seeded", zap.Int("products", n))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	}
	if cfg.RateLimit.Requests > 0 {
		deps.RateLimiter = kit.NewIPRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}

	h := catalog.NewHandler(&catalog.Server{Store: store, Log: log}, deps)

	opts := kit.ServerOptions{
		Addr:              ":" + strconv.Itoa(cfg.Server.Port),
		ReadHeaderTimeout: cfg.Server.Timeout.ReadHeader,
		ShutdownTimeout:   cfg.Server.Timeout.Shutdown,
	}
	if err := kit.RunHTTPServer(ctx, opts, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (catalog.Store, func(), error) {
	if cfg.URL == "" {
		log.Info("using in-memory store")
		return catalog.NewMemStore(), func() {}, nil
	}

	db, err := catalog.OpenPostgres(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Migrate {
		if err := catalog.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	log.Info("using postgres store")
	return catalog.NewPostgresStore(db), func() { _ = db.Close() }, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
