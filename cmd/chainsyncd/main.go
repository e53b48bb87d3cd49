// Command chainsyncd runs the block synchronization daemon: it opens a
// storage backend, builds a Chain over it, starts the Prometheus
// exporter, and holds a lock on its data directory for the life of the
// process.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/btcsync/chain/chain"
	"github.com/btcsync/chain/internal/config"
	intlog "github.com/btcsync/chain/internal/log"
	intmetrics "github.com/btcsync/chain/internal/metrics"
	"github.com/btcsync/chain/store"
	"github.com/btcsync/chain/types"
)

func main() {
	app := &cli.App{
		Name:  "chainsyncd",
		Usage: "run the block synchronization daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "path to a YAML configuration file",
			},
			&cli.StringFlag{
				Name:  "datadir",
				Usage: "override the configured data directory",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "chainsyncd:", err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg := config.Default()
	if path := ctx.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if dir := ctx.String("datadir"); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := buildLogger(cfg.Log)
	intlog.SetDefault(logger)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("chainsyncd: creating data dir: %w", err)
	}

	lock := flock.New(cfg.DataDir + "/LOCK")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("chainsyncd: acquiring data dir lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("chainsyncd: data dir %s is already in use", cfg.DataDir)
	}
	defer lock.Unlock()

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	c := chain.New(st)
	ref := chain.NewRef(c)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		intmetrics.MustRegister(reg, ref)
		group.Go(func() error {
			return serveMetrics(groupCtx, cfg.Metrics.Listen, reg, logger)
		})
	}

	logger.Info("chainsyncd started", "data_dir", cfg.DataDir, "backend", cfg.Storage.Backend)
	<-groupCtx.Done()
	logger.Info("chainsyncd shutting down")
	return group.Wait()
}

func buildLogger(cfg config.LogConfig) *intlog.Logger {
	level := parseLevel(cfg.Level)
	switch {
	case cfg.File != "":
		return intlog.NewRotatingFile(intlog.DefaultRotatingFileConfig(cfg.File), level)
	case cfg.Console:
		return intlog.NewConsole(level)
	default:
		return intlog.New(level)
	}
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openStore(cfg config.Config) (store.Store, func(), error) {
	genesis := &types.Block{Header: types.Header{}}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return store.NewMemStore(genesis), nil, nil
	case config.BackendLevelDB:
		db, err := store.OpenLevelDBStore(cfg.DataDir+"/leveldb", genesis)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	case config.BackendPebble:
		db, err := store.OpenPebbleStore(cfg.DataDir+"/pebble", genesis)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("chainsyncd: unknown storage backend %q", cfg.Storage.Backend)
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *intlog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("chainsyncd: metrics server: %w", err)
	}
	return nil
}
