package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/crdtlabs/docsync/client"
	"github.com/crdtlabs/docsync/document"
	"github.com/crdtlabs/docsync/internal/breaker"
	"github.com/crdtlabs/docsync/internal/cache"
	"github.com/crdtlabs/docsync/internal/config"
	"github.com/crdtlabs/docsync/internal/observability"
)

var (
	flagAddr   string
	flagKey    string
	flagDocKey string
)

// rootCmd runs a docsync agent: it activates against the server, keeps a
// local document snapshotted into the cache, and serves health and
// metrics endpoints until interrupted.
var rootCmd = &cobra.Command{
	Use:   "docsync",
	Short: "Run a document synchronization agent",
	Long: `docsync activates a client against a docsync server, maintains a
local replicated document and snapshots it into the configured cache.

Configuration is read from config/{ENV_NAME}.yaml; flags override the
server address and client key.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "docsync server address (overrides config)")
	rootCmd.Flags().StringVar(&flagKey, "key", "", "client key (default: random UUID)")
	rootCmd.Flags().StringVar(&flagDocKey, "document", "default$default", "document key as collection$document")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	if flagAddr != "" {
		cfg.RPCAddr = flagAddr
	}

	docKey, err := document.FromBSONKey(flagDocKey)
	if err != nil {
		logger.Fatal("document key", zap.String("key", flagDocKey), zap.Error(err))
	}

	var snapshots cache.Cache
	var memcacheCloser *cache.MemcachedCache
	switch cfg.CacheBackend {
	case "memcached":
		mc, err := cache.NewMemcachedCache(cfg.MemcachedAddrs, cfg.MemcachedTimeout, cfg.MemcachedMaxIdleConns)
		if err != nil {
			logger.Fatal("memcached cache", zap.Error(err))
		}
		memcacheCloser = mc
		snapshots = mc
		logger.Info("cache backend: memcached", zap.String("addrs", cfg.MemcachedAddrs))
	default:
		snapshots = cache.NewInMemoryCache()
		logger.Info("cache backend: in_memory")
	}

	cb := breaker.New(breaker.Config{
		MaxFailures: cfg.BreakerMaxFailures,
		Cooldown:    cfg.BreakerCooldown,
		OnStateChange: func(from, to breaker.State) {
			logger.Warn("breaker state change",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	opts := []client.Option{
		client.WithLogger(logger),
		client.WithRPCTimeout(cfg.RPCTimeout),
		client.WithRetry(cfg.RetryAttempts, cfg.RetryBaseDelay, cfg.RetryMaxDelay),
		client.WithRateLimit(float64(cfg.RateLimitRPS), cfg.RateLimitBurst),
		client.WithBreaker(cb),
		client.WithSyncLoopDuration(cfg.SyncLoopDuration),
		client.WithReconnectStreamDelay(cfg.ReconnectStreamDelay),
	}
	if flagKey != "" {
		opts = append(opts, client.WithKey(flagKey))
	}

	cli, err := client.Dial(cfg.RPCAddr, opts...)
	if err != nil {
		logger.Fatal("dial", zap.Error(err))
	}

	activateCtx, activateCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	err = cli.Activate(activateCtx)
	activateCancel()
	if err != nil {
		logger.Fatal("activate", zap.String("addr", cfg.RPCAddr), zap.Error(err))
	}
	logger.Info("client activated",
		zap.String("client_key", cli.Key()),
		zap.String("client_id", cli.ID().String()))

	doc := document.New(docKey.Collection(), docKey.Document())
	doc.SetActor(*cli.ID())

	if prev, ok, err := snapshots.Get(context.Background(), docKey.BSONKey()); err == nil && ok {
		observability.RecordSnapshotCache("hit")
		logger.Info("previous snapshot found",
			zap.String("document", docKey.BSONKey()),
			zap.Int("bytes", len(prev)))
	} else if err == nil {
		observability.RecordSnapshotCache("miss")
	}

	router := mux.NewRouter()
	router.Handle("/metrics", observability.MetricsHandler())
	router.HandleFunc("/healthz", healthzHandler(cli, memcacheCloser)).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + cfg.MetricsPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("metrics server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot loop: persist the document into the cache every sync
	// interval so restarts can pick up where they left off.
	limiter := rate.NewLimiter(rate.Every(cfg.SyncLoopDuration), 1)
	go snapshotLoop(ctx, limiter, snapshots, doc, cfg.SnapshotTTL, logger)

	<-ctx.Done()
	stop()
	logger.Info("graceful shutdown triggered")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := cli.Deactivate(shutdownCtx); err != nil {
		logger.Error("deactivate", zap.Error(err))
	}
	if err := cli.Close(); err != nil {
		logger.Error("client close", zap.Error(err))
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown", zap.Error(err))
	}
	if memcacheCloser != nil {
		if err := memcacheCloser.Close(); err != nil {
			logger.Error("memcached close", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
	return nil
}

// snapshotLoop writes the document's marshaled state into the snapshot
// cache, paced by the limiter, until the context ends.
func snapshotLoop(ctx context.Context, limiter *rate.Limiter, snapshots cache.Cache, doc *document.Document, ttl time.Duration, logger *zap.Logger) {
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		if err := snapshots.Set(ctx, doc.Key().BSONKey(), []byte(doc.Marshal()), ttl); err != nil {
			observability.RecordSnapshotCache("error")
			logger.Warn("snapshot cache write", zap.Error(err))
			continue
		}
		observability.RecordSnapshotCache("stored")
	}
}

// healthzHandler reports liveness: the client must be activated and, when
// memcached is the backend, the cache reachable.
func healthzHandler(cli *client.Client, mc *cache.MemcachedCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !cli.IsActive() {
			http.Error(w, "client not activated", http.StatusServiceUnavailable)
			return
		}
		if mc != nil {
			if err := mc.Ping(); err != nil {
				http.Error(w, "cache unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
