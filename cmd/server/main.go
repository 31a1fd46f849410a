package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"bloomit/internal/catalog"
	"bloomit/internal/identity/notify"
	"bloomit/internal/identity/service"
	"bloomit/internal/identity/store/resettoken"
	"bloomit/internal/identity/store/revocation"
	userstore "bloomit/internal/identity/store/user"
	"bloomit/internal/identity/token"
	"bloomit/internal/platform/config"
	"bloomit/internal/platform/httpserver"
	"bloomit/internal/platform/logger"
	"bloomit/internal/platform/metrics"
	"bloomit/internal/platform/postgres"
	"bloomit/internal/platform/redis"
	"bloomit/internal/ratelimit"
	"bloomit/internal/ratelimit/store/bucket"
	httptransport "bloomit/internal/transport/http"
	"bloomit/pkg/platform/audit/publisher"
	auditmemory "bloomit/pkg/platform/audit/store/memory"
)

// main wires the identity provider and content API behind one HTTP server.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	if cfg.IsProduction() && cfg.UsesDevSigningKey() {
		return errors.New("JWT_SIGNING_KEY must be set in production")
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	health := map[string]httptransport.HealthCheck{}

	var users service.UserStore = userstore.New()
	if cfg.Database.URL != "" {
		if err := userstore.Migrate(cfg.Database.URL); err != nil {
			return err
		}
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		users = userstore.NewPostgres(db)
		health["postgres"] = db.PingContext
		log.Info("accounts stored in postgres")
	}

	var (
		revocations service.RevocationList  = revocation.NewInMemoryTRL()
		resets      service.ResetTokenStore = resettoken.New()
		buckets     ratelimit.Store
	)
	memBuckets := bucket.NewInMemoryBucketStore()
	buckets = memBuckets
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		defer rc.Close()
		revocations = revocation.NewRedisTRL(rc.Client)
		resets = resettoken.NewRedis(rc.Client)
		buckets = bucket.NewRedisBucketStore(rc.Client)
		memBuckets = nil
		health["redis"] = rc.Health
		log.Info("revocations and reset codes stored in redis")
	}

	var notifier service.ResetNotifier = notify.NewLogNotifier(log, !cfg.IsProduction())
	if len(cfg.Kafka.Brokers) > 0 {
		kn, err := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.ResetTopic)
		if err != nil {
			return fmt.Errorf("kafka notifier: %w", err)
		}
		defer kn.Close()
		notifier = kn
		health["kafka"] = kn.Ping
		log.Info("reset codes published to kafka", "topic", cfg.Kafka.ResetTopic)
	}

	audit := publisher.NewPublisher(auditmemory.NewInMemoryStore(),
		publisher.WithAsyncBuffer(cfg.AuditBuffer),
		publisher.WithLogger(log),
	)
	defer audit.Close()

	jwt := token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer)
	svc := service.New(users, revocations, resets, jwt,
		service.WithLogger(log),
		service.WithAuditPublisher(audit),
		service.WithMetrics(m),
		service.WithResetNotifier(notifier),
		service.WithTokenTTL(cfg.Auth.TokenTTL),
		service.WithResetTokenTTL(cfg.Auth.ResetTokenTTL),
	)

	content, err := catalog.New()
	if err != nil {
		return err
	}

	var authOpts []httptransport.AuthHandlerOption
	if cfg.RateLimit.AuthLimit > 0 {
		limiter := ratelimit.New(buckets, cfg.RateLimit.AuthLimit, cfg.RateLimit.AuthWindow,
			ratelimit.WithLogger(log),
			ratelimit.WithRecorder(m),
		)
		authOpts = append(authOpts, httptransport.WithThrottle(limiter.Middleware))
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(svc, audit, log, authOpts...),
		Content:   httptransport.NewContentHandler(content, audit, m, log),
		Validator: jwt.Validator(),
		Revoked:   svc,
		Gatherer:  prometheus.DefaultGatherer,
		Health:    health,
		Logger:    log,
		Timeout:   cfg.RequestTimeout,
	})
	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bloomit server", "env", cfg.Environment)
		if err := httpserver.Serve(gctx, srv, 10*time.Second, log); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	if memBuckets != nil {
		g.Go(func() error {
			sweepBuckets(gctx, memBuckets, cfg.RateLimit.AuthWindow)
			return nil
		})
	}
	return g.Wait()
}

// sweepBuckets forgets idle clients so the in-memory limiter stays small.
func sweepBuckets(ctx context.Context, store *bucket.InMemoryBucketStore, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			store.Sweep()
		}
	}
}
