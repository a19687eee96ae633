// Package app wires the store's dependencies and runs the API server.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/novexa-store/internal/domain/access"
	"github.com/xenking/novexa-store/internal/domain/admin"
	"github.com/xenking/novexa-store/internal/domain/audit"
	"github.com/xenking/novexa-store/internal/domain/auth"
	"github.com/xenking/novexa-store/internal/domain/campaign"
	"github.com/xenking/novexa-store/internal/domain/cart"
	"github.com/xenking/novexa-store/internal/domain/contact"
	"github.com/xenking/novexa-store/internal/domain/coupon"
	"github.com/xenking/novexa-store/internal/domain/order"
	"github.com/xenking/novexa-store/internal/domain/product"
	"github.com/xenking/novexa-store/internal/domain/user"
	"github.com/xenking/novexa-store/internal/gemini"
	"github.com/xenking/novexa-store/internal/handler"
	"github.com/xenking/novexa-store/internal/storage/postgres"
	redisstore "github.com/xenking/novexa-store/internal/storage/redis"
	"github.com/xenking/novexa-store/pkg/health"
	"github.com/xenking/novexa-store/pkg/httpmiddleware"
)

const serviceName = "novexa-store"

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.Bool("production", cfg.Production),
		zap.String("admin_source", cfg.Admin.Source),
		zap.Int("admin_emails", len(cfg.Admin.Emails)),
	)

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return errors.Wrap(err, "parse redis url")
	}
	rdb := redis.NewClient(redisOpts)
	defer func() {
		if err := rdb.Close(); err != nil {
			lg.Warn("Close redis client", zap.Error(err))
		}
	}()
	cartStore := redisstore.NewCartStore(rdb, cfg.Cart.TTL)

	healthSvc := health.New(lg.Named("health"))
	healthSvc.Add(health.Readiness, "postgres", 5*time.Second, health.PingCheck("postgres", pool))
	healthSvc.Add(health.Readiness, "redis", 2*time.Second, health.PingCheck("redis", cartStore))
	healthSvc.Add(health.Liveness, "goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Add(health.Liveness, "gc_pause", time.Second, health.GCMaxPauseCheck(time.Second),
		health.WithThresholds(5, 1))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()
	healthSvc.SetReady(true)

	// Repositories.
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	couponRepo := postgres.NewCouponRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	tokenRepo := postgres.NewTokenRepository(pool)

	// Access control.
	gate := access.NewGate(cfg.GateConfig(), access.ContextProvider{}, userRepo)
	guard, err := admin.NewGuard(gate, audit.NewRecorder(auditRepo), m.MeterProvider().Meter(serviceName))
	if err != nil {
		return errors.Wrap(err, "create admin guard")
	}

	// Domain services.
	couponValidator := coupon.NewRepoValidator(couponRepo)
	drafter, err := newDrafter(ctx, cfg.AI)
	if err != nil {
		return err
	}
	if drafter == nil {
		lg.Info("Campaign drafting disabled: no AI API key configured")
	}

	h := handler.New(handler.Config{ImageBaseURL: cfg.ImageBaseURL}, handler.Services{
		Gate:      gate,
		Catalog:   product.NewCatalog(productRepo, guard),
		Carts:     cart.NewService(gate, cartStore, productRepo, couponValidator),
		Orders:    order.NewService(gate, cartStore, productRepo, couponValidator, orderRepo),
		Users:     user.NewService(userRepo, guard, user.Policy{PreventSelfDemotion: cfg.Admin.PreventSelfDemotion}),
		Contacts:  contact.NewService(contactRepo, guard),
		Campaigns: campaign.NewService(productRepo, drafter, guard),
	})
	tokens := auth.NewService(tokenRepo, []byte(cfg.TokenPepper))

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes(handler.Authenticate(tokens)))

	limiter := httpmiddleware.NewRateLimiter(httpmiddleware.RateLimitConfig{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	})

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			limiter.Middleware(),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument(serviceName, m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return limiter.Run(gCtx)
	})
	g.Go(func() error {
		// Graceful shutdown: drop readiness, drain, then stop.
		<-gCtx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	return g.Wait()
}

// newDrafter returns the configured campaign drafter, or nil when drafting
// is disabled.
func newDrafter(ctx context.Context, cfg AIConfig) (campaign.Drafter, error) {
	d, err := gemini.NewDrafter(ctx, gemini.Config{
		APIKey: cfg.APIKey,
		Model:  cfg.Model,
		Brand:  cfg.Brand,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create campaign drafter")
	}
	if d == nil {
		return nil, nil
	}
	return d, nil
}
