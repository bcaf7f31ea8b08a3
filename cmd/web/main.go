package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/skyops/crew-admin/internal/backend"
	"github.com/skyops/crew-admin/internal/cache"
	"github.com/skyops/crew-admin/internal/config"
	"github.com/skyops/crew-admin/internal/events"
	"github.com/skyops/crew-admin/internal/guard"
	"github.com/skyops/crew-admin/internal/observability"
	"github.com/skyops/crew-admin/internal/resources"
	"github.com/skyops/crew-admin/internal/web"
	"github.com/skyops/crew-admin/internal/web/handlers"
	"github.com/skyops/crew-admin/internal/web/views"
	"github.com/skyops/crew-admin/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	metrics := observability.NewMetrics()

	redis := cache.NewRedisStore(cfg.Redis, logger)
	defer redis.Close()

	readCache := cache.NewReadCache(redis, cfg.Cache.TTL(), logger)
	cooldown := cache.NewCooldown(redis, "cooldown:resend:", cfg.Signup.ResendCooldown(), logger)

	api := backend.NewClient(cfg.Backend, logger)

	bus := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(bus, logger)

	policyResource := resources.NewPolicyResource(api, readCache, bus)
	roleResource := resources.NewRoleResource(api, readCache, bus)
	inviteResource := resources.NewInviteResource(api, bus)

	app := fiber.New(fiber.Config{
		Views:                 views.Engine(),
		DisableStartupMessage: true,
	})
	web.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	web.RegisterRoutes(app, web.RouteConfig{
		Auth:      handlers.NewAuthHandler(api, cfg.Session, cfg.Signup, cooldown, logger),
		Dashboard: handlers.NewDashboardHandler(cfg.Session),
		Admin:     handlers.NewAdminHandler(policyResource, roleResource, inviteResource, cfg.Session, logger),
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, redis, metrics),
		Guard: guard.New(guard.Options{
			CookieName: cfg.Session.AccessTokenCookie,
		}),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
