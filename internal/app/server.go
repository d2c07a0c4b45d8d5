// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"grocer-service/internal/config"
	adminHandler "grocer-service/internal/handlers/admin"
	orderHandler "grocer-service/internal/handlers/order"
	subscriptionHandler "grocer-service/internal/handlers/subscription"
	wsHandler "grocer-service/internal/handlers/websocket"
	"grocer-service/internal/metrics"
	"grocer-service/internal/middleware"
	"grocer-service/internal/pkg/jwt"
	adminUsecase "grocer-service/internal/service/admin"
	notifyUsecase "grocer-service/internal/service/notification"
	orderUsecase "grocer-service/internal/service/order"
	"grocer-service/internal/service/renewal"
	subscriptionUsecase "grocer-service/internal/service/subscription"
	"grocer-service/internal/websocket"
	wsHandlers "grocer-service/internal/websocket/handler"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	cfg    config.AppConfig
	logger *zap.Logger
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	return &Server{cfg: cfg, logger: logger}
}

// Start runs the HTTP API, the websocket hub, the notification relay and
// the renewal scheduler until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	logger := s.logger

	if s.cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// ----- Storage -----
	infra, err := Connect(ctx, s.cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	if s.cfg.SeedCatalog {
		if _, err := infra.SeedCatalog(ctx, logger); err != nil {
			logger.Error("failed to seed catalog", zap.Error(err))
		}
	}

	// ----- Metrics -----
	registry := metrics.NewRegistry()
	renewalMetrics := metrics.NewRenewalMetrics(registry)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	// ----- WebSocket Hub -----
	verifier := jwt.NewVerifier(s.cfg.JWTSecret, s.cfg.JWTIssuer)
	hub := websocket.NewHub(verifier, logger.Named("ws"))
	hub.RegisterHandler(wsHandlers.NewRoomHandler(hub, logger.Named("ws")))

	// ----- Notifications -----
	// With Redis every process publishes to the bus and this process relays
	// the bus into its hub. Without it events go to the hub directly.
	hubPublisher := notifyUsecase.NewHubPublisher(hub)
	var publisher notifyUsecase.Publisher = hubPublisher
	var relay *notifyUsecase.Relay
	if infra.Redis != nil {
		publisher = notifyUsecase.NewRedisPublisher(infra.Redis)
		relay = notifyUsecase.NewRelay(infra.Redis, hubPublisher, logger.Named("relay"))
	}
	notifier := notifyUsecase.NewNotificationService(publisher, logger.Named("notification"))

	// ----- Services (Usecases) -----
	subscriptionService := subscriptionUsecase.NewSubscriptionService(
		infra.Subscriptions,
		infra.Products,
		infra.Users,
		notifier,
		logger.Named("subscription"),
	)
	orderService := orderUsecase.NewOrderService(
		infra.Orders,
		infra.Products,
		infra.Users,
		notifier,
		logger.Named("order"),
	)
	adminService := adminUsecase.NewAdminService(
		infra.Users,
		infra.Products,
		infra.Orders,
		infra.Subscriptions,
	)

	// ----- Renewal Scheduler -----
	renewer := infra.Renewer(s.cfg, notifier, renewalMetrics, logger)
	scheduler, err := renewal.NewScheduler(renewal.SchedulerConfig{
		Spec:       s.cfg.RenewalCron,
		Location:   s.cfg.Location(),
		RunOnStart: s.cfg.RenewalRunOnStart,
	}, renewer, logger.Named("scheduler"))
	if err != nil {
		return err
	}

	// ----- Handlers -----
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	handlers := &Handlers{
		SubscriptionHandler: subscriptionHandler.NewSubscriptionHandler(subscriptionService),
		OrderHandler:        orderHandler.NewOrderHandler(orderService),
		AdminHandler:        adminHandler.NewAdminHandler(adminService, subscriptionService, orderService, scheduler, logger.Named("admin")),
		WSHandler:           wsHandler.NewWebSocketHandler(hub, s.cfg.FrontendURL, logger.Named("ws")),
		AuthMiddleware:      authMiddleware,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger.Named("http")),
		middleware.CORSMiddleware(s.cfg.FrontendURL),
		middleware.MetricsMiddleware(httpMetrics),
	)
	SetupRouter(engine, registry, handlers)

	httpServer := &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ----- Run -----
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if relay != nil {
		g.Go(func() error {
			relay.Run(gctx)
			return nil
		})
	}

	g.Go(func() error {
		if err := scheduler.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		<-scheduler.Stop().Done()
		logger.Info("renewal scheduler stopped")
		return nil
	})

	g.Go(func() error {
		logger.Info("server running", zap.String("addr", s.cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
