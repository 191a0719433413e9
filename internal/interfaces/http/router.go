package http

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	checkoutUsecases "invitio/internal/application/checkout/usecases"
	entitlementUsecases "invitio/internal/application/entitlement/usecases"
	planUsecases "invitio/internal/application/plan/usecases"
	subscriptionUsecases "invitio/internal/application/subscription/usecases"
	"invitio/internal/domain/entitlement"
	"invitio/internal/domain/plan"
	"invitio/internal/infrastructure/auth"
	"invitio/internal/infrastructure/cache"
	"invitio/internal/infrastructure/config"
	"invitio/internal/infrastructure/email"
	gatewayInfra "invitio/internal/infrastructure/gateway"
	"invitio/internal/infrastructure/repository"
	"invitio/internal/infrastructure/scheduler"
	"invitio/internal/interfaces/http/handlers"
	"invitio/internal/interfaces/http/middleware"
	"invitio/internal/interfaces/http/routes"
	"invitio/internal/shared/db"
	"invitio/internal/shared/logger"
	"invitio/internal/shared/utils"
)

// Router wires repositories, use cases, and handlers into a gin engine and
// owns the background services started alongside the HTTP server.
type Router struct {
	engine *gin.Engine
	cfg    *config.Config
	log    logger.Interface

	redisClient *redis.Client

	planHandler         *handlers.PlanHandler
	checkoutHandler     *handlers.CheckoutHandler
	subscriptionHandler *handlers.SubscriptionHandler
	entitlementHandler  *handlers.EntitlementHandler
	authMiddleware      *middleware.AuthMiddleware

	expiryScheduler *scheduler.ExpiryScheduler
}

// NewRouter creates a new HTTP router with all dependencies wired together.
func NewRouter(gormDB *gorm.DB, cfg *config.Config, log logger.Interface) (*Router, error) {
	engine := gin.New()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.GetAddr(), err)
	}

	subscriptionRepo := repository.NewSubscriptionRepository(gormDB)
	ledgerRepo := repository.NewPaymentLedgerRepository(gormDB)
	txManager := db.NewTransactionManager(gormDB)

	registry := plan.DefaultRegistry()
	evaluator := entitlement.NewEvaluator(registry)

	pendingStore := cache.NewPendingPurchaseStoreWithConfig(
		redisClient,
		cache.PendingPurchasePrefix,
		time.Duration(cfg.Checkout.PendingTTLMinutes)*time.Minute,
	)
	gw := gatewayInfra.NewHTTPGateway(cfg.Gateway, log)

	applyUC := subscriptionUsecases.NewApplyPurchaseUseCase(subscriptionRepo, ledgerRepo, txManager, log)
	recordFailureUC := subscriptionUsecases.NewRecordFailureUseCase(ledgerRepo, log)
	resolveUC := checkoutUsecases.NewResolveOutcomeUseCase(
		pendingStore,
		ledgerRepo,
		gw,
		applyUC,
		recordFailureUC,
		cfg.Checkout.AmountToleranceMinor,
		time.Duration(cfg.Checkout.PollIntervalSeconds)*time.Second,
		cfg.Checkout.PollMaxAttempts,
		log,
	)
	if cfg.Email.Enabled {
		resolveUC.SetReceiptSender(email.NewSMTPReceiptSender(cfg.Email, log))
	}
	submitUC := checkoutUsecases.NewSubmitPurchaseUseCase(registry, ledgerRepo, pendingStore, gw, resolveUC, log)
	statusUC := checkoutUsecases.NewGetCheckoutStatusUseCase(ledgerRepo, pendingStore, log)

	getSubscriptionUC := subscriptionUsecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	cancelUC := subscriptionUsecases.NewCancelSubscriptionUseCase(subscriptionRepo, ledgerRepo, gw, txManager, log)
	historyUC := subscriptionUsecases.NewGetPaymentHistoryUseCase(ledgerRepo, log)
	expireUC := subscriptionUsecases.NewExpireSubscriptionsUseCase(subscriptionRepo, log)

	checkUC := entitlementUsecases.NewCheckEntitlementUseCase(subscriptionRepo, evaluator, log)
	listPlansUC := planUsecases.NewListPlansUseCase(registry)
	getPlanEntitlementsUC := planUsecases.NewGetPlanEntitlementsUseCase(registry)

	verifier := auth.NewSessionVerifier(cfg.Session)

	return &Router{
		engine:              engine,
		cfg:                 cfg,
		log:                 log,
		redisClient:         redisClient,
		planHandler:         handlers.NewPlanHandler(listPlansUC, getPlanEntitlementsUC, log),
		checkoutHandler:     handlers.NewCheckoutHandler(submitUC, resolveUC, statusUC, log),
		subscriptionHandler: handlers.NewSubscriptionHandler(getSubscriptionUC, cancelUC, historyUC, log),
		entitlementHandler:  handlers.NewEntitlementHandler(checkUC, log),
		authMiddleware:      middleware.NewAuthMiddleware(verifier, log),
		expiryScheduler: scheduler.NewExpiryScheduler(
			expireUC,
			time.Duration(cfg.Scheduler.ExpirySweepMinutes)*time.Minute,
			log,
		),
	}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, gin.H{"status": "ok"})
	})

	api := r.engine.Group("/api/v1")

	routes.SetupPlanRoutes(api, &routes.PlanRouteConfig{
		PlanHandler: r.planHandler,
	})
	routes.SetupCheckoutRoutes(api, &routes.CheckoutRouteConfig{
		CheckoutHandler: r.checkoutHandler,
		AuthMiddleware:  r.authMiddleware,
	})
	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: r.subscriptionHandler,
		EntitlementHandler:  r.entitlementHandler,
		AuthMiddleware:      r.authMiddleware,
	})
}

// StartBackground starts the background services owned by the router.
func (r *Router) StartBackground(ctx context.Context) {
	r.expiryScheduler.Start(ctx)
}

// Shutdown stops background services and closes shared clients.
func (r *Router) Shutdown() {
	r.expiryScheduler.Stop()
	if err := r.redisClient.Close(); err != nil {
		r.log.Warnw("failed to close redis client", "error", err)
	}
}

// GetEngine returns the Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
