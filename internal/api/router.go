package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nightflow/nightflow-core/internal/api/handler"
	"github.com/nightflow/nightflow-core/internal/api/middleware"
	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// Dependencies carries the constructed services the router exposes. The
// composition root builds them; the router only wires routes and middleware.
type Dependencies struct {
	DB  *mongo.Database
	RDB *redis.Client
	Log zerolog.Logger

	Verifier  middleware.SessionVerifier
	Roles     middleware.RoleSource
	Registrar handler.Registrar
	Sessions  handler.SessionController
	Branding  handler.ThemeResolver
	Referrals handler.ReferralCapturer

	Metrics   ports.MetricsService
	Chat      ports.ChatService
	Entrance  ports.EntranceService
	Promoters ports.PromoterService
	Finance   ports.FinanceService
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("nightflow"))
	e.Use(middleware.Tenant())

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Registrar, deps.Sessions)
	bootstrapHandler := handler.NewBootstrapHandler(deps.Branding, deps.Referrals)
	viewHandler := handler.NewViewHandler()
	metricsHandler := handler.NewMetricsHandler(deps.Metrics)
	entranceHandler := handler.NewEntranceHandler(deps.Entrance)
	chatHandler := handler.NewChatHandler(deps.Chat)
	promoterHandler := handler.NewPromoterHandler(deps.Promoters)
	financeHandler := handler.NewFinanceHandler(deps.Finance)

	// --- Public routes ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/bootstrap", bootstrapHandler.Bootstrap)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.RDB)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Authenticated routes ---
	authMW := middleware.Auth(deps.Verifier, deps.Roles)
	g := e.Group("", authMW)

	g.POST("/auth/logout", authHandler.Logout)
	g.GET("/auth/session", authHandler.Session)
	g.GET("/view", viewHandler.Resolve)

	dashboard := g.Group("/dashboard", middleware.RBAC(domain.RoleAdmin))
	dashboard.GET("/snapshot", metricsHandler.Snapshot)
	dashboard.POST("/reconcile", metricsHandler.Reconcile)

	g.POST("/sales", metricsHandler.CommitSale, middleware.RBAC(domain.RoleAdmin, domain.RoleStaff))

	entrance := g.Group("/entrance", middleware.RBAC(domain.RoleAdmin, domain.RoleStaff))
	entrance.GET("/reservations", entranceHandler.List)
	entrance.POST("/scan", entranceHandler.Scan)
	entrance.POST("/reservations/:id/checkin", entranceHandler.CheckIn)

	chat := g.Group("/chat", middleware.RBAC(domain.RoleAdmin))
	chat.GET("/messages", chatHandler.Messages)
	chat.POST("/messages", chatHandler.Send)
	chat.POST("/confirm", chatHandler.Confirm)

	g.GET("/promoter/stats", promoterHandler.Stats, middleware.RBAC(domain.RolePromoter, domain.RoleAdmin))
	g.GET("/finance/summary", financeHandler.Summary, middleware.RBAC(domain.RoleAdmin))

	return e
}
