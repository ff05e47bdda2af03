package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/nightflow/nightflow-core/internal/api"
	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/service"
	"github.com/nightflow/nightflow-core/internal/infrastructure/auth"
	mongodb "github.com/nightflow/nightflow-core/internal/infrastructure/db/mongo"
	redisdb "github.com/nightflow/nightflow-core/internal/infrastructure/db/redis"
	feedmongo "github.com/nightflow/nightflow-core/internal/infrastructure/feed/mongo"
	"github.com/nightflow/nightflow-core/internal/infrastructure/llm"
	"github.com/nightflow/nightflow-core/internal/pkg/config"
	"github.com/nightflow/nightflow-core/internal/pkg/notify"
	"github.com/nightflow/nightflow-core/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Storage ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Error().Err(err).Msg("mongo connection failed")
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		os.Exit(1)
	}
	defer func() { _ = rdb.Close() }()

	// --- Repositories ---
	userRepo := mongodb.NewUserRepository(db)
	profileRepo := mongodb.NewProfileRepository(db)
	saleRepo := mongodb.NewSaleRepository(db)
	reservationRepo := mongodb.NewReservationRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"users":        userRepo.EnsureIndexes,
		"profiles":     profileRepo.EnsureIndexes,
		"sales":        saleRepo.EnsureIndexes,
		"reservations": reservationRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	clientID := cfg.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}
	referralStore := redisdb.NewReferralStore(rdb, cfg.TenantID, clientID)
	revocations := redisdb.NewRevocationList(rdb)

	// --- Identity ---
	provider := auth.NewProvider(userRepo, revocations, cfg.JWTSecret, cfg.TokenTTL, log)
	sessions := service.NewSessionManager(provider, log)

	roles := service.NewRoleResolver(profileRepo, cfg.PromoterSuffix, log)
	var lastUser string
	sessions.Subscribe(func(sess *domain.Session) {
		if sess != nil {
			lastUser = sess.UserID
			return
		}
		if lastUser != "" {
			roles.Forget(lastUser)
			lastUser = ""
		}
	})

	sessions.Start(ctx)
	defer sessions.Stop()

	// --- Core services ---
	notifier := notify.NewLogNotifier(log)
	referrals := service.NewReferralTracker(referralStore, notifier, log)
	branding := service.NewBrandingResolver(profileRepo, log)

	feed := feedmongo.NewLiveFeed(db, log)
	if err := feed.EnsurePreImages(ctx); err != nil {
		log.Warn().Err(err).Msg("could not enable reservation pre-images, check-in events may be skipped")
	}
	seed := domain.MetricsSnapshot{
		Checkins:       cfg.Snapshot.Checkins,
		PendingTickets: cfg.Snapshot.PendingTickets,
		Occupancy:      cfg.Snapshot.Occupancy,
	}
	aggregator := service.NewMetricsAggregator(saleRepo, reservationRepo, feed, referrals, notifier, cfg.TenantID, seed, log)
	if err := aggregator.Start(ctx); err != nil {
		log.Error().Err(err).Msg("live feed subscription failed")
		os.Exit(1)
	}
	defer aggregator.Stop()

	if err := aggregator.Reconcile(ctx); err != nil {
		log.Warn().Err(err).Msg("initial reconciliation failed, serving seeded snapshot")
	}

	completer := llm.NewClient(cfg.LLM.Endpoint, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Timeout, log)
	chat := service.NewChatSession(completer, aggregator, log)
	entrance := service.NewEntranceService(reservationRepo, notifier, cfg.TenantID, log)
	promoters := service.NewPromoterService(saleRepo, cfg.TenantID, cfg.LinkDomain, log)
	finance := service.NewFinanceService(saleRepo, cfg.TenantID, log)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		DB:  db,
		RDB: rdb,
		Log: log,

		Verifier:  provider,
		Roles:     roles,
		Registrar: provider,
		Sessions:  sessions,
		Branding:  branding,
		Referrals: referrals,

		Metrics:   aggregator,
		Chat:      chat,
		Entrance:  entrance,
		Promoters: promoters,
		Finance:   finance,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()
	log.Info().Str("port", cfg.Port).Str("tenant_id", cfg.TenantID).Msg("nightflow core started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
