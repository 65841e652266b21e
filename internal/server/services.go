package server

import (
	"context"
	"fmt"
	"log"

	"pilates-studio/internal/cache"
	"pilates-studio/internal/config"
	"pilates-studio/internal/database"
	"pilates-studio/internal/models"
	"pilates-studio/internal/repositories"
	"pilates-studio/internal/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles the domain services the router serves
type Services struct {
	Content    services.ContentServiceInterface
	Sessions   services.CheckoutSessionCreator
	Redirector services.CheckoutRedirector
	Provider   services.PaymentProvider
	Orders     services.OrderRecorder
	Carts      cache.CartDocuments
	Logger     *zap.Logger

	redis   *redis.Client
	closers []func() error
}

// Close releases database and cache connections
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Printf("Error closing resource: %v", err)
		}
	}
	s.closers = nil
}

// BuildServices wires the payment provider, CMS, content cache, cart store
// and order ledger from configuration. Unconfigured backends fall back to
// demo content, no cache, in-memory carts and an in-memory ledger.
func BuildServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	cur, err := models.ParseCurrency(cfg.Stripe.Currency)
	if err != nil {
		return nil, err
	}
	models.DefaultCurrency = cur

	logger, err := NewLogger(cfg)
	if err != nil {
		return nil, err
	}

	svcs := &Services{Logger: logger}
	svcs.closers = append(svcs.closers, func() error {
		// Sync on a terminal stderr reports EINVAL; there is nothing to flush then
		_ = logger.Sync()
		return nil
	})
	svcs.connectRedis(ctx, cfg)

	if svcs.redis != nil {
		svcs.Carts = cache.NewRedisCartDocuments(svcs.redis, cache.CartTTL)
	} else {
		log.Println("REDIS_ADDR not set or unreachable, carts are kept in memory")
		svcs.Carts = cache.NewMemoryCartDocuments(cache.CartTTL)
	}

	stripe := services.NewStripeService(services.StripeConfig{
		SecretKey:      cfg.Stripe.SecretKey,
		PublishableKey: cfg.Stripe.PublishableKey,
		APIURL:         cfg.Stripe.APIURL,
	})
	svcs.Provider = stripe
	svcs.Redirector = stripe
	svcs.Sessions = services.NewCheckoutService(stripe, cur).WithLogger(logger)

	var cms services.CMSClient
	if cfg.CosmicEnabled() {
		cosmic := services.NewCosmicClient(services.CosmicConfig{
			BucketSlug: cfg.Cosmic.BucketSlug,
			ReadKey:    cfg.Cosmic.ReadKey,
			WriteKey:   cfg.Cosmic.WriteKey,
			APIURL:     cfg.Cosmic.APIURL,
		})
		cms = cosmic
		svcs.Content = services.NewContentService(cosmic, svcs.contentCache(cfg))
	} else {
		log.Println("COSMIC_BUCKET_SLUG not set, serving demo classes")
		svcs.Content = services.NewMockContentService()
	}

	ledger, err := svcs.orderLedger(ctx, cfg)
	if err != nil {
		svcs.Close()
		return nil, err
	}
	svcs.Orders = services.NewOrderService(cms, ledger).WithLogger(logger)

	return svcs, nil
}

// NewLogger builds the structured logger for checkout and order bookkeeping
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// connectRedis opens the shared Redis client when one is configured and reachable
func (s *Services) connectRedis(ctx context.Context, cfg *config.Config) {
	if cfg.Redis.Addr == "" {
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis unavailable at %s: %v", cfg.Redis.Addr, err)
		client.Close()
		return
	}

	s.redis = client
	s.closers = append(s.closers, client.Close)
	log.Printf("Connected to Redis at %s", cfg.Redis.Addr)
}

func (s *Services) contentCache(cfg *config.Config) cache.ContentCache {
	if s.redis == nil {
		return cache.NopCache{}
	}
	return cache.NewRedisCache(s.redis, cfg.Redis.CacheTTL)
}

func (s *Services) orderLedger(ctx context.Context, cfg *config.Config) (services.OrderLedger, error) {
	if cfg.Database.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory order ledger")
		return repositories.NewMemoryOrderRepository(), nil
	}

	db, err := OpenDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, db.Close)

	if err := db.RunMigrations(); err != nil {
		return nil, err
	}

	return repositories.NewOrderRepository(db.DB), nil
}

// OpenDatabase connects to the configured Postgres database
func OpenDatabase(ctx context.Context, cfg *config.Config) (*database.DB, error) {
	db, err := database.NewConnection(ctx, database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Printf("Database connection established (%s on %s)", cfg.Database.DBName, cfg.Database.Host)
	return db, nil
}
