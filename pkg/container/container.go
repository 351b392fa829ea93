package container

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/internal/infrastructure/email"
	"portfolio-backend/internal/infrastructure/gemini"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/pkg/cache"
	"portfolio-backend/pkg/jwt"

	infraCache "portfolio-backend/internal/infrastructure/cache"

	// Admin domain
	"portfolio-backend/internal/domains/admin"
	adminHandler "portfolio-backend/internal/domains/admin/handler"
	adminRepo "portfolio-backend/internal/domains/admin/repository"
	adminService "portfolio-backend/internal/domains/admin/service"

	// Blog domain
	"portfolio-backend/internal/domains/blog"
	blogHandler "portfolio-backend/internal/domains/blog/handler"
	blogRepo "portfolio-backend/internal/domains/blog/repository"
	"portfolio-backend/internal/domains/blog/search"
	blogService "portfolio-backend/internal/domains/blog/service"

	// Portfolio domain
	"portfolio-backend/internal/domains/portfolio"
	portfolioHandler "portfolio-backend/internal/domains/portfolio/handler"
	portfolioRepo "portfolio-backend/internal/domains/portfolio/repository"
	portfolioService "portfolio-backend/internal/domains/portfolio/service"

	// Query domain
	"portfolio-backend/internal/domains/query"
	queryHandler "portfolio-backend/internal/domains/query/handler"
	queryRepo "portfolio-backend/internal/domains/query/repository"
	queryService "portfolio-backend/internal/domains/query/service"

	// Chatbot domain
	"portfolio-backend/internal/domains/chatbot"
	chatbotHandler "portfolio-backend/internal/domains/chatbot/handler"
	chatbotService "portfolio-backend/internal/domains/chatbot/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph shared by the API, the
// worker and the admin CLI.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient
	Cache       cache.Cache
	RateLimiter *redis_rate.Limiter
	JWTManager  *jwt.Manager
	Notifier    email.Notifier
	Storage     storage.ObjectStorage // nil when MinIO is unreachable
	Images      *storage.ImageProcessor
	SearchIndex *search.Index
	AsynqClient *asynq.Client // nil unless QUERY_NOTIFY_MODE=queue
	Gemini      *gemini.Client

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AdminRepo     admin.Repository
	BlogRepo      blog.Repository
	PortfolioRepo portfolio.Repository
	QueryRepo     query.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthService      admin.Service
	BlogService      blog.Service
	PortfolioService portfolio.Service
	QueryDispatcher  query.Dispatcher
	QueryService     query.Service
	ChatbotService   chatbot.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthHandler      *adminHandler.AuthHandler
	BlogHandler      *blogHandler.BlogHandler
	PortfolioHandler *portfolioHandler.PortfolioHandler
	QueryHandler     *queryHandler.QueryHandler
	ChatbotHandler   *chatbotHandler.ChatbotHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the graph in dependency order:
// infrastructure, repositories, services, handlers.
func NewContainer(cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Msg("initializing container")

	c := &Container{Config: cfg}

	// ========================================
	// STEP 1: DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 2: REDIS (cache, challenges, rate limits)
	// ========================================
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		// public pages still work without Redis; admin login does not
		log.Warn().Err(err).Msg("redis unavailable (non-critical)")
	}
	c.Cache = cache.NewRedisCache(c.Redis.Client, "")
	if cfg.RateLimit.Enabled {
		c.RateLimiter = redis_rate.NewLimiter(c.Redis.Client)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.SessionExpiry)*time.Minute)

	// ========================================
	// STEP 3: OUTBOUND SERVICES
	// ========================================
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}

	// ========================================
	// STEP 4: REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 5: SERVICES
	// ========================================
	if err := c.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	// ========================================
	// STEP 6: HANDLERS
	// ========================================
	c.initHandlers()

	log.Info().Msg("container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	// Email
	renderer, err := email.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}
	c.Notifier = email.NewNotifier(cfg.Email.Enabled, renderer, newTransport(cfg.Email))

	// Object storage is optional: uploads answer 503 without it
	c.Images = storage.NewImageProcessor()
	minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		log.Warn().Err(err).Msg("object storage unavailable, uploads disabled")
	} else {
		c.Storage = minioStorage
	}

	// Search
	if cfg.Search.IndexPath != "" {
		c.SearchIndex, err = search.Open(cfg.Search.IndexPath)
	} else {
		c.SearchIndex, err = search.NewMemOnly()
	}
	if err != nil {
		return fmt.Errorf("failed to open search index: %w", err)
	}

	// Queue client only when notifications go through the worker
	if cfg.Notify.Mode == "queue" {
		c.AsynqClient = asynq.NewClient(RedisConnOpt(cfg.Redis))
	}

	c.Gemini = gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	})
	return nil
}

func newTransport(cfg config.EmailConfig) email.Transport {
	if cfg.Provider == "brevo" {
		return email.NewBrevoTransport(email.BrevoConfig{
			APIKey:   cfg.BrevoAPIKey,
			BaseURL:  cfg.BrevoBaseURL,
			From:     cfg.From,
			FromName: cfg.FromName,
			Timeout:  cfg.Timeout,
		})
	}
	return email.NewSMTPTransport(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		UseSSL:   cfg.SMTPUseSSL,
		From:     cfg.From,
		FromName: cfg.FromName,
		Timeout:  cfg.Timeout,
	})
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AdminRepo = adminRepo.NewPostgresRepository(pool)
	c.BlogRepo = blogRepo.NewPostgresRepository(pool)
	c.PortfolioRepo = portfolioRepo.NewPostgresRepository(pool)
	c.QueryRepo = queryRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() error {
	cfg := c.Config

	c.AuthService = adminService.NewAuthService(
		c.AdminRepo,
		adminRepo.NewChallengeStore(c.Cache),
		c.Notifier,
		c.JWTManager,
		cfg.Admin.ChallengeTTL,
	)

	c.BlogService = blogService.NewBlogService(c.BlogRepo, c.SearchIndex, c.Storage, c.Images)

	c.PortfolioService = portfolioService.NewPortfolioService(c.PortfolioRepo, c.Cache, c.Storage)

	if c.AsynqClient != nil {
		c.QueryDispatcher = queryService.NewQueueDispatcher(c.AsynqClient, cfg.Notify.AdminEmail)
	} else {
		c.QueryDispatcher = queryService.NewInlineDispatcher(c.Notifier, cfg.Notify.AdminEmail, cfg.Notify.Timeout)
	}
	c.QueryService = queryService.NewQueryService(c.QueryRepo, c.QueryDispatcher)

	c.ChatbotService = chatbotService.NewChatbotService(c.PortfolioService, c.Gemini, cfg.Gemini.Persona)

	return nil
}

func (c *Container) initHandlers() {
	c.AuthHandler = adminHandler.NewAuthHandler(
		c.AuthService,
		c.JWTManager,
		c.Config.Admin.ChallengeTTL,
		c.Config.Admin.CookieSecure,
	)
	c.BlogHandler = blogHandler.NewBlogHandler(c.BlogService)
	c.PortfolioHandler = portfolioHandler.NewPortfolioHandler(c.PortfolioService)
	c.QueryHandler = queryHandler.NewQueryHandler(c.QueryService)
	c.ChatbotHandler = chatbotHandler.NewChatbotHandler(c.ChatbotService)
}

// ========================================
// HELPER METHODS
// ========================================

// RedisConnOpt converts the Redis settings for asynq.
func RedisConnOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// WarmUp rebuilds the search index from the database.
func (c *Container) WarmUp(ctx context.Context) {
	if err := c.BlogService.RebuildIndex(ctx); err != nil {
		log.Error().Err(err).Msg("search index rebuild failed")
	}
}

// Cleanup releases resources in reverse order. In-flight notification
// emails are awaited first.
func (c *Container) Cleanup() {
	log.Info().Msg("cleaning up container resources")

	if c.QueryDispatcher != nil {
		c.QueryDispatcher.Wait()
	}
	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close asynq client")
		}
	}
	if c.SearchIndex != nil {
		if err := c.SearchIndex.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close search index")
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
