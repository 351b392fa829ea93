package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	adminHandler "portfolio-backend/internal/domains/admin/handler"
	"portfolio-backend/internal/domains/portfolio"
	"portfolio-backend/internal/shared/middleware"
	"portfolio-backend/pkg/container"
)

// SetupRouter mounts every route on a fresh gin engine.
func SetupRouter(c *container.Container) (*gin.Engine, error) {
	router := gin.New()

	tmpl, err := adminHandler.Templates()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(tmpl)

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Metrics(),
		middleware.Logger(),
		middleware.CORS(c.Config.App.CORSOrigins),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupPortfolioRoutes(api, c)
		setupBlogRoutes(api, c)
		setupQueryRoutes(api, c)
		setupChatbotRoutes(api, c)
		setupAdminAPIRoutes(api, c)
	}

	setupAdminPages(router, c)

	return router, nil
}

func publicLimit(c *container.Container) redis_rate.Limit {
	return redis_rate.PerMinute(c.Config.RateLimit.PerMinute)
}

// ========================================
// PORTFOLIO ROUTES
// ========================================
func setupPortfolioRoutes(api *gin.RouterGroup, c *container.Container) {
	h := c.PortfolioHandler

	api.GET("/personal-data/", h.PersonalData)

	for path, fn := range map[string]gin.HandlerFunc{
		"/skills/":       h.Skills,
		"/experience/":   h.Experience,
		"/projects/":     h.Projects,
		"/achievements/": h.Achievements,
	} {
		api.GET(path, fn)
		api.HEAD(path, fn)
	}
}

// ========================================
// BLOG ROUTES
// ========================================
func setupBlogRoutes(api *gin.RouterGroup, c *container.Container) {
	blog := api.Group("/blog")
	{
		blog.GET("/", c.BlogHandler.List)
		blog.GET("/categories/", c.BlogHandler.Categories)
		blog.GET("/by_category/", c.BlogHandler.ByCategory)
		blog.GET("/search/", c.BlogHandler.Search)
		blog.GET("/:slug/", c.BlogHandler.Detail)
	}
}

// ========================================
// SERVICE QUERY ROUTES
// ========================================
func setupQueryRoutes(api *gin.RouterGroup, c *container.Container) {
	api.POST("/service-query/",
		middleware.RateLimit(c.RateLimiter, "service-query", publicLimit(c)),
		c.QueryHandler.Submit,
	)
}

// ========================================
// CHATBOT ROUTES
// ========================================
func setupChatbotRoutes(api *gin.RouterGroup, c *container.Container) {
	chatbot := api.Group("/chatbot")
	chatbot.Use(middleware.RateLimit(c.RateLimiter, "chatbot", publicLimit(c)))
	{
		chatbot.POST("/", c.ChatbotHandler.Ask)
		chatbot.POST("/stream/", c.ChatbotHandler.Stream)
	}
}

// ========================================
// ADMIN JSON API
// ========================================
func setupAdminAPIRoutes(api *gin.RouterGroup, c *container.Container) {
	admin := api.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.AdminMiddleware(),
	)

	p := c.PortfolioHandler
	{
		admin.GET("/profile/", p.AdminGetProfile)
		admin.PUT("/profile/", p.AdminUpdateProfile)
		admin.POST("/profile/resume/", p.UploadResume)

		admin.GET("/skills/", p.AdminSkills)
		admin.POST("/skills/", p.CreateSkill)
		admin.PUT("/skills/:id/", p.UpdateSkill)
		admin.DELETE("/skills/:id/", p.Delete(portfolio.KindSkills))

		admin.GET("/experience/", p.AdminExperience)
		admin.POST("/experience/", p.CreateExperience)
		admin.PUT("/experience/:id/", p.UpdateExperience)
		admin.DELETE("/experience/:id/", p.Delete(portfolio.KindExperience))

		admin.GET("/projects/", p.AdminProjects)
		admin.POST("/projects/", p.CreateProject)
		admin.PUT("/projects/:id/", p.UpdateProject)
		admin.DELETE("/projects/:id/", p.Delete(portfolio.KindProjects))

		admin.GET("/achievements/", p.AdminAchievements)
		admin.POST("/achievements/", p.CreateAchievement)
		admin.PUT("/achievements/:id/", p.UpdateAchievement)
		admin.DELETE("/achievements/:id/", p.Delete(portfolio.KindAchievements))
	}

	b := c.BlogHandler
	blog := admin.Group("/blog")
	{
		blog.GET("/", b.AdminList)
		blog.POST("/", b.AdminCreate)
		blog.POST("/publish/", b.Publish)
		blog.POST("/unpublish/", b.Unpublish)
		blog.GET("/:id/", b.AdminGet)
		blog.PUT("/:id/", b.AdminUpdate)
		blog.DELETE("/:id/", b.AdminDelete)
		blog.POST("/:id/image/", b.UploadImage)
	}

	q := c.QueryHandler
	queries := admin.Group("/queries")
	{
		queries.GET("/", q.List)
		queries.GET("/export/", q.Export)
		queries.GET("/:id/", q.Get)
	}
}

// ========================================
// ADMIN HTML PAGES
// ========================================
func setupAdminPages(router *gin.Engine, c *container.Container) {
	h := c.AuthHandler

	router.GET(adminHandler.LoginPath, h.LoginPage)
	router.POST(adminHandler.LoginPath,
		middleware.RateLimit(c.RateLimiter, "admin-login", redis_rate.PerMinute(10)),
		h.Login,
	)
	router.POST("/admin/logout/", h.Logout)
	router.GET(adminHandler.DashboardPath,
		middleware.PageAuthMiddleware(c.JWTManager, adminHandler.LoginPath),
		h.Dashboard,
	)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := gin.H{"database": "up", "redis": "up", "search": "up"}

		if err := c.DB.HealthCheck(checkCtx); err != nil {
			checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		}
		// redis degrades the admin login only
		if err := c.Redis.HealthCheck(checkCtx); err != nil {
			checks["redis"] = err.Error()
		}

		docs, err := c.SearchIndex.Count()
		if err != nil {
			checks["search"] = err.Error()
		}

		ctx.JSON(status, gin.H{
			"status":        http.StatusText(status),
			"version":       c.Config.App.Version,
			"checks":        checks,
			"indexed_posts": docs,
		})
	}
}
