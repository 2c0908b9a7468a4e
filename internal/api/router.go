package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gosignal/internal/config"
	"github.com/jonesrussell/gosignal/internal/content"
	"github.com/jonesrussell/gosignal/internal/indexing"
	"github.com/jonesrussell/gosignal/internal/logger"
	"github.com/jonesrussell/gosignal/internal/metrics"
	"github.com/jonesrussell/gosignal/internal/seo"
)

const (
	healthStatusHealthy  = "healthy"
	healthStatusDegraded = "degraded"
	healthCheckTimeout   = 2 * time.Second
	serviceVersion       = "1.0.0"
)

// Pinger reports database connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Router holds the API dependencies
type Router struct {
	content     *content.Service
	indexer     *indexing.Service
	seo         *seo.Service
	db          Pinger
	redisClient redis.UniversalClient
	cfg         *config.Config
	logger      logger.Logger
}

// NewRouter creates a new API router
func NewRouter(
	contentSvc *content.Service,
	indexer *indexing.Service,
	seoSvc *seo.Service,
	db Pinger,
	redisClient redis.UniversalClient,
	cfg *config.Config,
	log logger.Logger,
) *Router {
	return &Router{
		content:     contentSvc,
		indexer:     indexer,
		seo:         seoSvc,
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		logger:      log,
	}
}

// SetupRoutes builds the gin engine with middleware and all routes.
func (r *Router) SetupRoutes() *gin.Engine {
	if !r.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(recoveryMiddleware(r.logger))
	router.Use(loggerMiddleware(r.logger))
	router.Use(corsMiddleware(r.cfg.Server.CORSOrigins))

	// Public surface: health, metrics, crawl artifacts, key verification.
	router.GET("/health", r.healthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/sitemap.xml", r.getSitemap)
	router.GET("/rss.xml", r.getRSS)
	router.GET("/atom.xml", r.getAtom)
	router.GET("/robots.txt", r.getRobots)
	// The key file path is fixed at startup; the verification route is
	// registered literally rather than via a path parameter.
	router.GET("/"+r.indexer.Key()+".txt", r.getIndexNowKey)

	r.setupServiceRoutes(router)

	return router
}

// setupServiceRoutes configures the /api/v1 surface.
func (r *Router) setupServiceRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	posts := v1.Group("/posts")
	posts.GET("", r.listBlogPosts)
	posts.POST("", r.createBlogPost)
	posts.GET("/slug/:slug", r.getBlogPostBySlug) // More specific route before :id
	posts.GET("/:id", r.getBlogPost)
	posts.PUT("/:id", r.updateBlogPost)
	posts.DELETE("/:id", r.deleteBlogPost)

	signals := v1.Group("/signals")
	signals.GET("", r.listSignals)
	signals.POST("", r.createSignal)
	signals.GET("/slug/:slug", r.getSignalBySlug)
	signals.GET("/:id", r.getSignal)
	signals.PUT("/:id", r.updateSignal)
	signals.DELETE("/:id", r.deleteSignal)

	categories := v1.Group("/categories")
	categories.GET("", r.listCategories)
	categories.POST("", r.createCategory)
	categories.GET("/:id", r.getCategory)
	categories.PUT("/:id", r.updateCategory)
	categories.DELETE("/:id", r.deleteCategory)

	idx := v1.Group("/indexing")
	idx.POST("/submit", r.submitURLs)
	idx.POST("/resubmit", r.resubmitAll)
	idx.GET("/stats", r.getIndexingStats)
	idx.GET("/history", r.getIndexingHistory)
	idx.GET("/key", r.getIndexNowKeyInfo)

	meta := v1.Group("/meta")
	meta.GET("/posts/:slug", r.getBlogPostMeta)
	meta.GET("/signals/:slug", r.getSignalMeta)
	meta.GET("/categories/:slug", r.getCategoryMeta)
	meta.GET("/site", r.getSiteMeta)
}

// healthCheck returns the service health status
func (r *Router) healthCheck(c *gin.Context) {
	health := gin.H{
		"status":  healthStatusHealthy,
		"service": "gosignal",
		"version": serviceVersion,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	dbConnected := true
	if err := r.db.Ping(ctx); err != nil {
		dbConnected = false
		health["status"] = healthStatusDegraded
	}
	health["database"] = gin.H{"connected": dbConnected}

	redisHealth := r.checkRedisHealth(ctx)
	health["redis"] = redisHealth
	if connected, ok := redisHealth["connected"].(bool); ok && !connected {
		if health["status"] == healthStatusHealthy {
			health["status"] = healthStatusDegraded
		}
	}

	c.JSON(200, health)
}

// checkRedisHealth checks Redis connection and returns health info
func (r *Router) checkRedisHealth(ctx context.Context) gin.H {
	if r.redisClient == nil {
		// Redis is optional; without it quota and caches run in memory.
		return gin.H{"connected": false, "configured": false}
	}
	if err := r.redisClient.Ping(ctx).Err(); err != nil {
		return gin.H{"connected": false, "configured": true, "error": err.Error()}
	}
	return gin.H{"connected": true, "configured": true}
}
