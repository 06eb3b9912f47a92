package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/subject-catalog/internal/config"
	"github.com/stemsi/subject-catalog/internal/handler"
	"github.com/stemsi/subject-catalog/internal/middleware"
	"github.com/stemsi/subject-catalog/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Subject *handler.SubjectHandler
	System  *handler.SystemHandler
}

// SetupRouter configures the Gin engine. writeLimiter may be nil, in which
// case mutating routes are not rate limited.
func SetupRouter(
	handlers *Handlers,
	writeLimiter middleware.Limiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// Request ID first so recovery and logging can report it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestLogger(log))

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	// X-Total-Count must be exposed or browsers cannot read the list total.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderTotalCount, response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(middleware.Brotli())

	router.GET("/health", handlers.System.Health)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	writes := []gin.HandlerFunc{}
	if writeLimiter != nil {
		writes = append(writes, middleware.RateLimit(writeLimiter, log))
	}

	api := router.Group("/api")
	api.Use(middleware.CacheControl("no-store"))
	{
		api.GET("/teachers", handlers.Subject.Teachers)

		subjects := api.Group("/subjects")
		{
			subjects.GET("", handlers.Subject.List)
			subjects.GET("/:id", handlers.Subject.Get)
			subjects.POST("", append(writes, handlers.Subject.Create)...)
			subjects.PUT("/:id", append(writes, handlers.Subject.Update)...)
			subjects.DELETE("/:id", append(writes, handlers.Subject.Delete)...)
		}
	}

	return router
}
