package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/catalog"
	"github.com/bizdir/backend/internal/config"
	"github.com/bizdir/backend/internal/routing"
	"github.com/bizdir/backend/internal/security"
	"github.com/bizdir/backend/internal/server/handlers"
	"github.com/bizdir/backend/internal/server/mw"
	"github.com/bizdir/backend/internal/server/resp"
	"github.com/bizdir/backend/internal/server/swaggerui"
)

// Dependencies are built once in app.Run. Cache, Limiter, Denylist and
// Revoker are optional.
type Dependencies struct {
	Catalog    *catalog.Catalog
	Businesses handlers.BusinessStore
	Cache      handlers.ListingCache
	Limiter    mw.Limiter
	Denylist   mw.Denylist
	Revoker    handlers.Revoker
	JWT        *security.JWTManager
}

func NewRouter(cfg config.Config, deps Dependencies, logger *zap.Logger) http.Handler {
	if cfg.IsLocal() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.RequestID())
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.SecurityHeaders())
	r.Use(cors.New(corsConfig(cfg.Server.AllowOrigins)))
	if deps.Limiter != nil && cfg.Security.RateLimitRPS > 0 {
		r.Use(mw.RateLimit(deps.Limiter, cfg.Security.RateLimitRPS, logger))
	}

	r.NoRoute(func(c *gin.Context) {
		resp.Error(c, http.StatusNotFound, "not found")
	})

	r.GET("/health", handlers.Health)

	v1 := r.Group("/v1")
	v1.GET("/categories", handlers.Categories(deps.Catalog))
	swaggerui.Register(r)

	adminH := handlers.NewAdminHandler(logger, deps.Catalog, deps.Businesses, deps.Cache, deps.JWT, deps.Revoker)
	admin := v1.Group("/admin")
	admin.Use(mw.RequireAdmin(deps.JWT, deps.Denylist, logger))
	admin.POST("/businesses", adminH.Create)
	admin.PATCH("/businesses/:id", adminH.Patch)
	admin.DELETE("/businesses/:id", adminH.Delete)
	admin.POST("/logout", adminH.Logout)

	// Directory pages. The second segment is ambiguous (category or
	// business) and is resolved by the classifier, not by the route table.
	dirH := handlers.NewDirectoryHandler(logger, deps.Catalog, routing.NewClassifier(deps.Catalog), deps.Businesses, deps.Cache)
	r.GET(routing.FallbackPath, dirH.Index)
	r.GET("/:locality", dirH.Locality)
	r.GET("/:locality/:segment", dirH.Page)

	return r
}

// corsConfig allows every origin when the list is empty or contains "*".
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type", mw.HeaderRequestID},
		ExposeHeaders: []string{mw.HeaderRequestID},
	}
	for _, o := range origins {
		if o == "*" {
			cc.AllowAllOrigins = true
			return cc
		}
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	return cc
}
