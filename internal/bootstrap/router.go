package bootstrap

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/portfolio-dev/portfolio/internal/api/http"
	"github.com/portfolio-dev/portfolio/internal/api/http/middleware"
	authhttp "github.com/portfolio-dev/portfolio/internal/auth/http"
	authmw "github.com/portfolio-dev/portfolio/internal/auth/middleware"
	authservice "github.com/portfolio-dev/portfolio/internal/auth/service"
	"github.com/portfolio-dev/portfolio/internal/cache"
	cataloghttp "github.com/portfolio-dev/portfolio/internal/catalog/http"
	catalogservice "github.com/portfolio-dev/portfolio/internal/catalog/service"
	profilehttp "github.com/portfolio-dev/portfolio/internal/profile/http"
	profileservice "github.com/portfolio-dev/portfolio/internal/profile/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	CORSOrigins []string
	Log         *zap.Logger
	Registry    *prometheus.Registry

	DB    *sqlx.DB
	Cache *cache.ListCache

	Catalog      *catalogservice.CatalogService
	Profiles     *profileservice.ProfileService
	Auth         *authservice.AuthService
	LoginLimiter *authmw.IPRateLimiter

	// FilesDir is served under /files when uploads are stored locally.
	FilesDir string
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	log := dep.Log
	if log == nil {
		log = zap.NewNop()
	}
	httpapi.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))
	r.Use(cors.New(corsConfig(dep.CORSOrigins)))

	if dep.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(dep.Registry, dep.ServiceName).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}

	var dbCheck, cacheCheck httpapi.Pinger
	if dep.DB != nil {
		dbCheck = dep.DB
	}
	if dep.Cache != nil {
		cacheCheck = httpapi.PingFunc(dep.Cache.Ping)
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbCheck, cacheCheck).RegisterRoutes(r)

	if dep.FilesDir != "" {
		r.Static("/files", dep.FilesDir)
	}

	api := r.Group("/api")
	cataloghttp.New(dep.Catalog).Register(api)
	authhttp.New(dep.Auth, dep.LoginLimiter, log).Register(api)

	profiles := profilehttp.New(dep.Profiles, log)
	profiles.RegisterAPI(api)
	profiles.RegisterImages(r.Group("/images"))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
