package bootstrap

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	httpapi "github.com/portfolio-dev/portfolio/internal/api/http"
	"github.com/portfolio-dev/portfolio/internal/api/http/middleware"
	"github.com/portfolio-dev/portfolio/internal/client"
	"github.com/portfolio-dev/portfolio/internal/dashboard"
	sitehttp "github.com/portfolio-dev/portfolio/internal/site/http"
)

type SiteDeps struct {
	ServiceName string
	Version     string
	Log         *zap.Logger
	Registry    *prometheus.Registry

	API           *client.Client
	SessionSecret string
	// ThrottlePerSecond bounds how often a visitor may poll the nav highlight.
	ThrottlePerSecond float64
}

// BuildSiteRouter serves the public page and the dashboard.
func BuildSiteRouter(dep SiteDeps) (*gin.Engine, error) {
	log := dep.Log
	if log == nil {
		log = zap.NewNop()
	}

	pages, err := sitehttp.Pages()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.HTMLRender = pages
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID(log))

	if dep.Registry != nil {
		r.Use(middleware.NewHTTPMetrics(dep.Registry, dep.ServiceName).Handler())
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Registry, promhttp.HandlerOpts{})))
	}
	httpapi.NewHealthHandler(dep.ServiceName, dep.Version, nil, nil).RegisterRoutes(r)

	sessions := dashboard.NewSessions(dep.SessionSecret, func() *dashboard.Store {
		return dashboard.NewStore(dep.API, log)
	})
	sitehttp.New(dep.API, sessions, dep.ThrottlePerSecond, log).Register(r)

	return r, nil
}
