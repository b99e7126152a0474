// Package router assembles the gin engine from the application modules.
package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	apphttp "lead_crm_backend/internal/http"
	"lead_crm_backend/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const readinessTimeout = 2 * time.Second

// New builds the gin engine: global middleware, operational endpoints and
// every module's routes under /api/v1.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(httpkit.Metrics())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.NoRoute(func(c *gin.Context) {
		httpkit.Error(c, http.StatusNotFound, "not found", nil)
	})

	engine.GET("/api/health", func(c *gin.Context) {
		httpkit.OK(c, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", readiness(app))
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := app.AuthLimiter
	if limiter == nil {
		limiter = httpkit.NewAuthRateLimiter(nil, app.Config.GetAuthRateLimitPerMinute())
	}

	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(httpkit.AuthRequired(app.Config))

	routerCtx := &apphttp.RouterContext{
		V1:            v1,
		Protected:     protected,
		AuthRateLimit: httpkit.RateLimit(limiter, app.Logger),
	}

	for _, module := range app.Modules {
		module.RegisterRoutes(routerCtx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", httpkit.HeaderRequestID},
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
		return corsCfg
	}

	corsCfg.AllowOrigins = cfg.GetCORSOrigins()
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	}
	return corsCfg
}

func readiness(app *apphttp.App) gin.HandlerFunc {
	names := make([]string, 0, len(app.Health))
	for name := range app.Health {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		failed := make(map[string]string)
		for _, name := range names {
			if err := app.Health[name].Ping(ctx); err != nil {
				app.Logger.WithContext(ctx).Warn("readiness check failed", "dependency", name, "error", err.Error())
				failed[name] = "unavailable"
			}
		}

		if len(failed) > 0 {
			httpkit.Error(c, http.StatusServiceUnavailable, "not ready", failed)
			return
		}
		httpkit.OK(c, gin.H{"status": "ready"})
	}
}
