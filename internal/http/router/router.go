// Package router builds the gin engine from the composed application.
package router

import (
	"context"
	"net/http"
	"time"

	apphttp "advisory_portal/internal/http"
	"advisory_portal/internal/http/middleware"
	"advisory_portal/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const healthTimeout = 2 * time.Second

// New wires global middleware, health, metrics and every module's routes.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	if len(app.Config.GetCORSOrigins()) > 0 {
		engine.Use(middleware.CORS(app.Config))
	}

	engine.GET("/api/health", health(app.Health))
	if app.Config.IsMetricsEnabled() && app.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := engine.Group("/api/v1")
	admin := v1.Group("/admin")
	admin.Use(httpkit.OperatorRequired(app.Config))

	ctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     v1,
		Admin:  admin,
		Config: app.Config,
	}
	for _, module := range app.Modules {
		module.RegisterRoutes(ctx)
		app.Logger.Debug("module routes registered", "module", module.Name())
	}

	return engine
}

func health(checker apphttp.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
