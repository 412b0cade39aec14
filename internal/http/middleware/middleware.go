// Package middleware holds the engine-wide middleware that depends on router configuration.
package middleware

import (
	"time"

	"advisory_portal/platform/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the intake form and the admin dashboard origins.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.GetCORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	})
}

