package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/emissions"
	"github.com/gilby125/flight-emissions-api/pkg/cache"
	"github.com/gilby125/flight-emissions-api/pkg/logger"
	"github.com/gilby125/flight-emissions-api/registry"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, reg *registry.Registry, proc *emissions.Processor, reports *cache.Manager, cfg *config.Config, log *logger.Logger) {
	router.Use(gin.Recovery())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "airports": reg.Len()})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Airport reference routes
		v1.GET("/airports", ListAirports(reg))
		v1.GET("/airports/:code", GetAirport(reg))

		// Single lookup routes
		v1.GET("/distance", GetDistance(proc))
		v1.POST("/estimate", Estimate(proc))

		// Batch upload routes
		v1.POST("/batch", CreateBatch(proc, reports, log))
		v1.GET("/batch/:id", GetBatch(reports))
		v1.GET("/batch/:id/export", ExportBatch(reports))
	}
}
