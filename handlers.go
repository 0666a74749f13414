package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	serviceName = "budget-tracker-api"
	apiVersion  = "1.0.0"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// healthCheck handles the health check endpoint
func healthCheck(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"version": apiVersion,
				"service": serviceName,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": apiVersion,
			"service": serviceName,
		})
	}
}

// root describes where to find the API.
func root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to Budget Tracker API",
		"docs":    "/docs",
		"health":  "/health",
		"version": apiVersion,
	})
}
