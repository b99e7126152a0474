// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import "github.com/gin-gonic/gin"

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected is the authenticated route group under /api/v1.
	Protected *gin.RouterGroup
	// AuthRateLimit is the stricter rate limiting middleware for auth routes.
	AuthRateLimit gin.HandlerFunc
}
