// Package router wires HTTP handlers onto a versioned API group.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware applied to the versioned API group
func (r *Router) Use(middleware ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, middleware...)
	return r
}

// Register adds a RouteRegistrar to be registered on Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	if len(r.middleware) > 0 {
		api.Use(r.middleware...)
	}

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
