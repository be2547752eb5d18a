package http

import (
	"qc_portal_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context with HTTP routes. The router only knows this
// interface; each context mounts its own endpoints.
type Module interface {
	// Name identifies the module in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is everything a module may need when mounting routes, so
// RegisterRoutes stays a one-argument call.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1; Protected is the JWT-guarded group beneath it. Most
	// modules mount under Protected.
	V1        *gin.RouterGroup
	Protected *gin.RouterGroup
	Config    config.JWTConfig
	// AuthMiddleware is exposed for modules that build custom groups.
	AuthMiddleware gin.HandlerFunc
}
