// Package api serves the bell over HTTP.
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/urmzd/singingbell/pkg/api/handlers"
)

// ShutdownTimeout bounds graceful shutdown of open connections.
const ShutdownTimeout = 5 * time.Second

// Router holds the Gin engine and dependencies
type Router struct {
	engine    *gin.Engine
	submitter handlers.Submitter
	actuator  handlers.Connector
	loop      handlers.Liveness
	mcp       http.Handler
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithMCP mounts an MCP handler on /mcp.
func WithMCP(h http.Handler) RouterOption {
	return func(r *Router) {
		r.mcp = h
	}
}

// NewRouter creates a new API router
func NewRouter(submitter handlers.Submitter, actuator handlers.Connector, loop handlers.Liveness, opts ...RouterOption) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	SetupMiddleware(engine)

	router := &Router{
		engine:    engine,
		submitter: submitter,
		actuator:  actuator,
		loop:      loop,
	}
	for _, opt := range opts {
		opt(router)
	}

	router.setupRoutes()

	return router
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	healthHandler := handlers.NewHealthHandler(r.actuator, r.loop)
	r.engine.GET("/health", healthHandler.Health)

	deviceHandler := handlers.NewDeviceHandler(r.submitter)
	api := r.engine.Group("/api")
	{
		api.GET("/status", deviceHandler.Status)
		api.PUT("/calibrate", deviceHandler.Calibrate)
		api.PUT("/chime", deviceHandler.Chime)
		api.GET("/history", deviceHandler.History)
	}

	if r.mcp != nil {
		r.engine.Any("/mcp", gin.WrapH(r.mcp))
	}
}

// Handler returns the router as an http.Handler
func (r *Router) Handler() http.Handler {
	return r.engine
}

// Serve answers requests on ln until ctx ends, then shuts down gracefully.
func (r *Router) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
