package httptransport

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"

	"todolist-server-go/internal/platform/config"
)

// Options configures the HTTP router builder.
type Options struct {
	Config         *config.Config
	Logger         *slog.Logger
	AuthMiddleware gin.HandlerFunc
	StaticRoot     string
}

// Router bundles together the gin engine and common route groups.
// Open hosts routes reachable without credentials, Secured sits behind
// the access filter plus the deny-by-default guard.
type Router struct {
	Engine  *gin.Engine
	Open    *gin.RouterGroup
	Secured *gin.RouterGroup
}

// Build constructs a gin engine pre-configured with logging, recovery and
// CORS middlewares.
func Build(opts Options) (*Router, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("http router requires config")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(loggingMiddleware(logger))

	engine.SetTrustedProxies([]string{"0.0.0.0"})

	origins := opts.Config.Web.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	engine.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"access",
			"refresh",
		},
		// The frontend reads the fresh access token off the response.
		ExposeHeaders:    []string{"Content-Length", "access"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	staticRoot := opts.StaticRoot
	if staticRoot == "" {
		staticRoot = opts.Config.Web.StaticDir
	}
	if staticRoot != "" {
		engine.Use(static.Serve("/", static.LocalFile(staticRoot, true)))
	}

	open := engine.Group("")
	var secured *gin.RouterGroup
	if opts.AuthMiddleware != nil {
		secured = engine.Group("")
		secured.Use(opts.AuthMiddleware, RequireAuth())
	}

	engine.NoRoute(func(c *gin.Context) {
		RespondError(c, http.StatusNotFound, "resource not found", nil)
	})

	return &Router{
		Engine:  engine,
		Open:    open,
		Secured: secured,
	}, nil
}

func loggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", duration,
		)
	}
}
