// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Sessions SessionStore
	Payloads PayloadStore
	Logger   *zap.Logger
	Version  string
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Session SessionHandler
	Upload  UploadHandler
	Stream  StreamHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.Sessions),
		Session: NewSessionHandler(deps.Sessions),
		Upload:  NewUploadHandler(deps.Sessions, deps.Payloads),
		Stream:  NewWebSocketHandler(deps.Sessions, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Session and screen routes
	sessionGroup := e.Group("/api/sessions")
	sessionGroup.POST("", handlers.Session.HandleCreateSession)
	sessionGroup.GET("/:sessionId", handlers.Session.HandleGetSession)
	sessionGroup.GET("/:sessionId/msgpack", handlers.Session.HandleGetSessionMsgpack)
	sessionGroup.PUT("/:sessionId/screen", handlers.Session.HandleNavigate)
	sessionGroup.GET("/:sessionId/ws", handlers.Stream.HandleWebSocket)

	// Upload routes
	fileGroup := sessionGroup.Group("/:sessionId/files")
	fileGroup.POST("", handlers.Upload.HandleUploadFiles)
	fileGroup.POST("/drop", handlers.Upload.HandleDropFiles)
	fileGroup.DELETE("/:fileId", handlers.Upload.HandleRemoveFile)
	fileGroup.GET("/:fileId/content", handlers.Upload.HandleGetFileContent)
}

// MiddlewareConfig selects the optional middleware
type MiddlewareConfig struct {
	EnableCORS       bool
	AllowOrigins     []string
	BodyLimit        string
	RequestLogging   bool
	Compression      bool
	CompressionLevel int
	ShowErrorDetails bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	// Use custom error handler
	e.HTTPErrorHandler = NewErrorHandler(cfg.ShowErrorDetails)

	e.Use(middleware.Recover())

	if cfg.RequestLogging {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			Skipper:    skipQuietPaths,
			LogMethod:  true,
			LogURI:     true,
			LogStatus:  true,
			LogLatency: true,
			LogError:   true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				fields := []zap.Field{
					zap.String("method", v.Method),
					zap.String("uri", v.URI),
					zap.Int("status", v.Status),
					zap.Duration("latency", v.Latency),
				}
				if v.Error != nil {
					log.Warn("request failed", append(fields, zap.Error(v.Error))...)
					return nil
				}
				log.Info("request", fields...)
				return nil
			},
		}))
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		origins := cfg.AllowOrigins
		if len(origins) == 0 {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		}))
	}

	if cfg.Compression {
		e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   cfg.CompressionLevel,
			Skipper: isWebSocket,
		}))
	}
}

func skipQuietPaths(c echo.Context) bool {
	return c.Path() == "/api/health" || isWebSocket(c)
}

func isWebSocket(c echo.Context) bool {
	return strings.HasSuffix(c.Request().URL.Path, "/ws")
}
