package http

import (
	"context"
	"net/http"

	"fieldservice/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// RouterOptions carries the infrastructure endpoints of the router.
type RouterOptions struct {
	Log *logger.Logger
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Ping reports storage health for /health when set.
	Ping func(ctx context.Context) error
}

// NewRouter builds the echo instance: API routes under /api/v1, plus /health,
// /metrics, /openapi.json and the swagger UI.
func NewRouter(server *Server, opts RouterOptions) (*echo.Echo, error) {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	log = log.Component("http")

	doc, err := LoadOpenAPI()
	if err != nil {
		return nil, err
	}
	rawDoc, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	registerSwagger(rawDoc)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewRequestValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.Use(middleware.Recover(), middleware.RequestID(), RequestContextMiddleware(log))

	e.GET("/health", func(c echo.Context) error {
		if opts.Ping != nil {
			if pingErr := opts.Ping(c.Request().Context()); pingErr != nil {
				log.Warn(c.Request().Context(), "health check failed", pingErr)
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics))
	}
	e.GET("/openapi.json", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, rawDoc)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	server.Register(e.Group("/api/v1", ActorMiddleware(log)))
	return e, nil
}
