package http

import (
	"net/http"

	"fieldservice/internal/core/domain/model/kernel"
	"fieldservice/internal/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	// HeaderUserID carries the authenticated user id set by the identity gateway.
	HeaderUserID = "X-User-ID"
	// HeaderUserRole carries the authenticated user's role.
	HeaderUserRole = "X-User-Role"

	actorKey = "fieldservice.actor"
)

// ActorMiddleware turns the identity headers into a kernel.Actor. Authentication
// itself happens upstream; requests without identity are refused with 401.
func ActorMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawID := c.Request().Header.Get(HeaderUserID)
			rawRole := c.Request().Header.Get(HeaderUserRole)
			if rawID == "" || rawRole == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderUserID+" or "+HeaderUserRole+" header")
			}

			userID, err := kernel.UUIDFromString(rawID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			role, err := kernel.ParseRole(rawRole)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			actor, err := kernel.NewActor(userID, role)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			ctx := log.WithUserID(c.Request().Context(), userID.String())
			ctx = log.WithActorRole(ctx, string(role))
			c.SetRequest(c.Request().WithContext(ctx))
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// RequestContextMiddleware attaches the request id to the logging context and logs
// each finished request.
func RequestContextMiddleware(log *logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			ctx := log.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)

			ctx = log.WithFields(c.Request().Context(), map[string]any{
				"method": c.Request().Method,
				"path":   c.Path(),
				"status": c.Response().Status,
			})
			log.Debug(ctx, "request served")
			return err
		}
	}
}

func actorOf(c echo.Context) (kernel.Actor, bool) {
	actor, ok := c.Get(actorKey).(kernel.Actor)
	return actor, ok
}
