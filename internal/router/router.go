package router // package router defines how HTTP routes are registered for the API

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/reliefmap/relief-camps/internal/config"
	"github.com/reliefmap/relief-camps/internal/handler"
)

// New creates the Echo instance with the global middleware stack and all
// routes registered.  limiter guards camp creation only; pass nil for none.
func New(cfg config.Config, camps *handler.CampHandler, limiter echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	bodyLimit := cfg.BodyLimit
	if bodyLimit == "" {
		bodyLimit = "1M"
	}

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	// Every origin, every route.
	e.Use(echomw.CORS())

	RegisterRoutes(e, camps, bodyLimit, limiter)
	return e
}

// RegisterRoutes mounts the API under /api.  The health check skips the
// limiter and the body cap so it answers 200 whatever the client sends.
func RegisterRoutes(e *echo.Echo, camps *handler.CampHandler, bodyLimit string, limiter echo.MiddlewareFunc) {
	api := e.Group("/api")
	api.GET("/health", handler.Health)

	mws := []echo.MiddlewareFunc{echomw.BodyLimit(bodyLimit)}
	if limiter != nil {
		mws = append(mws, limiter)
	}
	api.POST("/camps", camps.CreateCamp, mws...)
}

func logLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
