package router // package router builds the echo instance and registers the HTTP routes

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/a2eg/a2eg-backend/internal/config"
	"github.com/a2eg/a2eg-backend/internal/database"
	"github.com/a2eg/a2eg-backend/internal/handler"    // import the handlers that answer each route
	"github.com/a2eg/a2eg-backend/internal/logging"
	"github.com/a2eg/a2eg-backend/internal/metrics"
	"github.com/a2eg/a2eg-backend/internal/middleware" // CORS, logging and cache middleware
)

// Deps are the collaborators resolved by main before the server starts.
// Every field is optional.
type Deps struct {
	DB      database.Provider  // database collaborator probed by /test
	Redis   *redis.Client      // response cache backend
	Metrics *metrics.Collector // request and probe metrics
}

// New returns an echo instance with the middleware chain and every route
// registered.
func New(cfg *config.Config, deps Deps) *echo.Echo {
	logger := logging.Named(logging.ServiceName)
	access := logging.Named(logging.ServiceName + ".access")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = compactJSONSerializer{}
	e.HTTPErrorHandler = middleware.ErrorHandler(e, logger)

	// Outermost first: the access log must see the final status, and
	// panics are recovered before anything else sees them.
	e.Use(middleware.RequestID())
	e.Use(middleware.AccessLog(access))
	if cfg.Metrics.Enabled && deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
	}
	e.Use(middleware.CORS(cfg.AllowedOrigins()))
	e.Use(middleware.Recover())

	var store middleware.CacheStore
	if deps.Redis != nil {
		store = middleware.RedisStore{Client: deps.Redis}
	}
	cache := middleware.ResponseCache(cfg.Cache, store, logger)

	var probes handler.ProbeRecorder
	if deps.Metrics != nil {
		probes = deps.Metrics
	}
	RegisterRoutes(e, handler.NewDiagnosticHandler(deps.DB, probes, logger), cache)

	if cfg.Metrics.Enabled && deps.Metrics != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(deps.Metrics.Handler()))
	}
	return e
}

// RegisterRoutes registers the four public GET endpoints.  The greeting
// routes go through the response cache; the health check and the
// diagnostic endpoint always run live.
func RegisterRoutes(e *echo.Echo, d *handler.DiagnosticHandler, cache echo.MiddlewareFunc) {
	e.GET("/", handler.Root, cache)
	e.GET("/api/hello", handler.Hello, cache)
	// Load balancers and monitoring systems poll /healthz.
	e.GET("/healthz", handler.Health)
	// Manual inspection of the database collaborator.
	e.GET("/test", d.Test)
}

// compactJSONSerializer ignores echo's ?pretty switch so a response body
// never depends on the query string.
type compactJSONSerializer struct {
	echo.DefaultJSONSerializer
}

func (s compactJSONSerializer) Serialize(c echo.Context, i interface{}, _ string) error {
	return s.DefaultJSONSerializer.Serialize(c, i, "")
}
