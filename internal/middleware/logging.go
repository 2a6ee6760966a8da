package middleware

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestID tags every response with an X-Request-ID header, keeping the
// caller's value when one is sent.
func RequestID() echo.MiddlewareFunc {
	return echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// AccessLog writes one line per request: method, URI, status, latency and
// request ID, all inside the message.  Handler errors are rendered first so
// the logged status is the one the client saw.
func AccessLog(logger *zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info().Msgf("%s %s %d %s request_id=%s",
				v.Method, v.URI, v.Status, v.Latency, v.RequestID)
			return nil
		},
	})
}

// Recover turns panics into errors handled by the HTTP error handler.
func Recover() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisablePrintStack: true,
	})
}

// ErrorHandler logs server-side failures with the error attached as
// exc_info and then renders the response with echo's default handler.
// Client errors (4xx) are rendered without being logged.
func ErrorHandler(e *echo.Echo, logger *zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
		}
		if code >= http.StatusInternalServerError {
			req := c.Request()
			logger.Error().Err(err).Msgf("error handling %s %s", req.Method, req.URL.Path)
		}
		e.DefaultHTTPErrorHandler(err, c)
	}
}
