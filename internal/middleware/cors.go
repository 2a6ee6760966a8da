package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// allMethods is what "any method" expands to in preflight responses.
var allMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
}

// CORS allows cross-origin requests from the given origins, or from any
// origin when the list is a single "*".  Credentials are always allowed; for
// the wildcard the request's Origin is echoed back, since browsers reject
// "*" on credentialed responses.  Requested headers are mirrored.
func CORS(origins []string) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     origins,
		AllowMethods:     allMethods,
		AllowCredentials: true,
		UnsafeWildcardOriginWithAllowCredentials: len(origins) == 1 && origins[0] == "*",
	})
}
