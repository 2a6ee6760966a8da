package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/a2eg/a2eg-backend/internal/model"
)

// Greeting and health bodies never change between requests.
const (
	RootMessage  = "Hello from FastAPI Backend!"
	HelloMessage = "Hello from the backend API!"
	HealthStatus = "ok"
)

// Root answers GET / with the service greeting.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, model.GreetingResponse{Message: RootMessage})
}

// Hello answers GET /api/hello.
func Hello(c echo.Context) error {
	return c.JSON(http.StatusOK, model.GreetingResponse{Message: HelloMessage})
}

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.  It returns
// {"status": "ok"} with an HTTP 200 status code and never touches the
// database.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, model.HealthResponse{Status: HealthStatus})
}
