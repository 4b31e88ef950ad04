package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // net/http provides status codes and response helpers

	"github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a health‑check endpoint used by load balancers and monitoring
// systems to verify that the service is running.  It always returns
// {"ok": true} with a 200 status and does not touch the document store.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
