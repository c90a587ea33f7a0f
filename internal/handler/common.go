// Package handler exposes the thin HTTP surface over the reservation
// core. Handlers bind and validate transport-level input, call the
// reservation service, and translate its error kinds into status codes
// and the success/error/message response contract. No booking rule
// lives here.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/workspace-reservation/internal/service"
)

// getUserID extracts the authenticated user ID that JWTAuth stored in
// the context and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	}
	return 0, errors.New("invalid user_id in context")
}

// statusFor maps a service error kind to its HTTP status code.
func statusFor(kind string) int {
	switch kind {
	case "invalid_input":
		return http.StatusBadRequest
	case "not_authorized":
		return http.StatusForbidden
	case "not_found":
		return http.StatusNotFound
	case "conflict", "invalid_state":
		return http.StatusConflict
	case "transient":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the failure contract for a service error: a success flag,
// a machine-checkable error kind, and a human-readable message clients
// may render but must never branch on.
func fail(c echo.Context, err error) error {
	kind := service.Kind(err)
	return c.JSON(statusFor(kind), echo.Map{
		"success": false,
		"error":   kind,
		"message": err.Error(),
	})
}
