package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.adminSvc.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.adminSvc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}
