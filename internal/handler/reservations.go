package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/internal/model"
	"github.com/openshelf/openshelf/pkg/auth"
	"github.com/openshelf/openshelf/pkg/kafka"
)

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, ok := auth.UserID(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no user in context")
	}
	req.UserID = userID

	if err := c.Validate(req); err != nil {
		return err
	}

	rsv, err := h.reservationSvc.Create(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	h.enqueue(model.EventReservationCreated, rsv)

	return c.JSON(http.StatusCreated, rsv)
}

func (h *Handler) GetReservations(c echo.Context) error {
	userID, ok := auth.UserID(c.Request().Context())
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "no user in context")
	}
	rsv, err := h.reservationSvc.ListForUser(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

func (h *Handler) SetReservationStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.SetStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	rsv, err := h.reservationSvc.SetStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return httpError(err)
	}

	eventType := model.EventReservationApproved
	if req.Status == model.StatusRejected {
		eventType = model.EventReservationRejected
	}
	h.enqueue(eventType, rsv)

	return c.JSON(http.StatusOK, rsv)
}

func (h *Handler) ListAllReservations(c echo.Context) error {
	rsv, err := h.reservationSvc.ListAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rsv)
}

func (h *Handler) enqueue(eventType string, rsv model.Reservation) {
	if err := h.enqueuer.Enqueue(kafka.ReservationTopic, model.NewReservationEvent(eventType, rsv)); err != nil {
		h.log.Warn("enqueue reservation event",
			zap.String("type", eventType), zap.Int("reservationId", rsv.ID), zap.Error(err))
	}
}
