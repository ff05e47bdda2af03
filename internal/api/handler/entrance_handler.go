package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// EntranceHandler backs the door screen: guest list, QR lookup, check-in.
type EntranceHandler struct {
	entrance ports.EntranceService
}

func NewEntranceHandler(entrance ports.EntranceService) *EntranceHandler {
	return &EntranceHandler{entrance: entrance}
}

type scanRequest struct {
	Code string `json:"code" validate:"required"`
}

// List returns the guest list, optionally filtered.
//
// @Summary      Guest list
// @Tags         entrance
// @Produce      json
// @Param        search  query     string  false  "Name or reservation id filter"
// @Success      200     {array}   domain.Reservation
// @Router       /entrance/reservations [get]
func (h *EntranceHandler) List(c echo.Context) error {
	reservations, err := h.entrance.List(c.Request().Context(), c.QueryParam("search"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservations)
}

// Scan resolves a decoded QR payload to a reservation.
//
// @Summary      Resolve a scanned QR code
// @Tags         entrance
// @Accept       json
// @Produce      json
// @Param        body  body      scanRequest  true  "Decoded QR payload"
// @Success      200   {object}  domain.Reservation
// @Failure      404   {object}  map[string]string
// @Router       /entrance/scan [post]
func (h *EntranceHandler) Scan(c echo.Context) error {
	var req scanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reservation, err := h.entrance.Lookup(c.Request().Context(), req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reservation)
}

// CheckIn marks a reservation as checked in.
//
// @Summary      Check a reservation in
// @Tags         entrance
// @Produce      json
// @Param        id  path  string  true  "Reservation id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /entrance/reservations/{id}/checkin [post]
func (h *EntranceHandler) CheckIn(c echo.Context) error {
	if err := h.entrance.CheckIn(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
