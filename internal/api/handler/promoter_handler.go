package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// PromoterHandler backs the promoter mobile view.
type PromoterHandler struct {
	promoters ports.PromoterService
}

func NewPromoterHandler(promoters ports.PromoterService) *PromoterHandler {
	return &PromoterHandler{promoters: promoters}
}

// Stats returns the referral performance rollup for a promoter code.
//
// @Summary      Promoter performance
// @Tags         promoters
// @Produce      json
// @Param        ref_code  query     string  true  "Promoter referral code"
// @Success      200       {object}  ports.PromoterStats
// @Failure      400       {object}  map[string]string
// @Router       /promoter/stats [get]
func (h *PromoterHandler) Stats(c echo.Context) error {
	refCode := c.QueryParam("ref_code")
	if refCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "ref_code is required")
	}

	stats, err := h.promoters.Stats(c.Request().Context(), refCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
