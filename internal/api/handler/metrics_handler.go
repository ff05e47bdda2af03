package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// MetricsHandler exposes the operational snapshot and the sale commit path.
type MetricsHandler struct {
	metrics ports.MetricsService
}

func NewMetricsHandler(metrics ports.MetricsService) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

type commitSaleRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Type   string  `json:"type"   validate:"required,oneof=DIRECT UPSELL"`
}

// Snapshot returns the current in-memory metrics snapshot.
//
// @Summary      Operational snapshot
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  domain.MetricsSnapshot
// @Router       /dashboard/snapshot [get]
func (h *MetricsHandler) Snapshot(c echo.Context) error {
	return c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// Reconcile refreshes revenue and check-ins from the authoritative store and
// returns the resulting snapshot.
//
// @Summary      Reconcile the snapshot
// @Tags         metrics
// @Produce      json
// @Success      200  {object}  domain.MetricsSnapshot
// @Failure      502  {object}  map[string]string
// @Router       /dashboard/reconcile [post]
func (h *MetricsHandler) Reconcile(c echo.Context) error {
	if err := h.metrics.Reconcile(c.Request().Context()); err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "reconciliation failed")
	}
	return c.JSON(http.StatusOK, h.metrics.Snapshot())
}

// CommitSale records a sale in the ledger. The snapshot is not touched here;
// it moves when the insert echoes back through the live feed.
//
// @Summary      Commit a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        body  body      commitSaleRequest  true  "Sale details"
// @Success      202
// @Failure      400   {object}  map[string]string
// @Router       /sales [post]
func (h *MetricsHandler) CommitSale(c echo.Context) error {
	var req commitSaleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.metrics.CommitSale(c.Request().Context(), req.Amount, domain.SaleType(req.Type)); err != nil {
		return err
	}
	return c.NoContent(http.StatusAccepted)
}
