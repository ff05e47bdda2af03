package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/ports"
)

// FinanceHandler exposes the ledger rollup behind the finance screen.
type FinanceHandler struct {
	finance ports.FinanceService
}

func NewFinanceHandler(finance ports.FinanceService) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// Summary returns the tenant's ledger rollup.
//
// @Summary      Finance summary
// @Tags         finance
// @Produce      json
// @Success      200  {object}  ports.FinanceSummary
// @Router       /finance/summary [get]
func (h *FinanceHandler) Summary(c echo.Context) error {
	summary, err := h.finance.Summary(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
