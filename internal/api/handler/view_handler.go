package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nightflow/nightflow-core/internal/core/domain"
	"github.com/nightflow/nightflow-core/internal/core/service"
)

// ViewHandler resolves which screen the caller's role renders for a selected
// tab. Routing is pure: disallowed or unknown tabs fall back to the role's
// default screen rather than erroring.
type ViewHandler struct{}

func NewViewHandler() *ViewHandler {
	return &ViewHandler{}
}

type viewResponse struct {
	Role        domain.Role   `json:"role"`
	Screen      domain.Screen `json:"screen"`
	InitialTab  domain.Tab    `json:"initial_tab"`
	AllowedTabs []domain.Tab  `json:"allowed_tabs"`
}

// Resolve routes the caller to a screen.
//
// @Summary      Resolve the screen for a tab selection
// @Tags         views
// @Produce      json
// @Param        tab  query     string  false  "Selected tab"
// @Success      200  {object}  viewResponse
// @Failure      401  {object}  map[string]string
// @Router       /view [get]
func (h *ViewHandler) Resolve(c echo.Context) error {
	role, err := ctxRole(c)
	if err != nil {
		return err
	}

	tab, ok := domain.ParseTab(c.QueryParam("tab"))
	if !ok {
		tab = service.InitialTab(role)
	}

	return c.JSON(http.StatusOK, viewResponse{
		Role:        role,
		Screen:      service.Route(role, tab),
		InitialTab:  service.InitialTab(role),
		AllowedTabs: service.AllowedTabs(role),
	})
}
