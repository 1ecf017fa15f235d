package api

import (
	"net/http"

	models "github.com/lab1702/trading-app/internal/domain/models"
	"github.com/lab1702/trading-app/internal/notify"
	"github.com/lab1702/trading-app/internal/usecase"
	xhttp "github.com/lab1702/trading-app/pkg/http"
	xlogger "github.com/lab1702/trading-app/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DashboardHandler exposes the analysis pipeline over Echo-based HTTP handlers.
type DashboardHandler struct {
	logger   *xlogger.Logger
	svc      *usecase.DashboardService
	notifier *notify.Center
	hub      *notify.Hub
}

func NewDashboardHandler(logger *xlogger.Logger, svc *usecase.DashboardService, notifier *notify.Center, hub *notify.Hub) *DashboardHandler {
	return &DashboardHandler{logger: logger, svc: svc, notifier: notifier, hub: hub}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/chart", h.Chart)
	g.GET("/strategy", h.Strategy)
	g.GET("/performance", h.Performance)
	g.GET("/forecast", h.Forecast)
	g.GET("/decomposition", h.Decomposition)
	g.GET("/recommendations", h.Recommendations)
	g.GET("/rows", h.Rows)
	g.GET("/notifications", h.Notifications)
	g.GET("/ws", h.Stream)
	g.GET("/symbols/:ticker/name", h.SymbolName)

	e.GET("/healthz", h.Health)
}

func (h *DashboardHandler) Chart(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.Chart(c.Request().Context(), req.Symbol))
}

func (h *DashboardHandler) Strategy(c echo.Context) error {
	req := &models.StrategyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.StrategyLevel(c.Request().Context(), req.Symbol, req.Level))
}

func (h *DashboardHandler) Performance(c echo.Context) error {
	req := &models.StrategyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.Performance(c.Request().Context(), req.Symbol, req.Level))
}

func (h *DashboardHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.ForecastChart(c.Request().Context(), req.Symbol))
}

func (h *DashboardHandler) Decomposition(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.Decomposition(c.Request().Context(), req.Symbol))
}

func (h *DashboardHandler) Recommendations(c echo.Context) error {
	req := &models.ChartRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.Recommendations(c.Request().Context(), req.Symbol))
}

func (h *DashboardHandler) Rows(c echo.Context) error {
	req := &models.RowsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	return xhttp.SuccessResponse(c, h.svc.RecentRows(c.Request().Context(), req.Symbol, req.N))
}

// Notifications returns the still-active transient notifications; expired
// ones are pruned on read.
func (h *DashboardHandler) Notifications(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.notifier.Active())
}

// Stream upgrades to a websocket that pushes notifications as they fire.
func (h *DashboardHandler) Stream(c echo.Context) error {
	if err := h.hub.Serve(c.Response(), c.Request()); err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return err
	}
	return nil
}

func (h *DashboardHandler) SymbolName(c echo.Context) error {
	name, cerr := h.svc.CompanyName(c.Param("ticker"))
	if cerr != nil {
		return xhttp.NotFoundResponse(c, cerr)
	}
	return xhttp.SuccessResponse(c, map[string]string{"ticker": c.Param("ticker"), "name": name})
}

func (h *DashboardHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
