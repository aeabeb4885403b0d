package http

import (
	"net/http"
	"strconv"

	"options-monitor/internal/dto"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupMonitor(base *echo.Group) {
	v1 := base.Group("/v1/monitor")
	{
		v1.POST("/start", h.StartMonitor)
		v1.POST("/stop", h.StopMonitor)
		v1.GET("/status", h.MonitorStatus)
		v1.POST("/run-once", h.RunMonitorOnce)
	}

	base.GET("/v1/decisions/recent", h.RecentDecisions)
}

func (h *HttpAPIHandler) StartMonitor(c echo.Context) error {
	if err := h.service.Poller.Start(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("monitor started", h.service.Poller.Status()))
}

func (h *HttpAPIHandler) StopMonitor(c echo.Context) error {
	h.service.Poller.Stop()
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("monitor stopped", h.service.Poller.Status()))
}

func (h *HttpAPIHandler) MonitorStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("monitor status", h.service.Poller.Status()))
}

func (h *HttpAPIHandler) RunMonitorOnce(c echo.Context) error {
	results, err := h.service.Monitor.RunOnce(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("monitor run completed", results))
}

func (h *HttpAPIHandler) RecentDecisions(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid limit"))
		}
		limit = parsed
	}

	entries, err := h.repo.DecisionLogRepo.Recent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("recent decisions", entries))
}
