package http

import (
	"net/http"

	"options-monitor/internal/dto"
	"options-monitor/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupSettings(base *echo.Group) {
	v1 := base.Group("/v1/settings")
	{
		v1.GET("", h.GetSettings)
		v1.PUT("", h.UpdateSettings)
	}
}

func (h *HttpAPIHandler) GetSettings(c echo.Context) error {
	settings, err := h.repo.SettingsRepo.Get(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("settings", settings))
}

// UpdateSettings stores the new settings and reschedules the poller when it
// is running, so a changed interval takes effect without a restart.
func (h *HttpAPIHandler) UpdateSettings(c echo.Context) error {
	var req dto.SettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse("invalid request payload"))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	settings := &model.Settings{
		PollMinutes:    req.PollMinutes,
		NotifySlack:    req.NotifySlack,
		NotifyEmail:    req.NotifyEmail,
		NotifyTelegram: req.NotifyTelegram,
	}
	if err := h.repo.SettingsRepo.Update(c.Request().Context(), settings); err != nil {
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}

	if h.service.Poller.Status().Running {
		if err := h.service.Poller.Start(c.Request().Context()); err != nil {
			return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
		}
	}

	return c.JSON(http.StatusOK, dto.NewSuccessResponse("settings updated", settings))
}
